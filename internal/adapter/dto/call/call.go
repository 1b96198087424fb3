package call

import (
	"time"

	"github.com/google/uuid"

	"github.com/avinci-labs/avinci/internal/domain/entities"
)

// CreateRequest opens a call session with a persona roster.
type CreateRequest struct {
	ParticipantIDs []string `json:"participant_ids" validate:"required,min=1,max=5,dive,uuid4"`
	Topic          string   `json:"topic" validate:"omitempty,max=500"`
	Type           string   `json:"type" validate:"required,oneof=group one_on_one"`
}

// ParsedParticipantIDs converts the string ids to UUIDs.
func (r *CreateRequest) ParsedParticipantIDs() ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, len(r.ParticipantIDs))
	for i, s := range r.ParticipantIDs {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

// TurnRequest is one moderator turn. Text turns come as JSON; voice turns
// come as multipart with an "audio" file instead.
type TurnRequest struct {
	Text string `json:"text"`
}

// Response is the public call shape.
type Response struct {
	ID             string     `json:"id"`
	ParticipantIDs []string   `json:"participant_ids"`
	Topic          string     `json:"topic,omitempty"`
	Type           string     `json:"type"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`
}

// EventResponse is one turn in the call log.
type EventResponse struct {
	ID        string    `json:"id"`
	Speaker   string    `json:"speaker"`
	Kind      string    `json:"kind"`
	Text      string    `json:"text"`
	AudioURL  *string   `json:"audio_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DetailResponse is a call with its recent history.
type DetailResponse struct {
	Call   *Response        `json:"call"`
	Events []*EventResponse `json:"events"`
}

// FromEntity maps a call entity to its public shape.
func FromEntity(c *entities.Call) *Response {
	ids := make([]string, len(c.ParticipantIDs))
	for i, id := range c.ParticipantIDs {
		ids[i] = id.String()
	}
	return &Response{
		ID:             c.ID.String(),
		ParticipantIDs: ids,
		Topic:          c.Topic,
		Type:           string(c.Type),
		Status:         string(c.Status),
		CreatedAt:      c.CreatedAt,
		EndedAt:        c.EndedAt,
	}
}

// EventFromEntity maps a call event to its public shape.
func EventFromEntity(e *entities.CallEvent) *EventResponse {
	return &EventResponse{
		ID:        e.ID.String(),
		Speaker:   e.Speaker,
		Kind:      string(e.Kind),
		Text:      e.Text,
		AudioURL:  e.AudioURL,
		CreatedAt: e.CreatedAt,
	}
}

// EventsFromEntities maps a call event list.
func EventsFromEntities(events []*entities.CallEvent) []*EventResponse {
	out := make([]*EventResponse, len(events))
	for i, e := range events {
		out[i] = EventFromEntity(e)
	}
	return out
}
