package entities

import (
	"time"

	"github.com/google/uuid"
)

// CallEventKind classifies a turn in the call log.
type CallEventKind string

const (
	CallEventKindHumanInput    CallEventKind = "human-input"
	CallEventKindAgentResponse CallEventKind = "agent-response"
)

// ModeratorSpeaker is the speaker label for human input turns.
const ModeratorSpeaker = "Moderator"

// CallEvent is one turn in a call. The call_events table is append-only:
// events are created during the open lifetime of a call and never mutated.
type CallEvent struct {
	ID uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	// Seq is assigned by the database sequence on insert and gives turns a
	// total order even when created_at ties. Never written by the application.
	Seq       int64         `json:"-" gorm:"->;type:bigint"`
	CallID    uuid.UUID     `json:"call_id" gorm:"type:uuid;not null;index"`
	Speaker   string        `json:"speaker" gorm:"type:varchar(255);not null"`
	Kind      CallEventKind `json:"kind" gorm:"type:varchar(30);not null"`
	Text      string        `json:"text" gorm:"type:text;not null"`
	AudioURL  *string       `json:"audio_url,omitempty" gorm:"type:text"`
	CreatedAt time.Time     `json:"created_at" gorm:"autoCreateTime;index"`
}

// TableName specifies the table name for GORM
func (CallEvent) TableName() string {
	return "call_events"
}

// NewCallEvent creates a turn record for the given call.
func NewCallEvent(callID uuid.UUID, speaker string, kind CallEventKind, text string, audioURL *string) *CallEvent {
	return &CallEvent{
		ID:        uuid.New(),
		CallID:    callID,
		Speaker:   speaker,
		Kind:      kind,
		Text:      text,
		AudioURL:  audioURL,
		CreatedAt: time.Now(),
	}
}
