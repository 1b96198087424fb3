package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CallType distinguishes moderated group discussions from 1:1 interviews.
type CallType string

const (
	CallTypeGroup    CallType = "group"
	CallTypeOneOnOne CallType = "one_on_one"
)

// CallStatus tracks the call lifecycle.
type CallStatus string

const (
	CallStatusOpen   CallStatus = "open"
	CallStatusClosed CallStatus = "closed"
)

// Group call roster bounds. A one_on_one call has exactly one participant.
const (
	MinGroupParticipants = 2
	MaxGroupParticipants = 5
)

// Call is one live research session between a moderator and a roster of
// synthetic participants.
type Call struct {
	ID             uuid.UUID                      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ParticipantIDs datatypes.JSONSlice[uuid.UUID] `json:"participant_ids" gorm:"type:jsonb;not null"`
	Topic          string                         `json:"topic" gorm:"type:varchar(500)"`
	Type           CallType                       `json:"type" gorm:"type:varchar(20);not null"`
	Status         CallStatus                     `json:"status" gorm:"type:varchar(20);not null;default:'open';index"`
	CreatedAt      time.Time                      `json:"created_at" gorm:"autoCreateTime"`
	EndedAt        *time.Time                     `json:"ended_at,omitempty" gorm:"type:timestamp"`
}

// TableName specifies the table name for GORM
func (Call) TableName() string {
	return "calls"
}

// NewCall creates an open call for the given roster.
func NewCall(participantIDs []uuid.UUID, topic string, callType CallType) *Call {
	return &Call{
		ID:             uuid.New(),
		ParticipantIDs: datatypes.NewJSONSlice(participantIDs),
		Topic:          topic,
		Type:           callType,
		Status:         CallStatusOpen,
		CreatedAt:      time.Now(),
	}
}

// ValidateRoster enforces the roster-size invariant for the call type.
func (c *Call) ValidateRoster() error {
	switch c.Type {
	case CallTypeOneOnOne:
		if len(c.ParticipantIDs) != 1 {
			return ErrInvalidRosterSize
		}
	case CallTypeGroup:
		if len(c.ParticipantIDs) < MinGroupParticipants || len(c.ParticipantIDs) > MaxGroupParticipants {
			return ErrInvalidRosterSize
		}
	default:
		return ErrInvalidCallType
	}
	return nil
}

// IsOpen reports whether the call still accepts turns.
func (c *Call) IsOpen() bool {
	return c.Status == CallStatusOpen
}

// End closes the call. Already-scheduled deliveries keep firing; closing only
// stops new turns from being accepted.
func (c *Call) End() {
	now := time.Now()
	c.Status = CallStatusClosed
	c.EndedAt = &now
}
