package entities

import "errors"

// Domain errors
var (
	// Persona errors
	ErrPersonaNotFound = errors.New("persona not found")
	ErrPersonaArchived = errors.New("persona is archived")

	// Call errors
	ErrCallNotFound      = errors.New("call not found")
	ErrCallClosed        = errors.New("call is not active")
	ErrInvalidCallType   = errors.New("call type must be group or one_on_one")
	ErrInvalidRosterSize = errors.New("one_on_one calls need exactly 1 participant, group calls 2-5")

	// Generic errors
	ErrInvalidRequest = errors.New("invalid request")
)
