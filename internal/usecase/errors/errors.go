package errors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("resource not found")
	ErrInternalError = errors.New("internal server error")
)

// ExhaustedFallbackError marks a turn whose every generation tier failed,
// including the local template tier. The template tier cannot fail at runtime,
// so seeing this error means the pipeline is misconfigured.
var ExhaustedFallbackError = errors.New("all response generation tiers exhausted")

// ValidationError rejects malformed input immediately. It never triggers a
// fallback tier and is always surfaced to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ProviderError wraps any external capability failure: network errors,
// timeouts, malformed provider output. Provider errors are swallowed by the
// pipeline (they advance the fallback tier) and never reach the end user.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s failed: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError wraps err as a failure of the named provider.
func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: err}
}

// ExtractionError marks a language-model reply that contained no parseable
// JSON object where the extraction schema required exactly one.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract structured data from model reply: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
