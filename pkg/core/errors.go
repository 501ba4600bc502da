package core

import (
	"errors"
	"fmt"
)

// Error is the canonical error type for the concierge core. Every failure
// surfaced to a caller is classified so the UI layer can decide whether it
// is fatal to the session, fatal to the turn, or merely degrades a feature.
type Error struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ErrorType categorizes errors.
type ErrorType string

const (
	// ErrInitialization means the session could not be created at all
	// (missing credential, unreachable backend). The session is unusable
	// until it is recreated.
	ErrInitialization ErrorType = "initialization_error"

	// ErrTurn means a single send failed. The dialogue state is left as it
	// was before the send and the session remains usable.
	ErrTurn ErrorType = "turn_error"

	// ErrSpeechSynthesis means audio generation failed. Non-fatal; the
	// assistant text is still usable without audio.
	ErrSpeechSynthesis ErrorType = "speech_synthesis_error"

	// ErrExtraction means a URL/document import action failed. Scoped to
	// that action; setup state is unchanged.
	ErrExtraction ErrorType = "extraction_error"

	// ErrUnsupportedCapability means an optional capability (such as
	// speech-to-text) is not available in this environment.
	ErrUnsupportedCapability ErrorType = "unsupported_capability_error"

	// ErrTransport covers HTTP/connection-level failures beneath any of
	// the above when no better classification exists.
	ErrTransport ErrorType = "transport_error"
)

// NewInitializationError creates an initialization error.
func NewInitializationError(message string, cause error) *Error {
	return &Error{Type: ErrInitialization, Message: message, Err: cause}
}

// NewTurnError creates a per-turn error.
func NewTurnError(message string, cause error) *Error {
	return &Error{Type: ErrTurn, Message: message, Err: cause}
}

// NewSpeechSynthesisError creates a speech synthesis error.
func NewSpeechSynthesisError(message string, cause error) *Error {
	return &Error{Type: ErrSpeechSynthesis, Message: message, Err: cause}
}

// NewExtractionError creates an extraction error.
func NewExtractionError(message string, cause error) *Error {
	return &Error{Type: ErrExtraction, Message: message, Err: cause}
}

// NewUnsupportedCapabilityError creates an unsupported capability error.
func NewUnsupportedCapabilityError(message string) *Error {
	return &Error{Type: ErrUnsupportedCapability, Message: message}
}

// NewTransportError creates a transport error.
func NewTransportError(message string, cause error) *Error {
	return &Error{Type: ErrTransport, Message: message, Err: cause}
}

// TypeOf reports the ErrorType of err, unwrapping as needed. Returns the
// zero ErrorType when err carries no classification.
func TypeOf(err error) ErrorType {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Type
	}
	return ""
}

// IsRecoverable reports whether the session remains usable after err. Only
// initialization failures condemn the session.
func IsRecoverable(err error) bool {
	return TypeOf(err) != ErrInitialization
}
