// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"strings"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// Every ValidationError wraps it, so errors.Is(err, ErrValidation) holds
	// for single and aggregated validation failures alike.
	ErrValidation = errors.New("validation failed")

	// ErrMissingField is returned when a required field is absent from a payload.
	ErrMissingField = errors.New("missing field")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("email is not valid")

	// ErrPasswordTooEasy is returned when a password is shorter than MinPasswordLength.
	ErrPasswordTooEasy = errors.New("password too easy")

	// ErrPasswordTooLong is returned when a password exceeds MaxPasswordBytes.
	ErrPasswordTooLong = errors.New("password too long")

	// ErrImmutableField is returned when a caller tries to change a field
	// that is fixed at creation time (id, owner_id, timestamps).
	ErrImmutableField = errors.New("field cannot be modified")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// ValidationError describes a single field-level validation failure.
// Message is safe to show to API clients.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for field. The message is
// returned verbatim by Error(); err is the sentinel the failure maps to.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// NewMissingFieldError reports that field was not supplied at all.
func NewMissingFieldError(field string) *ValidationError {
	return NewValidationError(field, field+" is needed", ErrMissingField)
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap exposes both ErrValidation and the specific sentinel.
func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Err}
}

// ValidationErrors collects every field failure found in one pass.
type ValidationErrors []*ValidationError

// Error joins the individual messages.
func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, ve := range e {
		msgs = append(msgs, ve.Message)
	}
	return strings.Join(msgs, "; ")
}

// Unwrap returns the individual failures so errors.Is/As walk all of them.
func (e ValidationErrors) Unwrap() []error {
	errs := make([]error, 0, len(e))
	for _, ve := range e {
		errs = append(errs, ve)
	}
	return errs
}

// Messages returns the client-safe message of every failure in err, which
// may be a *ValidationError, a ValidationErrors or anything wrapping them.
// It returns nil when err carries no validation failure.
func Messages(err error) []string {
	var many ValidationErrors
	if errors.As(err, &many) {
		msgs := make([]string, 0, len(many))
		for _, ve := range many {
			msgs = append(msgs, ve.Message)
		}
		return msgs
	}

	var one *ValidationError
	if errors.As(err, &one) {
		return []string{one.Message}
	}
	return nil
}

// orNil collapses an empty aggregate into a nil error.
func (e ValidationErrors) orNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
