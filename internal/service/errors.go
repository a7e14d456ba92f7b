package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in service-specific error types
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrNotOwned indicates a resource is owned by a different user than the one making the request.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrListingNotOwned is ErrNotOwned for listings.
	ErrListingNotOwned = fmt.Errorf("%w: listing", ErrNotOwned)

	// ErrEmptyPatch indicates an update that changes nothing.
	// API layer should map this to HTTP 400 Bad Request.
	ErrEmptyPatch = errors.New("no fields to update")
)

// ListingServiceError is a custom error type for unexpected listing service failures.
type ListingServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ListingServiceError.
func (e *ListingServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("listing service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("listing service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ListingServiceError) Unwrap() error {
	return e.Err
}

// NewListingServiceError creates a new ListingServiceError.
func NewListingServiceError(operation, message string, err error) *ListingServiceError {
	return &ListingServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
