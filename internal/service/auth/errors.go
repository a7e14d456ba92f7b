package auth

import (
	"errors"
	"fmt"

	"github.com/phrazzld/adboard/internal/store"
)

// Common authentication service errors
var (
	// ErrUnauthenticated indicates the caller's email and token do not
	// identify a live session. It does not say which part failed.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrInvalidCredentials indicates a login with an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrTokenCollision indicates that no unused token ID could be generated.
	ErrTokenCollision = errors.New("failed to generate a unique token")
)

// EmailTakenError reports a registration for an email that already has an account.
type EmailTakenError struct {
	Email string
}

// Error implements the error interface.
func (e *EmailTakenError) Error() string {
	return fmt.Sprintf("user with email %s already exists", e.Email)
}

// Unwrap lets errors.Is match store.ErrEmailExists and store.ErrDuplicate.
func (e *EmailTakenError) Unwrap() error {
	return store.ErrEmailExists
}
