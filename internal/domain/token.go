package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Token validation errors
var (
	ErrEmptyTokenID     = errors.New("token ID cannot be empty")
	ErrTokenUserIDEmpty = errors.New("token user ID cannot be empty")
	ErrTokenExpiryOrder = errors.New("token must expire after it was created")
)

// Token is an opaque session credential issued on login.
// A user may hold any number of tokens at once.
type Token struct {
	ID        string     `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

// Validate checks if the Token has valid data.
func (t *Token) Validate() error {
	if t.ID == "" {
		return ErrEmptyTokenID
	}
	if t.UserID == uuid.Nil {
		return ErrTokenUserIDEmpty
	}
	if !t.ExpiresAt.After(t.CreatedAt) {
		return ErrTokenExpiryOrder
	}
	return nil
}

// Expired reports whether the token is past its expiry at now.
func (t *Token) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// Revoked reports whether the token was explicitly revoked.
func (t *Token) Revoked() bool {
	return t.RevokedAt != nil
}

// Identity is the authenticated caller resolved from a session token.
type Identity struct {
	UserID  uuid.UUID
	Email   string
	TokenID string
}
