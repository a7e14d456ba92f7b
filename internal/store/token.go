package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/phrazzld/adboard/internal/domain"
)

// TokenStore defines the interface for session token persistence.
type TokenStore interface {
	// Create persists a newly issued token.
	// Returns ErrTokenExists on an ID collision and ErrInvalidEntity if the
	// user does not exist.
	Create(ctx context.Context, token *domain.Token) error

	// GetByIDAndEmail returns the token with the given ID only if it belongs
	// to the user holding email. Expired and revoked tokens are returned as
	// well; judging them is up to the caller.
	// Returns ErrTokenNotFound when nothing matches.
	GetByIDAndEmail(ctx context.Context, tokenID, email string) (*domain.Token, error)

	// Revoke marks the token revoked at the given time. Revoking an already
	// revoked token keeps the original timestamp.
	// Returns ErrTokenNotFound if the token does not exist.
	Revoke(ctx context.Context, tokenID string, at time.Time) error

	// DeleteExpired removes tokens that expired or were revoked before cutoff
	// and reports how many were removed.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)

	// WithTx returns a new TokenStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TokenStore
}
