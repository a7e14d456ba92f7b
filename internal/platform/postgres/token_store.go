package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/adboard/internal/domain"
	"github.com/phrazzld/adboard/internal/platform/logger"
	"github.com/phrazzld/adboard/internal/store"
)

const tokenStoreComponent = "token_store"

// PostgresTokenStore implements the store.TokenStore interface.
type PostgresTokenStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTokenStore creates a new SQL implementation of the TokenStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTokenStore(db store.DBTX, logger *slog.Logger) *PostgresTokenStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTokenStore{
		db:     db,
		logger: logger.With(slog.String("component", tokenStoreComponent)),
	}
}

var _ store.TokenStore = (*PostgresTokenStore)(nil)

// WithTx implements store.TokenStore.WithTx
func (s *PostgresTokenStore) WithTx(tx *sql.Tx) store.TokenStore {
	return &PostgresTokenStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.TokenStore.Create
func (s *PostgresTokenStore) Create(ctx context.Context, token *domain.Token) error {
	log := logger.ForComponent(ctx, s.logger, tokenStoreComponent)

	if err := token.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO tokens (id, user_id, created_at, expires_at, revoked_at)
		VALUES ($1, $2, $3, $4, NULL)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		token.ID,
		token.UserID,
		token.CreatedAt.UTC(),
		token.ExpiresAt.UTC(),
	)
	if err != nil {
		switch {
		case IsUniqueViolation(err):
			return store.ErrTokenExists
		case IsForeignKeyViolation(err):
			log.Warn("token issued for unknown user",
				slog.String("user_id", token.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found", store.ErrInvalidEntity, token.UserID)
		}
		log.Error("failed to create token",
			slog.String("error", err.Error()),
			slog.String("user_id", token.UserID.String()))
		return store.NewStoreError("token", "create", "insert failed", MapError(err))
	}

	log.Debug("token created", slog.String("user_id", token.UserID.String()))
	return nil
}

// GetByIDAndEmail implements store.TokenStore.GetByIDAndEmail
// The token and its owner are resolved in a single query.
func (s *PostgresTokenStore) GetByIDAndEmail(
	ctx context.Context,
	tokenID, email string,
) (*domain.Token, error) {
	log := logger.ForComponent(ctx, s.logger, tokenStoreComponent)

	query := `
		SELECT t.id, t.user_id, t.created_at, t.expires_at, t.revoked_at
		FROM tokens t
		JOIN users u ON u.id = t.user_id
		WHERE t.id = $1 AND u.email = $2
	`

	var token domain.Token
	var revokedAt sql.NullTime
	err := s.db.QueryRowContext(ctx, query, tokenID, domain.NormalizeEmail(email)).Scan(
		&token.ID,
		&token.UserID,
		&token.CreatedAt,
		&token.ExpiresAt,
		&revokedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTokenNotFound
		}
		log.Error("failed to look up token", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to look up token: %w", MapError(err))
	}

	if revokedAt.Valid {
		t := revokedAt.Time
		token.RevokedAt = &t
	}
	return &token, nil
}

// Revoke implements store.TokenStore.Revoke
func (s *PostgresTokenStore) Revoke(ctx context.Context, tokenID string, at time.Time) error {
	log := logger.ForComponent(ctx, s.logger, tokenStoreComponent)

	query := `
		UPDATE tokens
		SET revoked_at = COALESCE(revoked_at, $1)
		WHERE id = $2
	`
	result, err := s.db.ExecContext(ctx, query, at.UTC(), tokenID)
	if err != nil {
		log.Error("failed to revoke token", slog.String("error", err.Error()))
		return store.NewStoreError("token", "revoke", "update failed", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrTokenNotFound)
}

// DeleteExpired implements store.TokenStore.DeleteExpired
func (s *PostgresTokenStore) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	log := logger.ForComponent(ctx, s.logger, tokenStoreComponent)

	query := `
		DELETE FROM tokens
		WHERE expires_at < $1 OR revoked_at < $1
	`
	result, err := s.db.ExecContext(ctx, query, cutoff.UTC())
	if err != nil {
		log.Error("failed to delete expired tokens", slog.String("error", err.Error()))
		return 0, store.NewStoreError("token", "delete", "cleanup failed", MapError(err))
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if n > 0 {
		log.Info("expired tokens deleted", slog.Int64("count", n))
	}
	return n, nil
}
