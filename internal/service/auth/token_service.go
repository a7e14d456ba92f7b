package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/adboard/internal/domain"
	"github.com/phrazzld/adboard/internal/platform/logger"
	"github.com/phrazzld/adboard/internal/store"
)

const tokenServiceComponent = "token_service"

const (
	// tokenBytes is the amount of randomness in a session token.
	tokenBytes = 32

	// maxIssueAttempts bounds retries after a token ID collision.
	maxIssueAttempts = 3
)

// TokenManager issues, validates and revokes session tokens.
type TokenManager interface {
	// Issue creates and stores a new token for userID.
	Issue(ctx context.Context, userID uuid.UUID) (*domain.Token, error)

	// Validate resolves the caller from the claimed email and token.
	// It returns ErrUnauthenticated unless the token exists, belongs to the
	// user with that email, and is neither expired nor revoked.
	Validate(ctx context.Context, email, tokenID string) (*domain.Identity, error)

	// Revoke ends the session identified by tokenID.
	Revoke(ctx context.Context, tokenID string) error
}

// TokenService implements TokenManager on top of a TokenStore.
type TokenService struct {
	tokens   store.TokenStore
	lifetime time.Duration
	logger   *slog.Logger

	now    func() time.Time // Injectable for testing
	random io.Reader        // Injectable for testing
}

var _ TokenManager = (*TokenService)(nil)

// NewTokenService creates a TokenService issuing tokens valid for lifetime.
// If logger is nil, a default logger will be used.
func NewTokenService(tokens store.TokenStore, lifetime time.Duration, logger *slog.Logger) (*TokenService, error) {
	if tokens == nil {
		return nil, fmt.Errorf("tokens cannot be nil")
	}
	if lifetime <= 0 {
		return nil, fmt.Errorf("token lifetime must be positive, got %s", lifetime)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TokenService{
		tokens:   tokens,
		lifetime: lifetime,
		logger:   logger.With(slog.String("component", tokenServiceComponent)),
		now:      time.Now,
		random:   rand.Reader,
	}, nil
}

// Issue implements TokenManager.Issue
func (s *TokenService) Issue(ctx context.Context, userID uuid.UUID) (*domain.Token, error) {
	log := logger.ForComponent(ctx, s.logger, tokenServiceComponent)

	for attempt := 1; attempt <= maxIssueAttempts; attempt++ {
		id, err := s.newTokenID()
		if err != nil {
			return nil, err
		}

		now := domain.Timestamp(s.now())
		token := &domain.Token{
			ID:        id,
			UserID:    userID,
			CreatedAt: now,
			ExpiresAt: now.Add(s.lifetime),
		}

		err = s.tokens.Create(ctx, token)
		if err == nil {
			log.Info("token issued",
				slog.String("user_id", userID.String()),
				slog.Time("expires_at", token.ExpiresAt))
			return token, nil
		}
		if !errors.Is(err, store.ErrTokenExists) {
			log.Error("failed to store token",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
			return nil, fmt.Errorf("failed to issue token: %w", err)
		}

		log.Warn("token ID collision", slog.Int("attempt", attempt))
	}

	return nil, ErrTokenCollision
}

func (s *TokenService) newTokenID() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := io.ReadFull(s.random, buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Validate implements TokenManager.Validate
func (s *TokenService) Validate(ctx context.Context, email, tokenID string) (*domain.Identity, error) {
	log := logger.ForComponent(ctx, s.logger, tokenServiceComponent)

	email = domain.NormalizeEmail(email)
	tokenID = strings.TrimSpace(tokenID)
	if email == "" || tokenID == "" {
		return nil, ErrUnauthenticated
	}

	token, err := s.tokens.GetByIDAndEmail(ctx, tokenID, email)
	if err != nil {
		if errors.Is(err, store.ErrTokenNotFound) {
			return nil, ErrUnauthenticated
		}
		log.Error("failed to look up token", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to validate token: %w", err)
	}

	now := s.now()
	switch {
	case token.Revoked():
		log.Debug("revoked token presented", slog.String("user_id", token.UserID.String()))
		return nil, ErrUnauthenticated
	case token.Expired(now):
		log.Debug("expired token presented", slog.String("user_id", token.UserID.String()))
		return nil, ErrUnauthenticated
	}

	return &domain.Identity{
		UserID:  token.UserID,
		Email:   email,
		TokenID: token.ID,
	}, nil
}

// Revoke implements TokenManager.Revoke
func (s *TokenService) Revoke(ctx context.Context, tokenID string) error {
	err := s.tokens.Revoke(ctx, tokenID, s.now().UTC())
	if errors.Is(err, store.ErrTokenNotFound) {
		return ErrUnauthenticated
	}
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// PurgeExpired deletes tokens that expired or were revoked more than
// retention ago.
func (s *TokenService) PurgeExpired(ctx context.Context, retention time.Duration) (int64, error) {
	n, err := s.tokens.DeleteExpired(ctx, s.now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("failed to purge tokens: %w", err)
	}
	return n, nil
}
