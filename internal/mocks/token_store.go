package mocks

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/phrazzld/adboard/internal/domain"
	"github.com/phrazzld/adboard/internal/store"
)

// MockTokenStore implements store.TokenStore for testing.
// Without function overrides it keeps tokens in memory and resolves
// emails through the Emails map (user ID string -> email).
type MockTokenStore struct {
	CreateFn          func(ctx context.Context, token *domain.Token) error
	GetByIDAndEmailFn func(ctx context.Context, tokenID, email string) (*domain.Token, error)
	RevokeFn          func(ctx context.Context, tokenID string, at time.Time) error
	DeleteExpiredFn   func(ctx context.Context, cutoff time.Time) (int64, error)

	mu     sync.Mutex
	Tokens map[string]*domain.Token
	Emails map[string]string
}

var _ store.TokenStore = (*MockTokenStore)(nil)

// NewMockTokenStore creates a new mock store with initialized defaults
func NewMockTokenStore() *MockTokenStore {
	return &MockTokenStore{
		Tokens: make(map[string]*domain.Token),
		Emails: make(map[string]string),
	}
}

// Create implements the TokenStore interface
func (m *MockTokenStore) Create(ctx context.Context, token *domain.Token) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, token)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Tokens[token.ID]; exists {
		return store.ErrTokenExists
	}
	m.Tokens[token.ID] = token
	return nil
}

// GetByIDAndEmail implements the TokenStore interface
func (m *MockTokenStore) GetByIDAndEmail(ctx context.Context, tokenID, email string) (*domain.Token, error) {
	if m.GetByIDAndEmailFn != nil {
		return m.GetByIDAndEmailFn(ctx, tokenID, email)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	token, exists := m.Tokens[tokenID]
	if !exists || m.Emails[token.UserID.String()] != email {
		return nil, store.ErrTokenNotFound
	}
	return token, nil
}

// Revoke implements the TokenStore interface
func (m *MockTokenStore) Revoke(ctx context.Context, tokenID string, at time.Time) error {
	if m.RevokeFn != nil {
		return m.RevokeFn(ctx, tokenID, at)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	token, exists := m.Tokens[tokenID]
	if !exists {
		return store.ErrTokenNotFound
	}
	if token.RevokedAt == nil {
		token.RevokedAt = &at
	}
	return nil
}

// DeleteExpired implements the TokenStore interface
func (m *MockTokenStore) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.DeleteExpiredFn != nil {
		return m.DeleteExpiredFn(ctx, cutoff)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, token := range m.Tokens {
		if token.ExpiresAt.Before(cutoff) || (token.RevokedAt != nil && token.RevokedAt.Before(cutoff)) {
			delete(m.Tokens, id)
			n++
		}
	}
	return n, nil
}

// WithTx implements the TokenStore interface for transaction support
func (m *MockTokenStore) WithTx(tx *sql.Tx) store.TokenStore {
	return m
}
