package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/adboard/internal/domain"
	"github.com/phrazzld/adboard/internal/service/auth"
)

// MockCredentialManager implements auth.CredentialManager for testing
type MockCredentialManager struct {
	RegisterFn func(ctx context.Context, in auth.RegistrationInput) (*domain.User, error)
	VerifyFn   func(ctx context.Context, email, password string) (*domain.User, error)
}

var _ auth.CredentialManager = (*MockCredentialManager)(nil)

// Register implements auth.CredentialManager
func (m *MockCredentialManager) Register(ctx context.Context, in auth.RegistrationInput) (*domain.User, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, in)
	}
	return nil, nil
}

// Verify implements auth.CredentialManager
func (m *MockCredentialManager) Verify(ctx context.Context, email, password string) (*domain.User, error) {
	if m.VerifyFn != nil {
		return m.VerifyFn(ctx, email, password)
	}
	return nil, auth.ErrInvalidCredentials
}

// MockTokenManager implements auth.TokenManager for testing.
// Unset functions reject every token.
type MockTokenManager struct {
	IssueFn    func(ctx context.Context, userID uuid.UUID) (*domain.Token, error)
	ValidateFn func(ctx context.Context, email, tokenID string) (*domain.Identity, error)
	RevokeFn   func(ctx context.Context, tokenID string) error

	// RevokedTokens records the IDs passed to Revoke
	RevokedTokens []string
}

var _ auth.TokenManager = (*MockTokenManager)(nil)

// Issue implements auth.TokenManager
func (m *MockTokenManager) Issue(ctx context.Context, userID uuid.UUID) (*domain.Token, error) {
	if m.IssueFn != nil {
		return m.IssueFn(ctx, userID)
	}
	return nil, auth.ErrTokenCollision
}

// Validate implements auth.TokenManager
func (m *MockTokenManager) Validate(ctx context.Context, email, tokenID string) (*domain.Identity, error) {
	if m.ValidateFn != nil {
		return m.ValidateFn(ctx, email, tokenID)
	}
	return nil, auth.ErrUnauthenticated
}

// Revoke implements auth.TokenManager
func (m *MockTokenManager) Revoke(ctx context.Context, tokenID string) error {
	m.RevokedTokens = append(m.RevokedTokens, tokenID)
	if m.RevokeFn != nil {
		return m.RevokeFn(ctx, tokenID)
	}
	return nil
}
