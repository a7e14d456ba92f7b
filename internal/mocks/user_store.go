package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/adboard/internal/domain"
	"github.com/phrazzld/adboard/internal/store"
)

// MockUserStore is an in-memory store.UserStore. Emails are matched
// case-insensitively, the way the UNIQUE constraint on users.email is
// enforced by the SQL stores. Set a function field to override a method.
type MockUserStore struct {
	CreateFn     func(ctx context.Context, user *domain.User) error
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// CreateError and GetByEmailError, when set, are returned before the
	// in-memory data is consulted.
	CreateError     error
	GetByEmailError error

	mu           sync.Mutex
	users        map[string]domain.User
	emailLookups []string
}

var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates an empty MockUserStore.
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{users: make(map[string]domain.User)}
}

// Create stores a copy of user, rejecting a second account for the same email.
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	if m.CreateError != nil {
		return m.CreateError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := domain.NormalizeEmail(user.Email)
	if _, exists := m.users[key]; exists {
		return store.ErrEmailExists
	}

	stored := *user
	stored.Password = ""
	m.users[key] = stored
	return nil
}

// GetByEmail returns a copy of the user registered under email.
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	m.emailLookups = append(m.emailLookups, email)
	m.mu.Unlock()

	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	if m.GetByEmailError != nil {
		return nil, m.GetByEmailError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	user, exists := m.users[domain.NormalizeEmail(email)]
	if !exists {
		return nil, store.ErrUserNotFound
	}
	return &user, nil
}

// GetByID returns a copy of the user with the given ID.
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.users {
		if user.ID == id {
			u := user
			return &u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// EmailLookups returns the emails passed to GetByEmail, in call order.
func (m *MockUserStore) EmailLookups() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.emailLookups...)
}

// Count returns the number of stored users.
func (m *MockUserStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

// WithTx returns m; the mock has no transactional state.
func (m *MockUserStore) WithTx(*sql.Tx) store.UserStore {
	return m
}
