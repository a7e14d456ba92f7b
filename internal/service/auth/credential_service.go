package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/adboard/internal/domain"
	"github.com/phrazzld/adboard/internal/platform/logger"
	"github.com/phrazzld/adboard/internal/store"
)

const credentialServiceComponent = "credential_service"

// CredentialManager registers users and checks their passwords.
type CredentialManager interface {
	// Register validates the input, stores a new user with a password digest
	// and returns it with HashedPassword set.
	Register(ctx context.Context, in RegistrationInput) (*domain.User, error)

	// Verify returns the user owning email if password matches its digest.
	// Any mismatch returns ErrInvalidCredentials.
	Verify(ctx context.Context, email, password string) (*domain.User, error)
}

// Hasher is both halves of the password digest contract.
type Hasher interface {
	PasswordHasher
	PasswordVerifier
}

// CredentialService implements CredentialManager on top of a UserStore.
type CredentialService struct {
	db        *sql.DB
	users     store.UserStore
	validator *RegistrationValidator
	hasher    Hasher
	logger    *slog.Logger

	// dummyDigest is compared against when the email is unknown so that
	// both failure paths cost one bcrypt comparison.
	dummyDigest string
}

var _ CredentialManager = (*CredentialService)(nil)

// NewCredentialService creates a CredentialService.
// If logger is nil, a default logger will be used.
func NewCredentialService(
	db *sql.DB,
	users store.UserStore,
	hasher Hasher,
	logger *slog.Logger,
) (*CredentialService, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if users == nil {
		return nil, fmt.Errorf("users cannot be nil")
	}
	if hasher == nil {
		return nil, fmt.Errorf("hasher cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy digest: %w", err)
	}

	return &CredentialService{
		db:          db,
		users:       users,
		validator:   NewRegistrationValidator(users),
		hasher:      hasher,
		logger:      logger.With(slog.String("component", credentialServiceComponent)),
		dummyDigest: dummy,
	}, nil
}

// Register implements CredentialManager.Register
func (s *CredentialService) Register(ctx context.Context, in RegistrationInput) (*domain.User, error) {
	log := logger.ForComponent(ctx, s.logger, credentialServiceComponent)

	email, password, err := s.validator.Validate(ctx, in)
	if err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, err
	}

	now := domain.Timestamp(time.Now())
	user := &domain.User{
		ID:             uuid.New(),
		Email:          email,
		HashedPassword: digest,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// The unique constraint settles registrations racing past the
	// availability check.
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.users.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, &EmailTakenError{Email: email}
		}
		log.Error("failed to create user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return user, nil
}

// Verify implements CredentialManager.Verify
func (s *CredentialService) Verify(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.ForComponent(ctx, s.logger, credentialServiceComponent)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			_ = s.hasher.Compare(s.dummyDigest, password)
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to look up user for login", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to verify credentials: %w", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		log.Debug("password mismatch", slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
