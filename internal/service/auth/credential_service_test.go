package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/phrazzld/adboard/internal/domain"
	"github.com/phrazzld/adboard/internal/mocks"
	"github.com/phrazzld/adboard/internal/platform/postgres"
	"github.com/phrazzld/adboard/internal/service/auth"
	"github.com/phrazzld/adboard/internal/store"
	"github.com/phrazzld/adboard/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newCredentialService(t *testing.T) (*auth.CredentialService, store.UserStore) {
	t.Helper()
	db := testdb.Open(t)
	users := postgres.NewPostgresUserStore(db, nil)

	svc, err := auth.NewCredentialService(db, users, auth.NewBcryptHasher(bcrypt.MinCost), nil)
	require.NoError(t, err)
	return svc, users
}

func TestCredentialService_RegisterAndVerify(t *testing.T) {
	t.Parallel()
	svc, users := newCredentialService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, auth.RegistrationInput{
		Email:    strPtr("Seller@Example.com"),
		Password: strPtr("hunter2hunter2"),
	})
	require.NoError(t, err)
	assert.Equal(t, "seller@example.com", user.Email)
	assert.NotEqual(t, "hunter2hunter2", user.HashedPassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("hunter2hunter2")))

	stored, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.HashedPassword, stored.HashedPassword)

	verified, err := svc.Verify(ctx, "seller@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)

	_, err = svc.Verify(ctx, "seller@example.com", "wrong password")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Verify(ctx, "nobody@example.com", "hunter2hunter2")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestCredentialService_RegisterDuplicate(t *testing.T) {
	t.Parallel()
	svc, _ := newCredentialService(t)
	ctx := context.Background()

	in := auth.RegistrationInput{Email: strPtr("dup@example.com"), Password: strPtr("long enough")}
	_, err := svc.Register(ctx, in)
	require.NoError(t, err)

	_, err = svc.Register(ctx, auth.RegistrationInput{
		Email:    strPtr("DUP@example.com"),
		Password: strPtr("another one"),
	})
	var taken *auth.EmailTakenError
	require.ErrorAs(t, err, &taken)
	assert.Equal(t, "dup@example.com", taken.Email)
}

func TestCredentialService_RegisterValidation(t *testing.T) {
	t.Parallel()
	svc, _ := newCredentialService(t)

	_, err := svc.Register(context.Background(), auth.RegistrationInput{
		Email:    strPtr("bad"),
		Password: strPtr("short"),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, []string{"email is not valid", "password too easy"}, domain.Messages(err))
}

func TestCredentialService_RaceOnCreate(t *testing.T) {
	t.Parallel()
	db := testdb.Open(t)

	// The availability check passes but the insert hits the unique constraint.
	users := mocks.NewMockUserStore()
	users.CreateError = store.ErrEmailExists
	hasher := &mocks.MockHasher{}

	svc, err := auth.NewCredentialService(db, users, hasher, nil)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), auth.RegistrationInput{
		Email:    strPtr("race@example.com"),
		Password: strPtr("long enough"),
	})
	var taken *auth.EmailTakenError
	assert.ErrorAs(t, err, &taken)
	assert.Zero(t, users.Count())
}

func TestCredentialService_HashFailure(t *testing.T) {
	t.Parallel()
	db := testdb.Open(t)
	boom := errors.New("hash failed")

	calls := 0
	hasher := &mocks.MockHasher{
		HashFn: func(password string) (string, error) {
			calls++
			if calls > 1 {
				return "", boom
			}
			return "dummy", nil
		},
	}

	svc, err := auth.NewCredentialService(db, mocks.NewMockUserStore(), hasher, nil)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), auth.RegistrationInput{
		Email:    strPtr("hash@example.com"),
		Password: strPtr("long enough"),
	})
	assert.ErrorIs(t, err, boom)
}

func TestCredentialService_VerifyUnknownEmailStillCompares(t *testing.T) {
	t.Parallel()
	db := testdb.Open(t)
	hasher := &mocks.MockHasher{}

	svc, err := auth.NewCredentialService(db, mocks.NewMockUserStore(), hasher, nil)
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), "ghost@example.com", "whatever123")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	assert.Equal(t, 1, hasher.CompareCallCount)
	assert.Equal(t, "whatever123", hasher.CompareCalledWith.Password)
}

func TestNewCredentialService_Validation(t *testing.T) {
	t.Parallel()
	db := testdb.Open(t)
	users := mocks.NewMockUserStore()
	hasher := &mocks.MockHasher{}

	_, err := auth.NewCredentialService(nil, users, hasher, nil)
	assert.Error(t, err)
	_, err = auth.NewCredentialService(db, nil, hasher, nil)
	assert.Error(t, err)
	_, err = auth.NewCredentialService(db, users, nil, nil)
	assert.Error(t, err)
}
