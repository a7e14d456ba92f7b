package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/adboard/internal/domain"
	"github.com/phrazzld/adboard/internal/mocks"
	"github.com/phrazzld/adboard/internal/service/auth"
	"github.com/phrazzld/adboard/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestRegistrationValidator_MissingFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   auth.RegistrationInput
		message string
	}{
		{"both missing", auth.RegistrationInput{}, "email is needed"},
		{"email missing", auth.RegistrationInput{Password: strPtr("long enough")}, "email is needed"},
		{"password missing", auth.RegistrationInput{Email: strPtr("a@b.co")}, "password is needed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := mocks.NewMockUserStore()
			v := auth.NewRegistrationValidator(users)

			_, _, err := v.Validate(context.Background(), tt.input)

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrMissingField)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Equal(t, tt.message, err.Error())
			assert.Empty(t, users.EmailLookups())
		})
	}
}

func TestRegistrationValidator_FormatAndStrength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		email    string
		password string
		messages []string
	}{
		{"bad email", "not-an-email", "long enough", []string{"email is not valid"}},
		{"short password", "a@b.co", "short", []string{"password too easy"}},
		{"both bad", "@nowhere", "", []string{"email is not valid", "password too easy"}},
		{"empty email", "", "long enough", []string{"email is not valid"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := mocks.NewMockUserStore()
			v := auth.NewRegistrationValidator(users)

			_, _, err := v.Validate(context.Background(), auth.RegistrationInput{
				Email:    strPtr(tt.email),
				Password: strPtr(tt.password),
			})

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Equal(t, tt.messages, domain.Messages(err))
			assert.Empty(t, users.EmailLookups())
		})
	}
}

func TestRegistrationValidator_Uniqueness(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("email taken", func(t *testing.T) {
		users := mocks.NewMockUserStore()
		require.NoError(t, users.Create(ctx, &domain.User{ID: uuid.New(), Email: "taken@example.com"}))
		v := auth.NewRegistrationValidator(users)

		_, _, err := v.Validate(ctx, auth.RegistrationInput{
			Email:    strPtr("  Taken@Example.com "),
			Password: strPtr("long enough"),
		})

		var taken *auth.EmailTakenError
		require.ErrorAs(t, err, &taken)
		assert.Equal(t, "taken@example.com", taken.Email)
		assert.ErrorIs(t, err, store.ErrEmailExists)
		assert.Equal(t, "user with email taken@example.com already exists", err.Error())
		assert.Equal(t, []string{"taken@example.com"}, users.EmailLookups())
	})

	t.Run("email free", func(t *testing.T) {
		users := mocks.NewMockUserStore()
		v := auth.NewRegistrationValidator(users)

		email, password, err := v.Validate(ctx, auth.RegistrationInput{
			Email:    strPtr("New@Example.com"),
			Password: strPtr("long enough"),
		})

		require.NoError(t, err)
		assert.Equal(t, "new@example.com", email)
		assert.Equal(t, "long enough", password)
		assert.Equal(t, []string{"new@example.com"}, users.EmailLookups())
	})

	t.Run("store failure", func(t *testing.T) {
		boom := errors.New("connection reset")
		users := mocks.NewMockUserStore()
		users.GetByEmailError = boom
		v := auth.NewRegistrationValidator(users)

		_, _, err := v.Validate(ctx, auth.RegistrationInput{
			Email:    strPtr("new@example.com"),
			Password: strPtr("long enough"),
		})

		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, domain.ErrValidation)
	})
}
