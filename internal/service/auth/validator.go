package auth

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/adboard/internal/domain"
	"github.com/phrazzld/adboard/internal/store"
)

// RegistrationInput is the raw registration payload. Nil means the field
// was absent from the request, which is reported differently from an
// empty value.
type RegistrationInput struct {
	Email    *string `json:"email"    validate:"required"`
	Password *string `json:"password" validate:"required"`
}

// RegistrationValidator runs the registration checks in order:
// presence, then email syntax and password strength together, then
// email uniqueness.
type RegistrationValidator struct {
	users    store.UserStore
	validate *validator.Validate
}

// NewRegistrationValidator creates a RegistrationValidator that checks
// uniqueness against users.
func NewRegistrationValidator(users store.UserStore) *RegistrationValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &RegistrationValidator{
		users:    users,
		validate: v,
	}
}

// Validate returns the normalized email and the password when every check
// passes.
//
// A missing field yields a single *domain.ValidationError wrapping
// domain.ErrMissingField. Syntax and strength failures are returned
// together as domain.ValidationErrors. A taken email yields
// *EmailTakenError.
func (v *RegistrationValidator) Validate(
	ctx context.Context,
	in RegistrationInput,
) (email, password string, err error) {
	if err := v.validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return "", "", domain.NewMissingFieldError(fieldErrs[0].Field())
		}
		return "", "", fmt.Errorf("failed to validate registration: %w", err)
	}

	email = domain.NormalizeEmail(*in.Email)
	password = *in.Password

	var errs domain.ValidationErrors
	var ve *domain.ValidationError
	if err := domain.ValidateEmail(email); errors.As(err, &ve) {
		errs = append(errs, ve)
	}
	if err := domain.ValidatePassword(password); errors.As(err, &ve) {
		errs = append(errs, ve)
	}
	if len(errs) > 0 {
		return "", "", errs
	}

	_, err = v.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return "", "", &EmailTakenError{Email: email}
	case !errors.Is(err, store.ErrUserNotFound):
		return "", "", fmt.Errorf("failed to check email availability: %w", err)
	}

	return email, password, nil
}
