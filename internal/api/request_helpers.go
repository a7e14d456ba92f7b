package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/phrazzld/adboard/internal/api/shared"
	"github.com/phrazzld/adboard/internal/domain"
)

// getIdentityFromContext extracts the authenticated caller from the request
// context, where the authentication middleware placed it.
func getIdentityFromContext(r *http.Request) (*domain.Identity, bool) {
	identity, ok := shared.GetIdentity(r.Context())
	if !ok || identity.UserID == uuid.Nil {
		return nil, false
	}
	return identity, true
}

// getPathUUID extracts a UUID from the URL path parameters.
// A missing or malformed value yields a validation error.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewMissingFieldError(paramName)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, paramName+" is not a valid ID", domain.ErrInvalidID)
	}

	return id, nil
}

// decodeAndValidate decodes a JSON body into v and runs its validation tags.
// Missing required fields come back as domain missing-field errors; a body
// that is not JSON comes back as errMalformedBody.
func decodeAndValidate(r *http.Request, v interface{}) error {
	if err := shared.DecodeJSON(r, v); err != nil {
		if errors.Is(err, shared.ErrEmptyBody) {
			return err
		}
		return errMalformedBody
	}

	if err := shared.ValidateRequest(v); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return domain.NewMissingFieldError(fieldErrs[0].Field())
		}
		return err
	}
	return nil
}

// errMalformedBody reports a request body that is not the expected JSON.
var errMalformedBody = domain.NewValidationError("body", "Invalid request format", domain.ErrValidation)
