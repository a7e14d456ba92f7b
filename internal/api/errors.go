package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/phrazzld/adboard/internal/api/shared"
	"github.com/phrazzld/adboard/internal/domain"
	"github.com/phrazzld/adboard/internal/service"
	"github.com/phrazzld/adboard/internal/service/auth"
	"github.com/phrazzld/adboard/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var emailTaken *auth.EmailTakenError

	switch {
	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, service.ErrEmptyPatch),
		errors.Is(err, shared.ErrEmptyBody),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Authentication errors
	case errors.Is(err, auth.ErrUnauthenticated),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrNotOwned):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.As(err, &emailTaken),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	// Validation messages are written for clients.
	if msgs := domain.Messages(err); len(msgs) > 0 {
		return strings.Join(msgs, "; ")
	}

	var emailTaken *auth.EmailTakenError

	switch {
	case errors.Is(err, service.ErrEmptyPatch):
		return "no fields to update"
	case errors.Is(err, shared.ErrEmptyBody):
		return "request body is empty"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	// Authentication errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "invalid email or password"
	case errors.Is(err, auth.ErrUnauthenticated),
		errors.Is(err, domain.ErrUnauthorized):
		return "authentication required"

	// Authorization errors
	case errors.Is(err, service.ErrListingNotOwned):
		return "listing is owned by another user"
	case errors.Is(err, service.ErrNotOwned):
		return "resource is owned by another user"

	// Not found errors
	case errors.Is(err, store.ErrListingNotFound):
		return "listing not found"
	case errors.Is(err, store.ErrUserNotFound):
		return "user not found"
	case errors.Is(err, store.ErrNotFound):
		return "not found"

	// Conflict errors
	case errors.As(err, &emailTaken):
		return emailTaken.Error()
	case errors.Is(err, store.ErrEmailExists):
		return "email already exists"
	case errors.Is(err, store.ErrDuplicate):
		return "resource already exists"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the response for err: the mapped status code, the
// safe message and, for multi-field validation failures, every field
// message. fallback replaces the generic text of a 500 response when set.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}

	var opts []shared.ResponseOption
	if msgs := domain.Messages(err); len(msgs) > 1 {
		opts = append(opts, shared.WithDetails(msgs))
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
