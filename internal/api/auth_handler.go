package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/adboard/internal/api/shared"
	"github.com/phrazzld/adboard/internal/platform/logger"
	"github.com/phrazzld/adboard/internal/service/auth"
)

const authHandlerComponent = "auth_handler"

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	credentials auth.CredentialManager
	tokens      auth.TokenManager
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	credentials auth.CredentialManager,
	tokens auth.TokenManager,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AuthHandler")
	}

	return &AuthHandler{
		credentials: credentials,
		tokens:      tokens,
		logger:      logger.With(slog.String("component", authHandlerComponent)),
	}
}

// Register handles POST /user.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegistrationInput
	if err := shared.DecodeJSON(r, &req); err != nil {
		if !errors.Is(err, shared.ErrEmptyBody) {
			err = errMalformedBody
		}
		HandleAPIError(w, r, err, "")
		return
	}

	user, err := h.credentials.Register(r.Context(), req)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, userToResponse(user))
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.ForComponent(r.Context(), h.logger, authHandlerComponent)

	var req LoginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	user, err := h.credentials.Verify(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}

	token, err := h.tokens.Issue(r.Context(), user.ID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate authentication token")
		return
	}

	log.Debug("user logged in", slog.String("user_id", user.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, LoginResponse{
		Token:     token.ID,
		ExpiresAt: token.ExpiresAt,
	})
}

// Logout handles POST /logout. It revokes the token the request was
// authenticated with.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	identity, ok := getIdentityFromContext(r)
	if !ok {
		HandleAPIError(w, r, auth.ErrUnauthenticated, "")
		return
	}

	if err := h.tokens.Revoke(r.Context(), identity.TokenID); err != nil {
		HandleAPIError(w, r, err, "Failed to log out")
		return
	}

	shared.RespondWithMessage(w, r, http.StatusOK, "logged out")
}
