package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/adboard/internal/api/shared"
	"github.com/phrazzld/adboard/internal/domain"
	"github.com/phrazzld/adboard/internal/platform/logger"
	"github.com/phrazzld/adboard/internal/redact"
	"github.com/phrazzld/adboard/internal/service/auth"
)

// Request headers carrying the caller's credentials.
const (
	EmailHeader = "email"
	TokenHeader = "token"
)

// unauthenticatedMessage is the only detail an unauthenticated caller gets.
const unauthenticatedMessage = "authentication required"

// AuthMiddleware resolves the caller from the email and token headers.
type AuthMiddleware struct {
	tokens auth.TokenManager
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(tokens auth.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
	}
}

// Authenticate validates the email and token headers and adds the caller's
// identity to the request context. The token may instead be sent as
// "Authorization: Bearer <token>"; the email header is required either way.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		email := r.Header.Get(EmailHeader)
		token, ok := tokenFromRequest(r)
		if !ok || strings.TrimSpace(email) == "" {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, unauthenticatedMessage,
				auth.ErrUnauthenticated)
			return
		}

		identity, err := m.tokens.Validate(r.Context(), email, token)
		if err != nil {
			if errors.Is(err, auth.ErrUnauthenticated) {
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, unauthenticatedMessage, err,
					shared.WithElevatedLogLevel())
				return
			}
			log.Error("failed to validate token", slog.String("error", redact.Error(err)))
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			return
		}

		ctx := shared.WithIdentity(r.Context(), identity)
		ctx = logger.WithLogger(ctx, log.With(slog.String("user_id", identity.UserID.String())))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// tokenFromRequest reads the token header, falling back to a bearer
// Authorization header.
func tokenFromRequest(r *http.Request) (string, bool) {
	if token := strings.TrimSpace(r.Header.Get(TokenHeader)); token != "" {
		return token, true
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// GetIdentity extracts the authenticated caller from the request context.
// Returns the identity and a boolean indicating if it was found.
func GetIdentity(r *http.Request) (*domain.Identity, bool) {
	return shared.GetIdentity(r.Context())
}
