package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/adboard/internal/api"
	apiMiddleware "github.com/phrazzld/adboard/internal/api/middleware"
)

// setupRouter creates the application router with all routes and middleware.
// Trailing slashes are optional on every route.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if app.config.Server.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))

	authHandler := api.NewAuthHandler(app.credentials, app.tokens, app.logger)
	listingHandler := api.NewListingHandler(app.listings, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.tokens)
	loginLimiter := apiMiddleware.NewRateLimiter(
		app.config.Auth.LoginRateLimitPerMinute,
		app.config.Auth.LoginRateLimitBurst,
	)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	// Public endpoints
	r.Post("/user", authHandler.Register)
	r.With(loginLimiter.Middleware).Post("/login", authHandler.Login)
	r.Get("/", listingHandler.List)
	r.Get("/{id}", listingHandler.Get)

	// Protected endpoints
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Post("/logout", authHandler.Logout)
		r.Post("/", listingHandler.Create)
		r.Patch("/{id}", listingHandler.Update)
		r.Delete("/{id}", listingHandler.Delete)
	})

	return r
}
