package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/adboard/internal/config"
	"github.com/phrazzld/adboard/internal/platform/migrations"
	"github.com/phrazzld/adboard/internal/platform/postgres"
	"github.com/phrazzld/adboard/internal/service"
	"github.com/phrazzld/adboard/internal/service/auth"
)

const (
	// tokenPurgeInterval is how often expired and revoked tokens are swept.
	tokenPurgeInterval = time.Hour

	// tokenRetention keeps dead tokens around briefly for audit queries.
	tokenRetention = 24 * time.Hour
)

// application holds all dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	credentials auth.CredentialManager
	tokens      *auth.TokenService
	listings    service.ListingService

	purgeInterval time.Duration
}

// newApplication builds the stores and services on top of an open,
// migrated database.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if db == nil {
		return nil, fmt.Errorf("database connection cannot be nil")
	}

	var listingOpts []postgres.ListingStoreOption
	if cfg.Database.Driver == migrations.DriverSQLite {
		listingOpts = append(listingOpts, postgres.WithoutRowLocks())
	}

	userStore := postgres.NewPostgresUserStore(db, logger)
	tokenStore := postgres.NewPostgresTokenStore(db, logger)
	listingStore := postgres.NewPostgresListingStore(db, logger, listingOpts...)

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	credentials, err := auth.NewCredentialService(db, userStore, hasher, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create credential service: %w", err)
	}

	lifetime := time.Duration(cfg.Auth.TokenLifetimeMinutes) * time.Minute
	tokens, err := auth.NewTokenService(tokenStore, lifetime, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	listings, err := service.NewListingService(db, listingStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create listing service: %w", err)
	}

	return &application{
		config:      cfg,
		logger:      logger,
		db:          db,
		credentials: credentials,
		tokens:      tokens,
		listings:    listings,

		purgeInterval: tokenPurgeInterval,
	}, nil
}

// Run starts the token purge loop and serves HTTP until ctx is canceled
// or the process receives SIGINT/SIGTERM.
// The purge loop is stopped before the database is closed.
func (app *application) Run(ctx context.Context) error {
	purgeCtx, stopPurge := context.WithCancel(ctx)
	purgeDone := make(chan struct{})
	go func() {
		defer close(purgeDone)
		app.purgeTokens(purgeCtx, app.purgeInterval)
	}()

	err := app.startHTTPServer(ctx, app.setupRouter())

	stopPurge()
	<-purgeDone
	app.cleanup()

	if err == nil {
		app.logger.Info("Server shutdown completed")
	}
	return err
}

// purgeTokens deletes dead tokens every interval until ctx is done.
func (app *application) purgeTokens(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.purgeTokensOnce(ctx)
		}
	}
}

func (app *application) purgeTokensOnce(ctx context.Context) {
	n, err := app.tokens.PurgeExpired(ctx, tokenRetention)
	if err != nil {
		if ctx.Err() == nil {
			app.logger.Error("Failed to purge tokens", "error", err)
		}
		return
	}
	if n > 0 {
		app.logger.Info("Purged dead tokens", "count", n)
	}
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		closeDatabase(app.db, app.logger)
	}
}
