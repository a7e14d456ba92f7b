package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/adboard/internal/config"
	"github.com/phrazzld/adboard/internal/platform/migrations"
	"github.com/phrazzld/adboard/internal/platform/postgres"
	"github.com/phrazzld/adboard/internal/platform/sqlite"
)

// openDatabase opens the backend selected by cfg.Driver and verifies
// connectivity.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)

	switch cfg.Driver {
	case migrations.DriverPostgres:
		db, err = postgres.Open(ctx, cfg)
	case migrations.DriverSQLite:
		db, err = sqlite.Open(ctx, cfg.URL)
	default:
		return nil, fmt.Errorf("%w: %q", migrations.ErrUnknownDriver, cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	return db, nil
}

func closeDatabase(db *sql.DB, logger *slog.Logger) {
	if err := db.Close(); err != nil {
		logger.Error("Failed to close database connection", "error", err)
	}
}
