// Package main implements the entry point for the adboard API server,
// a classified-ads board with user registration, session tokens and
// owner-checked listing management.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/phrazzld/adboard/internal/config"
	"github.com/phrazzld/adboard/internal/platform/logger"
)

// main parses flags and hands over to run. Any error is fatal.
func main() {
	migrateCmd := flag.String("migrate", "", "Run a migration command (up, down, status) and exit")
	flag.Parse()

	if err := run(context.Background(), *migrateCmd); err != nil {
		slog.Error("adboard server failed", "error", err)
		os.Exit(1)
	}
}

// run loads configuration, sets up logging and the database, then either
// executes a migration command or serves HTTP until a shutdown signal.
func run(ctx context.Context, migrateCmd string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"db_driver", cfg.Database.Driver)

	db, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		defer closeDatabase(db, log)
		return runMigrationCommand(ctx, db, cfg.Database.Driver, migrateCmd, log, os.Stdout)
	}

	if cfg.Database.AutoMigrate {
		if err := runMigrationCommand(ctx, db, cfg.Database.Driver, "up", log, os.Stdout); err != nil {
			closeDatabase(db, log)
			return err
		}
	}

	app, err := newApplication(cfg, log, db)
	if err != nil {
		closeDatabase(db, log)
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}

func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
