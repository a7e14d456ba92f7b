package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/adboard/internal/platform/migrations"
)

// ErrUnknownMigrateCommand is returned for a -migrate value other than
// up, down or status.
var ErrUnknownMigrateCommand = errors.New("unknown migration command")

// runMigrationCommand executes one migration command against db.
// Status output is written to out, one line per known version.
func runMigrationCommand(
	ctx context.Context,
	db *sql.DB,
	driver string,
	command string,
	logger *slog.Logger,
	out io.Writer,
) error {
	migrator, err := migrations.New(db, driver, logger)
	if err != nil {
		return fmt.Errorf("failed to prepare migrations: %w", err)
	}

	switch command {
	case "up":
		applied, err := migrator.Up(ctx)
		if err != nil {
			return err
		}
		logger.Info("Migrations complete", "applied", applied)
		return nil

	case "down":
		return migrator.Down(ctx)

	case "status":
		statuses, err := migrator.Status(ctx)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			state := "pending"
			if s.Applied {
				state = "applied"
			}
			if _, err := fmt.Fprintf(out, "%05d  %-8s %s\n", s.Version, state, s.Source); err != nil {
				return fmt.Errorf("failed to write migration status: %w", err)
			}
		}
		return nil
	}

	return fmt.Errorf("%w: %q", ErrUnknownMigrateCommand, command)
}
