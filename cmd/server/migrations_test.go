package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/phrazzld/adboard/internal/config"
	"github.com/phrazzld/adboard/internal/platform/logger"
	"github.com/phrazzld/adboard/internal/platform/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrationCommand(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	log := logger.New(io.Discard, slog.LevelDebug)

	db, err := openDatabase(ctx, config.DatabaseConfig{Driver: "sqlite", URL: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, runMigrationCommand(ctx, db, migrations.DriverSQLite, "up", log, io.Discard))

	var out bytes.Buffer
	require.NoError(t, runMigrationCommand(ctx, db, migrations.DriverSQLite, "status", log, &out))
	assert.Contains(t, out.String(), "applied")
	assert.NotContains(t, out.String(), "pending")

	require.NoError(t, runMigrationCommand(ctx, db, migrations.DriverSQLite, "down", log, io.Discard))

	out.Reset()
	require.NoError(t, runMigrationCommand(ctx, db, migrations.DriverSQLite, "status", log, &out))
	assert.Contains(t, out.String(), "pending")

	err = runMigrationCommand(ctx, db, migrations.DriverSQLite, "sideways", log, io.Discard)
	assert.ErrorIs(t, err, ErrUnknownMigrateCommand)

	err = runMigrationCommand(ctx, db, "mysql", "up", log, io.Discard)
	assert.ErrorIs(t, err, migrations.ErrUnknownDriver)
}

func TestOpenDatabase_UnknownDriver(t *testing.T) {
	t.Parallel()

	_, err := openDatabase(context.Background(), config.DatabaseConfig{Driver: "oracle", URL: "x"})
	assert.ErrorIs(t, err, migrations.ErrUnknownDriver)
}
