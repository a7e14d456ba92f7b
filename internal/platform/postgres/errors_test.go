package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/adboard/internal/platform/postgres"
	"github.com/phrazzld/adboard/internal/platform/sqlite"
	"github.com/phrazzld/adboard/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock PgError creation helper
func newPgError(code string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		Message:        "error message",
		SchemaName:     "public",
		TableName:      "test_table",
		ColumnName:     "test_column",
		ConstraintName: "test_constraint",
	}
}

// sqliteConstraintErrors provokes real driver errors from an in-memory database.
func sqliteConstraintErrors(t *testing.T) (unique, foreignKey error) {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.ExecContext(ctx, `
		CREATE TABLE parent (id INTEGER PRIMARY KEY, name TEXT UNIQUE);
		CREATE TABLE child (id INTEGER PRIMARY KEY, parent_id INTEGER NOT NULL REFERENCES parent (id));
		INSERT INTO parent (id, name) VALUES (1, 'a');
	`)
	require.NoError(t, err)

	_, unique = db.ExecContext(ctx, "INSERT INTO parent (id, name) VALUES (2, 'a')")
	require.Error(t, unique)
	_, foreignKey = db.ExecContext(ctx, "INSERT INTO child (id, parent_id) VALUES (1, 99)")
	require.Error(t, foreignKey)
	return unique, foreignKey
}

// MockResult implements sql.Result for testing
type MockResult struct {
	rowsAffected int64
	err          error
}

func (m MockResult) LastInsertId() (int64, error) {
	return 0, m.err
}

func (m MockResult) RowsAffected() (int64, error) {
	return m.rowsAffected, m.err
}

func TestConstraintClassification(t *testing.T) {
	liteUnique, liteFK := sqliteConstraintErrors(t)

	tests := []struct {
		name       string
		err        error
		unique     bool
		foreignKey bool
	}{
		{"nil error", nil, false, false},
		{"generic error", errors.New("generic error"), false, false},
		{"postgres unique violation", newPgError("23505"), true, false},
		{"postgres foreign key violation", newPgError("23503"), false, true},
		{"postgres not null violation", newPgError("23502"), false, false},
		{"wrapped postgres unique violation", fmt.Errorf("insert: %w", newPgError("23505")), true, false},
		{"sqlite unique violation", liteUnique, true, false},
		{"sqlite foreign key violation", liteFK, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.unique, postgres.IsUniqueViolation(tt.err))
			assert.Equal(t, tt.foreignKey, postgres.IsForeignKeyViolation(tt.err))
		})
	}
}

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	assert.True(t, postgres.IsNotFoundError(sql.ErrNoRows))
	assert.True(t, postgres.IsNotFoundError(store.ErrListingNotFound))
	assert.True(t, postgres.IsNotFoundError(fmt.Errorf("wrapped: %w", sql.ErrNoRows)))
	assert.False(t, postgres.IsNotFoundError(errors.New("boom")))
	assert.False(t, postgres.IsNotFoundError(nil))
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		result   sql.Result
		notFound error
		wantErr  error
		anyErr   bool
	}{
		{"one row", MockResult{rowsAffected: 1}, store.ErrListingNotFound, nil, false},
		{"zero rows with specific error", MockResult{}, store.ErrListingNotFound, store.ErrListingNotFound, true},
		{"zero rows with default error", MockResult{}, nil, store.ErrNotFound, true},
		{"rows affected error", MockResult{err: errors.New("driver")}, nil, nil, true},
		{"nil result", nil, nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := postgres.CheckRowsAffected(tt.result, tt.notFound)
			if !tt.anyErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestMapError(t *testing.T) {
	liteUnique, liteFK := sqliteConstraintErrors(t)

	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"no rows", sql.ErrNoRows, store.ErrNotFound},
		{"postgres unique", newPgError("23505"), store.ErrDuplicate},
		{"postgres foreign key", newPgError("23503"), store.ErrInvalidEntity},
		{"postgres check", newPgError("23514"), store.ErrInvalidEntity},
		{"postgres not null", newPgError("23502"), store.ErrInvalidEntity},
		{"sqlite unique", liteUnique, store.ErrDuplicate},
		{"sqlite foreign key", liteFK, store.ErrInvalidEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, postgres.MapError(tt.err), tt.wantErr)
		})
	}

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, postgres.MapError(nil))
	})

	t.Run("unmapped errors pass through", func(t *testing.T) {
		orig := errors.New("connection refused")
		assert.Same(t, orig, postgres.MapError(orig))
	})
}

func TestMapUniqueViolation(t *testing.T) {
	t.Parallel()

	err := postgres.MapUniqueViolation(newPgError("23505"), store.ErrEmailExists)
	assert.ErrorIs(t, err, store.ErrEmailExists)
	assert.ErrorIs(t, err, store.ErrDuplicate)

	other := errors.New("other")
	assert.Same(t, other, postgres.MapUniqueViolation(other, store.ErrEmailExists))
}
