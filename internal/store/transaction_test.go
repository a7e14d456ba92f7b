package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/adboard/internal/platform/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const touchListing = "UPDATE listings SET updated_at = $1 WHERE id = $2"

func TestRunInTransaction(t *testing.T) {
	t.Parallel()

	fnErr := errors.New("owner mismatch")
	beginErr := errors.New("connection reset")
	commitErr := errors.New("serialization failure")
	rollbackErr := errors.New("connection lost")

	exec := func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, touchListing, "2025-01-01", "abc")
		return err
	}

	tests := []struct {
		name   string
		expect func(mock sqlmock.Sqlmock)
		fn     TxFn
		check  func(t *testing.T, err error)
	}{
		{
			name: "commits when fn succeeds",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("UPDATE listings").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			fn: exec,
			check: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "rolls back and returns fn error unchanged",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			fn: func(context.Context, *sql.Tx) error { return fnErr },
			check: func(t *testing.T, err error) {
				assert.Same(t, fnErr, err)
			},
		},
		{
			name: "rolls back when a statement fails",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("UPDATE listings").WillReturnError(sql.ErrConnDone)
				mock.ExpectRollback()
			},
			fn: exec,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, sql.ErrConnDone)
			},
		},
		{
			name: "begin failure",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(beginErr)
			},
			fn: func(context.Context, *sql.Tx) error {
				panic("fn must not run without a transaction")
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, beginErr)
				assert.Contains(t, err.Error(), "failed to begin transaction")
			},
		},
		{
			name: "commit failure",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit().WillReturnError(commitErr)
			},
			fn: func(context.Context, *sql.Tx) error { return nil },
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, commitErr)
				assert.Contains(t, err.Error(), "failed to commit transaction")
			},
		},
		{
			name: "rollback failure keeps the original error",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback().WillReturnError(rollbackErr)
			},
			fn: func(context.Context, *sql.Tx) error { return fnErr },
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, fnErr)
				assert.Contains(t, err.Error(), "connection lost")
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = db.Close() }()

			tc.expect(mock)
			tc.check(t, RunInTransaction(context.Background(), db, tc.fn))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRunInTransaction_PanicRollsBack(t *testing.T) {
	t.Parallel()

	for _, rollbackErr := range []error{nil, errors.New("connection lost")} {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectRollback().WillReturnError(rollbackErr)

		assert.PanicsWithValue(t, "listing store exploded", func() {
			_ = RunInTransaction(context.Background(), db, func(context.Context, *sql.Tx) error {
				panic("listing store exploded")
			})
		})
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	}
}

func TestRunInTransaction_SQLite(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, sqlite.MemoryPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = db.ExecContext(ctx, "CREATE TABLE kv (k TEXT PRIMARY KEY, v TEXT NOT NULL)")
	require.NoError(t, err)

	insert := func(k string) TxFn {
		return func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, "INSERT INTO kv (k, v) VALUES ($1, 'x')", k)
			return err
		}
	}
	count := func() int {
		var n int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM kv").Scan(&n))
		return n
	}

	require.NoError(t, RunInTransaction(ctx, db, insert("a")))
	assert.Equal(t, 1, count())

	// The second insert violates the primary key, undoing the first.
	err = RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		if err := insert("b")(ctx, tx); err != nil {
			return err
		}
		return insert("a")(ctx, tx)
	})
	assert.Error(t, err)
	assert.Equal(t, 1, count())
}
