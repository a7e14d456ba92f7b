// Package testdb provides database fixtures for tests.
//
// Every call to Open returns a private in-memory SQLite database with the
// full schema applied, so tests can run in parallel without sharing state:
//
//	func TestMyFeature(t *testing.T) {
//	    t.Parallel()
//	    db := testdb.Open(t)
//
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        userStore := postgres.NewPostgresUserStore(tx, nil)
//	        // ...
//	    })
//	}
package testdb
