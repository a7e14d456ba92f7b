// Package postgres provides the SQL implementations of the data storage
// interfaces defined in the internal/store package.
//
// The stores are written against database/sql with $N placeholders and run
// unchanged on PostgreSQL (through pgx) and on SQLite (through modernc).
// Driver-specific constraint errors from both are translated into store
// errors by MapError.
package postgres
