// Package postgres implements the store interfaces on PostgreSQL through
// database/sql with the pgx stdlib driver. Backend failures are mapped onto
// the store package's sentinel errors so callers never depend on driver
// error types.
package postgres
