package repository

import (
	"context"
	"database/sql"
)

// Querier is the statement executor the repositories run against.  It
// is satisfied by *sql.DB, *sql.Conn and *sql.Tx, so a caller that needs a
// transaction can begin one and hand the *sql.Tx to NewCustomerRepo or
// NewReservationRepo.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// rowScanner is implemented by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// nullString converts a nullable column into an optional string.
func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// nullable turns an optional string into a bind value, nil meaning NULL.
func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
