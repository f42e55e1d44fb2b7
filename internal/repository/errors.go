package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("repository: not found")

	// ErrStateConflict indicates a lifecycle write lost its
	// compare-and-swap: the row's state no longer matches the state the
	// caller observed. The caller should reload and decide again.
	ErrStateConflict = errors.New("repository: state changed concurrently")

	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("repository: duplicate record")

	// ErrDependencyExists indicates a foreign key still references the row.
	ErrDependencyExists = errors.New("repository: dependent records exist")
)

// isUniqueViolation reports whether err is a Postgres unique violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isForeignKeyViolation reports whether err is a Postgres FK violation.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
