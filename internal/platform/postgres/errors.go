package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/tasks-api/internal/store"
)

// SQLSTATE codes the tasks table can raise.
const (
	CodeUniqueViolation  = "23505"
	CodeCheckViolation   = "23514"
	CodeNotNullViolation = "23502"
	CodeInvalidText      = "22P02" // malformed UUID, date or text literal
)

// MapError translates a database/sql or pgx error into the store taxonomy.
// The original error stays in the chain; codes without a mapping pass through.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	pgErr, ok := asPgError(err)
	if !ok {
		return err
	}

	switch pgErr.Code {
	case CodeUniqueViolation:
		return fmt.Errorf("%w: %s: %w", store.ErrDuplicate, pgErr.ConstraintName, err)
	case CodeCheckViolation:
		return rejectedTask("violates "+pgErr.ConstraintName, err)
	case CodeNotNullViolation:
		return rejectedTask(pgErr.ColumnName+" is required", err)
	case CodeInvalidText:
		return rejectedTask("malformed value", err)
	default:
		return err
	}
}

func rejectedTask(detail string, err error) error {
	return fmt.Errorf("%w: task %s: %w", store.ErrInvalidEntity, detail, err)
}

func asPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// HasCode reports whether err carries a PostgreSQL error with the given SQLSTATE.
func HasCode(err error, code string) bool {
	pgErr, ok := asPgError(err)
	return ok && pgErr.Code == code
}

// ConstraintName returns the constraint named by a PostgreSQL error in err's
// chain, or "" when there is none.
func ConstraintName(err error) string {
	if pgErr, ok := asPgError(err); ok {
		return pgErr.ConstraintName
	}
	return ""
}
