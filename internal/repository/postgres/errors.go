package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repositories translate into domain errors
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsPgDuplicateError reports a unique violation (folder slug)
func IsPgDuplicateError(err error) bool {
	return pgCode(err) == pgUniqueViolation
}

// IsPgNoRowsError reports an empty single-row result
func IsPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsPgForeignKeyError reports a reference to a missing folder or attachment
func IsPgForeignKeyError(err error) bool {
	return pgCode(err) == pgForeignKeyViolation
}

// IsPgCheckViolation reports a failed CHECK constraint (a folder parented to itself)
func IsPgCheckViolation(err error) bool {
	return pgCode(err) == pgCheckViolation
}
