package database

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jpereira88/pipecrm/pkg/apperr"
)

const pgUniqueViolation = "23505"

// wrapDBError maps driver errors onto the application taxonomy: unique
// violations become DUPLICATE, everything else UNAVAILABLE.
func wrapDBError(msg string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return apperr.Wrap(apperr.CodeDuplicate, "Duplicate entry: a record with this unique field already exists.", err)
	}
	return apperr.Wrap(apperr.CodeUnavailable, msg, err)
}

// notFoundOr turns sql.ErrNoRows into a NOT_FOUND with the given message.
func notFoundOr(msg string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.New(apperr.CodeNotFound, msg)
	}
	return wrapDBError(msg, err)
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
