package sql

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/idgate/idgate/internal"
)

// postgres error code for a unique constraint violation
const uniqueViolation = "23505"

// toError maps a postgres error to one of the sentinel errors in the internal
// package, if possible; otherwise the error is returned unchanged.
func toError(err error) error {
	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return internal.ErrResourceNotFound
	case errors.As(err, &pgErr):
		switch pgErr.Code {
		case uniqueViolation:
			return internal.ErrResourceAlreadyExists
		}
		return err
	default:
		return err
	}
}
