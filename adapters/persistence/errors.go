package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jmakela/profiili/pkg/apperror"
)

// mapError converts pgx/pgconn errors into apperror values. Context errors
// pass through untouched so cancellation is not misreported.
func mapError(err error, resource, identifier string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", resource, identifier, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NewNotFound(resource, identifier)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation, e.g. concurrent same-named category creation
			return apperror.NewConflict(resource, pgErr.ConstraintName, identifier)
		case "23503": // foreign_key_violation
			return apperror.NewNotFound(resource, identifier)
		case "23514": // check_violation
			return apperror.NewInvalidInput(fmt.Sprintf("%s violates %s", resource, pgErr.ConstraintName), err)
		}
	}

	return apperror.NewInternal(fmt.Sprintf("%s %s query failed", resource, identifier), err)
}
