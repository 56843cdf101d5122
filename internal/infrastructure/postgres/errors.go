package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

const uniqueViolationCode = "23505"

// uniqueViolation reports whether err is a PostgreSQL unique violation and
// returns the violated constraint. Both the pgx and lib/pq drivers are
// recognised.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return pgErr.ConstraintName, true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
		return pqErr.Constraint, true
	}
	return "", false
}

// classify wraps a write error, turning unique violations into shared.DuplicateError.
func classify(op string, err error) error {
	if constraint, ok := uniqueViolation(err); ok {
		return fmt.Errorf("%s: %w", op, &shared.DuplicateError{Constraint: constraint})
	}
	return fmt.Errorf("%s: %w", op, err)
}
