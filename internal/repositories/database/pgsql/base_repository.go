package pgsql

import (
	"errors"
	"fmt"

	"github.com/SscSPs/movie_review_app/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// translateError maps driver errors onto the repository sentinels.
func (r *BaseRepository) translateError(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return fmt.Errorf("%w: %s violates %s", apperrors.ErrDuplicate, op, pgErr.ConstraintName)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
