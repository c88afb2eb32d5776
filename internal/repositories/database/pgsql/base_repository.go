package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/backoffice_ledger/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is the part of pgxpool.Pool and pgx.Tx the repositories use.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// BaseRepository provides common functionality for all repositories.
// Repositories built for a transaction lock the rows they read.
type BaseRepository struct {
	db   querier
	inTx bool
}

// forUpdate returns the row locking clause when running inside a transaction.
func (r BaseRepository) forUpdate() string {
	if r.inTx {
		return " FOR UPDATE"
	}
	return ""
}

// lockSequence serialises number allocation for key until the transaction ends.
// Outside a transaction it does nothing; the unique index still guards duplicates.
func (r BaseRepository) lockSequence(ctx context.Context, key string) error {
	if !r.inTx {
		return nil
	}
	if _, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1));`, key); err != nil {
		return fmt.Errorf("failed to lock sequence %s: %w", key, err)
	}
	return nil
}

// checkVersioned turns a zero-row versioned write into the right error:
// not found when the row is gone, a concurrency error when its version moved.
func (r BaseRepository) checkVersioned(ctx context.Context, tag pgconn.CommandTag, table, idColumn, id string, expected int64) error {
	if tag.RowsAffected() > 0 {
		return nil
	}
	var current int64
	query := fmt.Sprintf(`SELECT version FROM %s WHERE %s = $1;`, table, idColumn)
	err := r.db.QueryRow(ctx, query, id).Scan(&current)
	if err != nil {
		return mapError(err, table, id)
	}
	return &apperrors.ConcurrentModificationError{Current: current, Expected: expected}
}

// mapError translates driver errors into application errors.
func mapError(err error, entity, id string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, apperrors.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%w: %s %s already exists", apperrors.ErrDuplicate, entity, id)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%w: %s %s references a missing row (%s)", apperrors.ErrValidation, entity, id, pgErr.ConstraintName)
		case "23514": // check_violation
			return fmt.Errorf("%w: %s %s violates %s", apperrors.ErrValidation, entity, id, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("%s %s: %w", entity, id, err)
}
