package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is wrapped by every "no such row" sentinel in this package.
var ErrNotFound = errors.New("not found")

// Not-found sentinels per aggregate.
var (
	ErrUserNotFound         = fmt.Errorf("user %w", ErrNotFound)
	ErrTrainerNotFound      = fmt.Errorf("trainer %w", ErrNotFound)
	ErrFitnessClassNotFound = fmt.Errorf("fitness class %w", ErrNotFound)
	ErrGymEventNotFound     = fmt.Errorf("gym event %w", ErrNotFound)
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// pgxPool is the part of *pgxpool.Pool the repositories rely on.
type pgxPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

var _ pgxPool = (*pgxpool.Pool)(nil)

// querier is satisfied by both the pool and an open transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func pgErrorCode(err error) (code, constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName, true
	}
	return "", "", false
}

func isViolation(err error, code, constraint string) bool {
	got, name, ok := pgErrorCode(err)
	if !ok || got != code {
		return false
	}
	return constraint == "" || name == constraint
}
