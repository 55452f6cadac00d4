package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is satisfied by both a pool and pgx.Tx, so read helpers can run
// standalone or inside an enclosing transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB is the connection surface the repositories need. *pgxpool.Pool
// satisfies it in production; tests substitute a pgxmock pool.
type DB interface {
	querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// withTx runs fn as one atomic unit: Begin, fn, Commit on normal return,
// Rollback on any error (including context cancellation mid-flight). The
// deferred Rollback is a no-op after Commit and guarantees the connection
// is released on every exit path. The tx handle belongs to fn's call stack;
// nesting is not supported — compose at the outer boundary and pass the
// handle down.
func withTx(ctx context.Context, db DB, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
