package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the Postgres error code raised when an insert breaks
// a unique constraint; the payment flow relies on it to detect a lost race.
const uniqueViolation = "23505"

type txCtxKey struct{}

// runInTx executes fn inside a transaction carried on the context. Nested
// calls reuse the transaction already in flight.
func runInTx(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context) error) error {
	if activeTx(ctx) != nil {
		return fn(ctx)
	}

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(context.WithValue(ctx, txCtxKey{}, tx)); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// activeTx returns the transaction carried by ctx, or nil.
func activeTx(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txCtxKey{}).(pgx.Tx)
	return tx
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
