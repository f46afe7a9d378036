package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// WithTx executes a function within a transaction using the ReadCommitted
// isolation level. The whole transaction runs under the store timeout.
func WithTx(ctx context.Context, pool *Pool, fn func(pgx.Tx) error) error {
	ctx, cancel := pool.bound(ctx)
	defer cancel()

	tx, err := pool.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("platform/db: begin tx: %w", err)
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("platform/db: commit tx: %w", err)
	}

	return nil
}
