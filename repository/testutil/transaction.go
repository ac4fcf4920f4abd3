package testutil

import (
	"context"
	"errors"
	"fmt"

	"lotterypool/database"

	"github.com/jackc/pgx/v5"
)

// WithTransaction runs fn in a transaction on db and commits only when fn returns nil.
// Repository tests use it to drive scoped repositories outside a unit of work.
func WithTransaction(ctx context.Context, db *database.DB, fn func(tx pgx.Tx) error) (err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			err = fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
