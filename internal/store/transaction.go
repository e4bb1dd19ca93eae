package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/phrazzld/tasks-api/internal/platform/logger"
)

// TxFn is the unit of work passed to RunInTransaction.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// RunInTransaction begins a transaction on db and runs fn inside it. The
// transaction commits when fn returns nil and rolls back when fn fails or
// panics; a panic is re-raised after the rollback.
func RunInTransaction(ctx context.Context, db *sql.DB, fn TxFn) (err error) {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		rbErr := tx.Rollback()
		if rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Error("failed to roll back transaction", "error", rbErr, "cause", err)
			if err != nil {
				err = fmt.Errorf("rollback failed: %v (after: %w)", rbErr, err)
			}
		}
		if p := recover(); p != nil {
			// ALLOW-PANIC: re-raise after the transaction has been released
			panic(p)
		}
	}()

	if err = fn(ctx, tx); err != nil {
		log.Debug("rolling back transaction", "error", err)
		return err
	}

	if err = tx.Commit(); err != nil {
		log.Error("failed to commit transaction", "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true
	return nil
}
