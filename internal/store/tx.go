package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/metacore-io/metacore/internal/logger"
)

// WithinTx runs fn inside one database transaction with all-or-nothing
// semantics: any error from fn rolls everything back and is returned to the
// caller. Every record save/delete and every logical metadata change in the
// engine goes through this runner so that a failed later step can never
// leave a partial write behind.
func (db *DB) WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "DB.WithinTx").
			Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "DB.WithinTx").
			Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	return nil
}
