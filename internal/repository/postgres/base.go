package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// BaseRepository provides common functionality for repositories that need
// transactions.
type BaseRepository struct {
	db *sqlx.DB
}

func NewBaseRepository(db *sqlx.DB) BaseRepository {
	return BaseRepository{db: db}
}

// WithTx executes fn within a transaction. The transaction is rolled back on
// error or panic, so a caller deadline that fires mid-transaction leaves no
// partial state.
func (r *BaseRepository) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// lockBookingDate serializes writers for one calendar day. The business runs
// a single line of work, so one advisory lock per date is exact, not
// conservative. The lock is transaction-scoped (pg_advisory_xact_lock) and
// therefore safe behind transaction-pooling proxies; it is released on
// commit or rollback.
func lockBookingDate(ctx context.Context, tx *sqlx.Tx, date time.Time) error {
	key := date.Unix() / 86400
	_, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, key)
	return err
}
