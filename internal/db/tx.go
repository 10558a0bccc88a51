package db

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// Querier is satisfied by both *sql.DB and *sql.Tx.
// Repositories receive it explicitly so the caller decides the transaction scope.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Transactor runs units of work inside a single transaction
type Transactor struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTransactor creates a new transactor over db
func NewTransactor(db *sql.DB, logger *zap.Logger) *Transactor {
	return &Transactor{
		db:     db,
		logger: logger,
	}
}

// WithinTx begins a transaction, hands it to fn and commits once fn returns nil.
// Any error or panic from fn rolls the whole unit back.
func (t *Transactor) WithinTx(ctx context.Context, fn func(q Querier) error) (err error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		t.logger.Error("failed to begin transaction", zap.Error(err))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				t.logger.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		t.logger.Error("failed to commit transaction", zap.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Ping checks the pool is reachable
func (t *Transactor) Ping(ctx context.Context) error {
	return t.db.PingContext(ctx)
}
