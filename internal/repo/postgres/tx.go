package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TxFunc func(context.Context, pgx.Tx) error

func WithTx(ctx context.Context, pool *pgxpool.Pool, fn TxFunc) error {
	if pool == nil {
		return ErrPoolUnavailable
	}

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return wrapErr("begin tx", err)
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return wrapErr("commit tx", err)
	}

	return nil
}

// Transactor binds WithTx to a pool so services can depend on an interface
// and tests can run the callback without a database.
type Transactor struct {
	pool *pgxpool.Pool
}

func NewTransactor(pool *pgxpool.Pool) *Transactor {
	return &Transactor{pool: pool}
}

func (t *Transactor) WithTx(ctx context.Context, fn TxFunc) error {
	return WithTx(ctx, t.pool, fn)
}
