package transactor

import (
	"context"

	"github.com/jackc/pgtype/pgxtype"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type pgxTxKey struct{}

func withPgTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, pgxTxKey{}, tx)
}

func pgxTxValue(ctx context.Context) pgx.Tx {
	if tx, ok := ctx.Value(pgxTxKey{}).(pgx.Tx); ok {
		return tx
	}
	return nil
}

// PgxQueryExecutor is the query surface shared by pgxpool.Pool and pgx.Tx
type PgxQueryExecutor interface {
	pgxtype.Querier
}

// PgxTransactor runs functions within a pgx transaction and exposes the
// executor bound to the current context (transaction when present, pool
// otherwise)
type PgxTransactor interface {
	Transactor
	Executor(ctx context.Context) PgxQueryExecutor
}

type pgxTransactor struct {
	pool *pgxpool.Pool
}

// NewPgxTransactor builds PgxTransactor on top of the connection pool
func NewPgxTransactor(p *pgxpool.Pool) PgxTransactor {
	return &pgxTransactor{pool: p}
}

func (t *pgxTransactor) WithinTransaction(ctx context.Context, txFunc func(context.Context) error) (err error) {
	conn, err := t.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		var txErr error
		if err != nil {
			txErr = tx.Rollback(ctx)
		} else {
			txErr = tx.Commit(ctx)
		}

		if txErr != nil {
			err = txErr
		}
	}()

	err = txFunc(withPgTx(ctx, tx))
	return err
}

func (t *pgxTransactor) Executor(ctx context.Context) PgxQueryExecutor {
	if tx := pgxTxValue(ctx); tx != nil {
		return tx
	}
	return t.pool
}
