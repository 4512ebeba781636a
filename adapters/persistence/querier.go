package persistence

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the common interface implemented by *pgxpool.Pool, pgx.Tx and
// the pgxmock pool used in tests.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// DB is what repositories and the TxManager hold: the shared pool, or a mock
// in tests.
type DB interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// unexported context key for the transaction state
type txStateKey struct{}

func withTxState(ctx context.Context, s *txState) context.Context {
	return context.WithValue(ctx, txStateKey{}, s)
}

func stateFromCtx(ctx context.Context) (*txState, bool) {
	s, ok := ctx.Value(txStateKey{}).(*txState)
	return s, ok
}

// QuerierFromCtx returns the transaction from context if present, otherwise
// the db handle itself. Repositories call this on every operation so they
// transparently join the enclosing transaction.
func QuerierFromCtx(ctx context.Context, db DB) Querier {
	if s, ok := stateFromCtx(ctx); ok {
		return s.tx
	}
	return db
}
