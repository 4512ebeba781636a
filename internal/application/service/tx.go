package service

import "context"

// TxManager is the transaction boundary the usecases run their work in.
// Implemented by persistence.TxManager; tests substitute a passthrough fake.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
	RunInReadTx(ctx context.Context, fn func(ctx context.Context) error) error
}
