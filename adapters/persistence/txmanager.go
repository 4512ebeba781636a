package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/jmakela/profiili/pkg/logger"
)

// txState is the per-transaction bookkeeping carried in the context: the
// transaction itself plus the set of profiles whose modification timestamp
// must be written before commit.
type txState struct {
	tx       pgx.Tx
	readOnly bool
	dirty    map[uuid.UUID]string
	order    []uuid.UUID
}

// AfterCommitFunc is notified with the touched profile ids once a write
// transaction has committed.
type AfterCommitFunc func(ctx context.Context, profileIDs []uuid.UUID)

// TxManager runs usecase functions inside a database transaction and owns
// the modification tracker. Nested RunInTx calls are not supported: calling
// RunInTx inside a RunInTx callback starts a second independent transaction,
// which is a bug.
type TxManager struct {
	db          DB
	log         logger.Logger
	afterCommit []AfterCommitFunc
}

func NewTxManager(db DB, log logger.Logger) *TxManager {
	return &TxManager{db: db, log: log}
}

// OnCommit registers a listener invoked after every successfully committed
// write transaction that touched at least one profile. Not safe to call
// concurrently with RunInTx; wire listeners at startup.
func (m *TxManager) OnCommit(fn AfterCommitFunc) {
	m.afterCommit = append(m.afterCommit, fn)
}

// RunInTx executes fn within a read-write transaction. Before commit it
// writes the modification timestamp of every profile registered through
// MarkProfileModified, exactly once per profile. On error or panic from fn
// the transaction rolls back and no timestamp is written.
func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	state := &txState{tx: tx, dirty: make(map[uuid.UUID]string)}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
	}()

	txCtx := withTxState(ctx, state)

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback failed: %w (original error: %v)", rbErr, err)
		}
		return err
	}

	for _, id := range state.order {
		if _, err := tx.Exec(ctx, `UPDATE profiles SET updated_at = now() WHERE id = $1`, id); err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				return fmt.Errorf("rollback failed: %w (original error: %v)", rbErr, err)
			}
			return fmt.Errorf("touch profile %s: %w", id, err)
		}
		m.log.Info("profile updated",
			zap.String("profile_id", id.String()),
			zap.String("operation", state.dirty[id]),
		)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	if len(state.order) > 0 {
		for _, fn := range m.afterCommit {
			fn(ctx, state.order)
		}
	}

	return nil
}

// RunInReadTx executes fn within a read-only transaction. Modification
// markings made inside it are ignored.
func (m *TxManager) RunInReadTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return fmt.Errorf("begin read transaction: %w", err)
	}

	state := &txState{tx: tx, readOnly: true}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
	}()

	if err := fn(withTxState(ctx, state)); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit read transaction: %w", err)
	}
	return nil
}

// MarkProfileModified registers the profile for a single pre-commit
// timestamp write in the enclosing transaction. Repeated calls for the same
// profile are no-ops; calls outside a transaction or inside a read-only one
// are ignored. Every mutating usecase method calls this first.
func MarkProfileModified(ctx context.Context, profileID uuid.UUID, operation string) {
	state, ok := stateFromCtx(ctx)
	if !ok || state.readOnly {
		return
	}
	if _, seen := state.dirty[profileID]; seen {
		return
	}
	state.dirty[profileID] = operation
	state.order = append(state.order, profileID)
}
