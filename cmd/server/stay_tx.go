package main

import (
	"context"
	"time"

	stayservice "sojourn/internal/stay/service"
	staystore "sojourn/internal/stay/store"
	id "sojourn/pkg/domain"
	dErrors "sojourn/pkg/domain-errors"
	txcontext "sojourn/pkg/platform/tx"
)

const defaultStayTxTimeout = 5 * time.Second

// staySQLTx runs ledger writes in one database transaction holding the
// traveler's lock, so replicas cannot interleave overlap checks.
type staySQLTx struct {
	store   *staystore.SQLStore
	timeout time.Duration
}

func newStaySQLTx(store *staystore.SQLStore) *staySQLTx {
	return &staySQLTx{store: store}
}

func (t *staySQLTx) RunInTx(ctx context.Context, travelerID id.TravelerID, fn func(ctx context.Context, store stayservice.RecordStore) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultStayTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.store.DB().BeginTx(ctx, nil)
	if err != nil {
		if ctx.Err() != nil {
			return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: deadline exceeded")
		}
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	txCtx := txcontext.WithTx(ctx, tx)
	if err := t.store.LockTraveler(txCtx, travelerID); err != nil {
		return err
	}
	if err := fn(txCtx, t.store); err != nil {
		return err
	}

	return tx.Commit()
}
