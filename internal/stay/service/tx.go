package service

import (
	"context"
	"time"

	"github.com/zeebo/xxh3"

	id "sojourn/pkg/domain"
	dErrors "sojourn/pkg/domain-errors"
)

// numTxShards spreads travelers across independent locks so writes for
// different travelers rarely contend.
const numTxShards = 64

// defaultTxTimeout bounds how long a write may wait for and hold its lock.
const defaultTxTimeout = 5 * time.Second

// shardedTx serialises writes per traveler within one process. Each shard is
// a one-slot semaphore so waiting for it honours the context. Multi-replica
// deployments use a database transaction instead (see WithTx).
type shardedTx struct {
	shards  [numTxShards]chan struct{}
	store   RecordStore
	timeout time.Duration
}

func newShardedTx(store RecordStore, timeout time.Duration) *shardedTx {
	t := &shardedTx{store: store, timeout: timeout}
	for i := range t.shards {
		t.shards[i] = make(chan struct{}, 1)
	}
	return t
}

func (t *shardedTx) RunInTx(ctx context.Context, travelerID id.TravelerID, fn func(ctx context.Context, store RecordStore) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	sem := t.shards[shardFor(travelerID)]
	select {
	case sem <- struct{}{}:
	case <-ctx.Done():
		return dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "transaction aborted: waiting for traveler lock")
	}
	defer func() { <-sem }()

	// Check again after acquiring lock
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	return fn(ctx, t.store)
}

func shardFor(travelerID id.TravelerID) uint64 {
	u := [16]byte(travelerID)
	return xxh3.Hash(u[:]) % numTxShards
}
