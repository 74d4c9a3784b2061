package docstore

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"

	"mangashelf/internal/library"
)

// subscription relays change pings into full-snapshot reads. A query
// failure is terminal: the error is surfaced once and the subscription
// stops, matching the "no automatic rebind" policy.
type subscription struct {
	store   *Store
	ownerID string
	pubsub  *redis.PubSub

	snapshots chan []library.Record
	errs      chan error
	done      chan struct{}
	closeOnce sync.Once
}

func newSubscription(store *Store, ownerID string, pubsub *redis.PubSub) *subscription {
	return &subscription{
		store:     store,
		ownerID:   ownerID,
		pubsub:    pubsub,
		snapshots: make(chan []library.Record, 1),
		errs:      make(chan error, 1),
		done:      make(chan struct{}),
	}
}

func (sub *subscription) Snapshots() <-chan []library.Record {
	return sub.snapshots
}

func (sub *subscription) Errors() <-chan error {
	return sub.errs
}

func (sub *subscription) Close() {
	sub.closeOnce.Do(func() {
		close(sub.done)
		sub.pubsub.Close()
	})
}

func (sub *subscription) loop(ctx context.Context) {
	defer close(sub.snapshots)

	// Initial snapshot before any ping arrives
	if !sub.emit(ctx) {
		return
	}

	pings := sub.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.done:
			return
		case _, ok := <-pings:
			if !ok {
				return
			}
			if !sub.emit(ctx) {
				return
			}
		}
	}
}

// emit pushes one consistent full re-read to the subscriber. Returns false
// when the subscription should stop.
func (sub *subscription) emit(ctx context.Context) bool {
	records, err := sub.store.queryOwner(ctx, sub.ownerID)
	if err != nil {
		select {
		case sub.errs <- err:
		default:
		}
		return false
	}

	select {
	case sub.snapshots <- records:
		return true
	case <-ctx.Done():
		return false
	case <-sub.done:
		return false
	}
}
