// Package lock serializes item writes. The update and delete handlers
// take a per-item lock before touching the row and answer 409 when it
// is already held. The memory backend covers a single node, the redis
// backend a fleet, and the noop backend switches serialization off.
package lock

import (
	"context"
	"strconv"
	"time"
)

// Locker is the per-key lock contract all three backends implement.
// Every lock carries a TTL so a crashed holder cannot wedge an item
// forever.
type Locker interface {
	// Acquire takes the lock when it is free or lapsed. false means
	// another holder has it.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// AcquireWithRetry polls Acquire up to maxRetries additional times,
	// waiting retryDelay between attempts.
	AcquireWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (bool, error)

	// Release frees the lock. false means it was not held.
	Release(ctx context.Context, key string) (bool, error)

	// IsHeld reports whether the lock is currently held.
	IsHeld(ctx context.Context, key string) (bool, error)
}

// Keys builds the lock key namespace.
var Keys = lockKeys{}

type lockKeys struct{}

// Item is the write lock covering one inventory item.
func (lockKeys) Item(itemID int64) string {
	return "lock:item:" + strconv.FormatInt(itemID, 10)
}

// pollAcquire drives the retry loop shared by the real backends: keep
// calling acquire until it succeeds, the attempts run out, or the
// context ends. No sleep after the final attempt.
func pollAcquire(ctx context.Context, maxRetries int, retryDelay time.Duration, acquire func() (bool, error)) (bool, error) {
	for attempt := 0; ; attempt++ {
		acquired, err := acquire()
		if acquired || err != nil {
			return acquired, err
		}
		if attempt >= maxRetries {
			return false, nil
		}

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
}
