package lock

import (
	"context"
	"time"
)

// NoOpLocker switches write serialization off: every acquire succeeds
// immediately and concurrent writes race, exactly as if the handlers
// took no lock at all.
type NoOpLocker struct{}

// NewNoOpLocker creates a locker that never blocks anything.
func NewNoOpLocker() *NoOpLocker {
	return &NoOpLocker{}
}

// Acquire reports success without recording anything.
func (n *NoOpLocker) Acquire(ctx context.Context, _ string, _ time.Duration) (bool, error) {
	return true, ctx.Err()
}

// AcquireWithRetry succeeds on the first attempt, so it never retries.
func (n *NoOpLocker) AcquireWithRetry(ctx context.Context, _ string, _ time.Duration, _ int, _ time.Duration) (bool, error) {
	return true, ctx.Err()
}

// Release reports success; there is nothing to free.
func (n *NoOpLocker) Release(ctx context.Context, _ string) (bool, error) {
	return true, ctx.Err()
}

// IsHeld reports false; nothing is ever held.
func (n *NoOpLocker) IsHeld(ctx context.Context, _ string) (bool, error) {
	return false, ctx.Err()
}

// Ensure NoOpLocker implements Locker.
var _ Locker = (*NoOpLocker)(nil)
