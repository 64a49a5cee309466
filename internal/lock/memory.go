package lock

import (
	"context"
	"sync"
	"time"
)

// sweepInterval is how often the janitor drops lapsed entries that no
// caller has touched since they expired.
const sweepInterval = 30 * time.Second

// MemoryLocker keeps locks in a process-local deadline table. A single
// server instance sees every write, so a mutex-guarded map is all the
// serialization an embedded deployment needs. Nothing survives a
// restart, and a second instance would not see these locks at all.
type MemoryLocker struct {
	mu        sync.Mutex
	deadlines map[string]time.Time
}

// NewMemoryLocker creates a memory locker and starts its janitor.
func NewMemoryLocker() *MemoryLocker {
	ml := &MemoryLocker{
		deadlines: make(map[string]time.Time),
	}
	go ml.sweep()
	return ml
}

// Acquire takes the lock when it is free or lapsed.
func (m *MemoryLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.heldLocked(key) {
		return false, nil
	}
	m.deadlines[key] = time.Now().Add(ttl)

	return true, nil
}

// AcquireWithRetry polls Acquire up to maxRetries additional times.
func (m *MemoryLocker) AcquireWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (bool, error) {
	return pollAcquire(ctx, maxRetries, retryDelay, func() (bool, error) {
		return m.Acquire(ctx, key, ttl)
	})
}

// Release frees the lock. A lapsed lock counts as already released.
func (m *MemoryLocker) Release(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.heldLocked(key) {
		return false, nil
	}
	delete(m.deadlines, key)

	return true, nil
}

// IsHeld reports whether the lock is currently held.
func (m *MemoryLocker) IsHeld(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.heldLocked(key), nil
}

// heldLocked reports whether key is locked right now, dropping lapsed
// entries on sight. Callers hold mu.
func (m *MemoryLocker) heldLocked(key string) bool {
	deadline, ok := m.deadlines[key]
	if !ok {
		return false
	}
	if time.Now().After(deadline) {
		delete(m.deadlines, key)
		return false
	}
	return true
}

// sweep periodically clears lapsed entries the read paths never
// revisited, keeping the table from growing with abandoned keys.
func (m *MemoryLocker) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		m.mu.Lock()
		now := time.Now()
		for key, deadline := range m.deadlines {
			if now.After(deadline) {
				delete(m.deadlines, key)
			}
		}
		m.mu.Unlock()
	}
}

// Ensure MemoryLocker implements Locker.
var _ Locker = (*MemoryLocker)(nil)
