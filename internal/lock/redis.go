package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock key only when it still carries this
// locker's ownership token, so an expired-and-reacquired lock is never
// released out from under the new holder.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

// RedisLocker implements Locker using Redis SET NX with per-acquisition
// ownership tokens. Locks are shared across every instance pointed at
// the same Redis.
type RedisLocker struct {
	client *redis.Client

	mu     sync.Mutex
	tokens map[string]string
}

// NewRedisLocker creates a new Redis-backed locker.
func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{
		client: client,
		tokens: make(map[string]string),
	}
}

// Acquire attempts to acquire a lock.
func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	token := uuid.NewString()

	acquired, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !acquired {
		return false, nil
	}

	l.mu.Lock()
	l.tokens[key] = token
	l.mu.Unlock()

	return true, nil
}

// AcquireWithRetry polls Acquire up to maxRetries additional times.
func (l *RedisLocker) AcquireWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (bool, error) {
	return pollAcquire(ctx, maxRetries, retryDelay, func() (bool, error) {
		return l.Acquire(ctx, key, ttl)
	})
}

// Release releases a lock acquired by this locker. Releasing a lock
// held by another instance is a no-op.
func (l *RedisLocker) Release(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	token, owned := l.tokens[key]
	delete(l.tokens, key)
	l.mu.Unlock()

	if !owned {
		return false, nil
	}

	deleted, err := releaseScript.Run(ctx, l.client, []string{key}, token).Int()
	if err != nil {
		return false, fmt.Errorf("failed to release lock: %w", err)
	}

	return deleted == 1, nil
}

// IsHeld checks if the lock is currently held by any instance.
func (l *RedisLocker) IsHeld(ctx context.Context, key string) (bool, error) {
	exists, err := l.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check lock: %w", err)
	}
	return exists > 0, nil
}

// Ensure RedisLocker implements Locker.
var _ Locker = (*RedisLocker)(nil)
