package repository

import (
	"context"
	"strconv"
	"time"
)

// =============================================================================
// Cache Interface
// =============================================================================

// Cache is the response cache the server puts in front of listing
// queries. Implementations store opaque payload bytes per key.
type Cache interface {
	// Get returns the payload under key, or ErrCacheMiss when absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. A positive ttl bounds the entry's
	// life; zero keeps it until deleted.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete drops the entry under key. Absent keys are not an error.
	Delete(ctx context.Context, key string) error
}

// =============================================================================
// Common Cache Keys
// =============================================================================

// CacheKey generates cache keys for common scenarios.
type CacheKey struct{}

// UserItems is the cache key for one user's inventory listing.
func (CacheKey) UserItems(userID int64) string {
	return "cache:items:user:" + strconv.FormatInt(userID, 10)
}
