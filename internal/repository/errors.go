package repository

import (
	"errors"

	"github.com/prn-tf/stockroom/internal/domain"
)

// Repository errors
var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
)

// IsNotFound reports whether err marks an absent row, whichever layer
// produced it: the generic repository sentinel or an entity-specific
// domain sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, domain.ErrItemNotFound) ||
		errors.Is(err, domain.ErrUserNotFound)
}

// Cache errors
var (
	// ErrCacheMiss indicates the key was not found in cache.
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable indicates the cache is unavailable.
	ErrCacheUnavailable = errors.New("cache unavailable")
)
