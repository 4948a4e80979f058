package ports

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the byte-level cache consumed by the read-through layer. Values
// are opaque; encoding is the caller's concern. Entries expire after their
// TTL; expiry is the only eviction mechanism.
type Cache interface {
	// Get returns the cached value, or ErrCacheMiss when absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete drops the entry for key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
