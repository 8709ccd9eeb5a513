package cache

import (
	"context"
	"time"
)

// Cache defines the contract for the cache layer.
// Implementations can be swapped (Redis, in-memory) without touching the services.
type Cache interface {
	// Get reads a key and unmarshals the stored value into dest.
	// Returns (found, error):
	// - found = true: cache hit, value unmarshaled into dest
	// - found = false: cache miss, dest is left untouched
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores a value under key with the given TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes the given keys from the cache.
	Delete(ctx context.Context, keys ...string) error

	// Ping verifies the connection.
	Ping(ctx context.Context) error
}
