// Package cache stores recognition results so unchanged manifests are not
// decoded twice.
//
// Entries are opaque byte slices addressed by string keys. Keys are built
// by a [Keyer] from the handler type and a [Hash] of the manifest content,
// so editing a manifest naturally invalidates its entry.
//
// Three backends are provided:
//   - [FileCache]: one JSON file per entry, for CLI usage
//   - [RedisCache]: shared cache for the HTTP server and CI fleets
//   - [NullCache]: disables caching
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiration.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored value and true, or nil and false on a miss.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
type Clearer interface {
	// Clear removes every entry and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}
