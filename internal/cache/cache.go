// Package cache provides the process-wide key/value store behind sessions and
// handshake tokens. Every entry carries its own expiry; expired entries are
// never returned.
package cache

import (
	"context"
	"time"
)

// Cache is a string key/value store with per-key TTL.
type Cache interface {
	// Get returns the value stored under key. Missing and expired keys report
	// ok == false.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key for ttl. A non-positive ttl never expires.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// CompareAndSwap replaces the value under key with next only if it still
	// equals prev, keeping the remaining TTL. It reports whether the swap
	// happened.
	CompareAndSwap(ctx context.Context, key, prev, next string) (bool, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Flush removes every entry.
	Flush(ctx context.Context) error
}
