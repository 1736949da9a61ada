// Package cache stores rendered dashboard responses keyed by dataset version and query.
//
// Keys embed the dataset version, so regenerating a dataset makes every older
// entry unreachable without explicit invalidation.
package cache

import (
	"context"
	"net/url"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
// Get returns apperrors.ErrCacheMiss when the key is absent or expired.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Ping(ctx context.Context) error
	// Purge deletes every dashboard entry and reports how many were removed.
	Purge(ctx context.Context) (int, error)
	Close() error
}

// KeyPrefix namespaces every dashboard cache key.
const KeyPrefix = "dashboard"

// MakeKey builds a cache key from the dataset version, request path and query.
// Query parameters are encoded in sorted order so equivalent queries share a key.
func MakeKey(datasetVersion, path string, query url.Values) string {
	return KeyPrefix + ":" + datasetVersion + ":" + path + "?" + query.Encode()
}
