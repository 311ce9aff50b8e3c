// Package cache stores computed budget curves and labeling search results.
//
// A search over a few thousand candidate labelings is cheap, but searches
// near the candidate ceiling take long enough that repeating them for the
// same tree and multisets is wasteful. Results are cached under keys derived
// from a hash of the serialized tree and the search options (see [Keyer]).
//
// Three backends implement [Cache]:
//
//   - [FileCache]: JSON entries on local disk, used by the CLI
//   - [RedisCache]: a shared Redis instance, used by the API server
//   - [NullCache]: stores nothing, for tests, --no-cache and backend "none"
package cache

import (
	"context"
	"time"
)

// Default time-to-live values. Results are pure functions of their key, so
// the TTLs only bound disk and memory use.
const (
	CurveTTL  = 7 * 24 * time.Hour
	SearchTTL = 30 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss with ok == false and a nil error. Implementations must
// be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// NullCache misses on every lookup and drops every write, so a runner
// configured with it recomputes each curve and search.
type NullCache struct{}

// NewNullCache returns the cache used when caching is disabled.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error { return nil }
func (NullCache) Close() error { return nil }

var _ Cache = NullCache{}
