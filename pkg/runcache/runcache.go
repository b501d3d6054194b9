// Package runcache lets duplicate scrapes within one process share a single provider run,
// with thundering herd prevention for concurrent callers.
//
// Entries live in memory only. Nothing is persisted, so results never outlive the process.
package runcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/codeGROOVE-dev/sfcache"
	"github.com/codeGROOVE-dev/sfcache/pkg/store/null"
)

// DefaultTTL bounds how long a finished run is reused.
const DefaultTTL = time.Hour

// Stats tracks cache hit/miss statistics.
type Stats struct {
	Hits   int64
	Misses int64
}

var (
	hits   atomic.Int64
	misses atomic.Int64
)

// CacheStats returns the current cache statistics.
func CacheStats() Stats {
	return Stats{Hits: hits.Load(), Misses: misses.Load()}
}

// ResetStats resets the cache statistics.
func ResetStats() {
	hits.Store(0)
	misses.Store(0)
}

// Cacher allows external cache implementations.
type Cacher interface {
	GetSet(ctx context.Context, key string, fetch func(context.Context) ([]byte, error), ttl ...time.Duration) ([]byte, error)
	TTL() time.Duration
}

// Cache wraps an in-memory sfcache.
type Cache struct {
	*sfcache.TieredCache[string, []byte]

	ttl time.Duration
}

// New creates a memory-only Cache. The null store discards every write-through, so the
// memory tier is the only place entries live.
func New(ttl time.Duration) *Cache {
	tc, err := sfcache.NewTiered[string, []byte](null.New[string, []byte](), sfcache.TTL(ttl))
	if err != nil {
		panic("sfcache.NewTiered with null store: " + err.Error())
	}
	return &Cache{TieredCache: tc, ttl: ttl}
}

// TTL returns the default TTL for cache entries.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Key converts a profile URL to a cache key.
func Key(profileURL string) string {
	hash := sha256.Sum256([]byte(profileURL))
	return hex.EncodeToString(hash[:])
}

// Do returns the cached result for key, calling fetch on a miss. Concurrent callers for
// the same key wait on one fetch. Errors are never cached. A nil cache always fetches.
func Do(ctx context.Context, cache Cacher, key string, fetch func(context.Context) ([]byte, error), logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cache == nil {
		misses.Add(1)
		return fetch(ctx)
	}

	var fetched atomic.Bool
	data, err := cache.GetSet(ctx, key, func(ctx context.Context) ([]byte, error) {
		fetched.Store(true)
		misses.Add(1)
		logger.DebugContext(ctx, "run cache miss", "key", key)
		return fetch(ctx)
	}, cache.TTL())

	if !fetched.Load() && err == nil {
		hits.Add(1)
		logger.DebugContext(ctx, "run cache hit", "key", key)
	}
	return data, err
}
