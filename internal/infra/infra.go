// Package infra provides shared infrastructure components used across
// the application: response caching and request rate limiting.
package infra

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// --- Simple in-memory cache ---

// CacheEntry holds a cached value with expiration.
type CacheEntry[V any] struct {
	Value     V
	ExpiresAt time.Time
}

// Cache is a thread-safe in-memory cache with TTL.
// A zero or negative TTL disables caching: Set becomes a no-op.
// Expired entries are dropped when read and swept at most once per TTL on
// Set, so keys that are never read again do not accumulate.
type Cache[V any] struct {
	mu        sync.RWMutex
	entries   map[string]CacheEntry[V]
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

// NewCache creates a new cache with the given default TTL.
func NewCache[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		entries: make(map[string]CacheEntry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get retrieves a value from the cache. Returns the zero value, false if not found or expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		var zero V
		return zero, false
	}
	if now := c.now(); now.After(entry.ExpiresAt) {
		c.mu.Lock()
		// Another goroutine may have refreshed the key since the read.
		if cur, ok := c.entries[key]; ok && now.After(cur.ExpiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		var zero V
		return zero, false
	}
	return entry.Value, true
}

// Set stores a value in the cache with the default TTL.
func (c *Cache[V]) Set(key string, value V) {
	if c.ttl <= 0 {
		return
	}
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	if now.Sub(c.lastSweep) >= c.ttl {
		c.sweep(now)
	}
	c.entries[key] = CacheEntry[V]{
		Value:     value,
		ExpiresAt: now.Add(c.ttl),
	}
}

// sweep removes expired entries. The caller holds c.mu.
func (c *Cache[V]) sweep(now time.Time) {
	for k, v := range c.entries {
		if now.After(v.ExpiresAt) {
			delete(c.entries, k)
		}
	}
	c.lastSweep = now
}

// --- Rate limiter ---

// RateLimiter throttles outbound requests to a single upstream.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a limiter allowing perSecond requests per second
// with bursts of up to burst requests. perSecond <= 0 means unlimited.
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{limiter: rate.NewLimiter(limit, burst)}
}

// Wait blocks until a request may proceed or the context is cancelled.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	return rl.limiter.Wait(ctx)
}
