package service

import (
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/yourusername/tightlines/internal/metrics"
)

// ResponseCache holds repository results between requests with a fixed TTL
type ResponseCache struct {
	name      string
	cache     *cache.Cache
	mu        sync.RWMutex
	hitCount  uint64
	missCount uint64
}

// NewResponseCache creates a cache whose entries expire after ttl.
// A zero ttl disables caching.
func NewResponseCache(name string, ttl time.Duration) *ResponseCache {
	cleanup := ttl * 2
	if cleanup <= 0 {
		cleanup = time.Minute
	}
	return &ResponseCache{
		name:  name,
		cache: newBackingCache(ttl, cleanup),
	}
}

func newBackingCache(ttl, cleanup time.Duration) *cache.Cache {
	if ttl <= 0 {
		return nil
	}
	return cache.New(ttl, cleanup)
}

// Get returns a cached value
func (rc *ResponseCache) Get(key string) (interface{}, bool) {
	if rc == nil || rc.cache == nil {
		return nil, false
	}

	value, found := rc.cache.Get(key)

	rc.mu.Lock()
	if found {
		rc.hitCount++
	} else {
		rc.missCount++
	}
	rc.mu.Unlock()

	metrics.RecordCacheLookup(rc.name, found)
	return value, found
}

// Set stores a value with the default TTL
func (rc *ResponseCache) Set(key string, value interface{}) {
	if rc == nil || rc.cache == nil {
		return
	}
	rc.cache.SetDefault(key, value)
}

// Delete removes one key
func (rc *ResponseCache) Delete(key string) {
	if rc == nil || rc.cache == nil {
		return
	}
	rc.cache.Delete(key)
}

// InvalidatePrefix removes every key starting with prefix
func (rc *ResponseCache) InvalidatePrefix(prefix string) {
	if rc == nil || rc.cache == nil {
		return
	}
	for k := range rc.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			rc.cache.Delete(k)
		}
	}
}

// Clear flushes the entire cache
func (rc *ResponseCache) Clear() {
	if rc == nil || rc.cache == nil {
		return
	}
	rc.cache.Flush()

	rc.mu.Lock()
	rc.hitCount = 0
	rc.missCount = 0
	rc.mu.Unlock()
}

// Stats returns cache statistics
func (rc *ResponseCache) Stats() (hits, misses uint64, ratio float64) {
	if rc == nil {
		return 0, 0, 0
	}
	rc.mu.RLock()
	defer rc.mu.RUnlock()

	hits = rc.hitCount
	misses = rc.missCount
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache
func (rc *ResponseCache) ItemCount() int {
	if rc == nil || rc.cache == nil {
		return 0
	}
	return rc.cache.ItemCount()
}

func cachedAs[T any](rc *ResponseCache, key string) (T, bool) {
	var zero T
	v, ok := rc.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
