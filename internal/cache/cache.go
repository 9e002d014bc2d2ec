// Package cache holds normalized forecasts for a freshness window so repeat
// lookups within the window never hit the upstream.
package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/atmoslens/weather-dashboard/internal/forecast"
)

// DefaultTTL is the freshness window applied when no TTL is configured.
const DefaultTTL = 30 * time.Minute

type entry struct {
	payload    forecast.Forecast
	insertedAt time.Time
}

// Cache is a concurrency-safe TTL map from normalized city key to forecast.
// Expired entries are treated as absent; Put overwrites unconditionally.
type Cache struct {
	mu   sync.RWMutex
	data map[string]entry
	ttl  time.Duration
	now  func() time.Time
}

// New creates a Cache. A non-positive ttl falls back to DefaultTTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		data: make(map[string]entry),
		ttl:  ttl,
		now:  time.Now,
	}
}

// NormalizeKey canonicalizes a city string for use as a cache key.
func NormalizeKey(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

// Get returns the cached forecast for key if present and still fresh.
func (c *Cache) Get(key string) (forecast.Forecast, bool) {
	key = NormalizeKey(key)

	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.data[key]
	if !ok {
		return forecast.Forecast{}, false
	}
	if c.now().Sub(e.insertedAt) >= c.ttl {
		return forecast.Forecast{}, false
	}
	return e.payload, true
}

// Put stores payload under the normalized key, overwriting any prior entry.
// Callers must treat returned payloads as immutable after insertion.
func (c *Cache) Put(key string, payload forecast.Forecast) {
	key = NormalizeKey(key)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = entry{payload: payload, insertedAt: c.now()}
}
