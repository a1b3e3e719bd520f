package analytics

import (
	"sync"
	"time"
)

// statsCache holds the last per-query aggregation for a short time
type statsCache struct {
	mu          sync.RWMutex
	stats       []Stats
	lastRefresh time.Time
	ttl         time.Duration
}

func newStatsCache(ttl time.Duration) *statsCache {
	return &statsCache{ttl: ttl}
}

// get returns the cached stats if present and fresh
func (c *statsCache) get() ([]Stats, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.stats == nil || time.Since(c.lastRefresh) > c.ttl {
		return nil, false
	}
	return c.stats, true
}

func (c *statsCache) set(stats []Stats) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if stats == nil {
		stats = []Stats{}
	}
	c.stats = stats
	c.lastRefresh = time.Now()
}

func (c *statsCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats = nil
}
