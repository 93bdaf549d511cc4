package geo

import (
	"crypto/md5"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

const (
	defaultCacheEntries = 256
	defaultCacheTTL     = 30 * time.Minute
)

// RouteCache keeps directions per stop sequence so that re-rendering a map
// tab does not call the Routes API again.
type RouteCache struct {
	mu         sync.Mutex
	entries    map[string]*cacheEntry
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
	stats      CacheStats
	stop       chan struct{}
	stopOnce   sync.Once
}

type cacheEntry struct {
	summary      Summary
	createdAt    time.Time
	lastAccessed time.Time
	hits         int
}

// CacheStats counts cache traffic.
type CacheStats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
}

// NewRouteCache builds a cache and starts its expiry sweeper. Close stops
// the sweeper.
func NewRouteCache(maxEntries int, ttl time.Duration) *RouteCache {
	if maxEntries <= 0 {
		maxEntries = defaultCacheEntries
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	c := &RouteCache{
		entries:    make(map[string]*cacheEntry),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
		stop:       make(chan struct{}),
	}
	go c.sweep(ttl)
	return c
}

// Signature identifies a stop sequence. Order is part of the key.
func Signature(stops []Stop) string {
	if len(stops) == 0 {
		return ""
	}
	var b strings.Builder
	for _, s := range stops {
		fmt.Fprintf(&b, "%.5f,%.5f;", s.Latitude, s.Longitude)
	}
	sum := md5.Sum([]byte(b.String()))
	return fmt.Sprintf("%x", sum[:8])
}

func (c *RouteCache) Get(signature string) (Summary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[signature]
	if !ok {
		c.stats.Misses++
		return Summary{}, false
	}
	now := c.now()
	if now.Sub(entry.createdAt) > c.ttl {
		delete(c.entries, signature)
		c.stats.Misses++
		c.stats.Evictions++
		return Summary{}, false
	}
	entry.lastAccessed = now
	entry.hits++
	c.stats.Hits++
	return entry.summary, true
}

func (c *RouteCache) Set(signature string, s Summary) {
	if signature == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[signature]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}
	now := c.now()
	c.entries[signature] = &cacheEntry{summary: s, createdAt: now, lastAccessed: now}
}

// evictOldest drops the least recently used entry. Caller holds mu.
func (c *RouteCache) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for key, entry := range c.entries {
		if oldestKey == "" || entry.lastAccessed.Before(oldest) {
			oldestKey = key
			oldest = entry.lastAccessed
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
		c.stats.Evictions++
		log.Printf("🗑️  [GEO] evicted cached route %s", oldestKey)
	}
}

func (c *RouteCache) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := c.now()
			for key, entry := range c.entries {
				if now.Sub(entry.createdAt) > c.ttl {
					delete(c.entries, key)
					c.stats.Evictions++
				}
			}
			c.mu.Unlock()
		}
	}
}

func (c *RouteCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Size = len(c.entries)
	return s
}

func (c *RouteCache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}
