package registry

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/connorleisz/pane/internal/objectid"
)

// CacheStats are the observability counters spec.md section 4.4 requires:
// hits, misses, loads, evictions, exceptions.
type CacheStats struct {
	Hits       int64
	Misses     int64
	Loads      int64
	Evictions  int64
	Exceptions int64
}

// Loader fetches an ObjectInfo on a cache miss (e.g. a stat(2) call). It may
// return an error, counted as an Exception on top of the Miss.
type Loader func(id objectid.ID) (*ObjectInfo, error)

// Cache is the optional LRU/TTL front layer over a Registry for
// heavy-traffic keys. It never evicts an id the Registry reports as
// currently pinned (referenced by a pane or a search result); a pinned
// victim is simply left in place until unpinned; it is still reachable
// directly through the Registry regardless of cache membership.
type Cache struct {
	reg   *Registry
	lru   *lru.LRU[objectid.ID, *ObjectInfo]
	stats CacheStats
}

// NewCache builds a Cache bounded by maxEntries and ttl, backed by reg.
func NewCache(reg *Registry, maxEntries int, ttl time.Duration) *Cache {
	c := &Cache{reg: reg}
	c.lru = lru.NewLRU[objectid.ID, *ObjectInfo](maxEntries, c.onEvict, ttl)
	return c
}

func (c *Cache) onEvict(id objectid.ID, _ *ObjectInfo) {
	if c.reg.Evict(id) {
		c.stats.Evictions++
	}
	// A pinned id is not actually removed from the Registry; it simply
	// falls out of the hot-key cache. It remains reachable via Registry.Get
	// directly, so losing cache membership is not data loss.
}

// Get returns the cached ObjectInfo for id, loading it via loader on a miss.
// A miss that fails to load is an Exception, not silently treated as absent.
func (c *Cache) Get(id objectid.ID, loader Loader) (*ObjectInfo, error) {
	if info, ok := c.lru.Get(id); ok {
		c.stats.Hits++
		return info, nil
	}
	c.stats.Misses++
	info, err := loader(id)
	if err != nil {
		c.stats.Exceptions++
		return nil, err
	}
	c.stats.Loads++
	c.reg.Insert(id, info)
	c.lru.Add(id, info)
	return info, nil
}

// Invalidate removes id from the hot-key cache (it remains in the Registry).
func (c *Cache) Invalidate(id objectid.ID) {
	c.lru.Remove(id)
}

// Put records a value already known to the caller (a freshly scanned or
// enriched entry, not a Get miss) into both the Registry and the hot-key
// cache, refreshing its TTL. Unlike Get, Put always overwrites: a scan's
// result is authoritative over whatever the cache held for id.
func (c *Cache) Put(id objectid.ID, info *ObjectInfo) {
	c.reg.Insert(id, info)
	c.lru.Add(id, info)
}

// Stats returns a snapshot of the cache's counters.
func (c *Cache) Stats() CacheStats { return c.stats }
