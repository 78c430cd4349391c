package dataset

import (
	"sync"
	"time"

	"coach-insights-go/internal/types"
)

// Cache is a time-boxed front for the record source. The analytics engine
// always receives the full record slice; staleness and invalidation are
// this object's concern alone.
type Cache struct {
	mu        sync.Mutex
	ttl       time.Duration
	load      func() ([]types.CallRecord, error)
	records   []types.CallRecord
	loaded    bool
	fetchedAt time.Time
}

func NewCache(ttl time.Duration, load func() ([]types.CallRecord, error)) *Cache {
	return &Cache{ttl: ttl, load: load}
}

// Records returns the cached record set, reloading from the source when
// the TTL has lapsed. A failed reload keeps serving the previous set if
// one exists.
func (c *Cache) Records() ([]types.CallRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded && !c.fetchedAt.IsZero() && time.Since(c.fetchedAt) < c.ttl {
		return c.records, nil
	}
	records, err := c.load()
	if err != nil {
		if c.loaded {
			return c.records, nil
		}
		return nil, err
	}
	c.records = records
	c.loaded = true
	c.fetchedAt = time.Now()
	return c.records, nil
}

// Invalidate marks the set stale so the next Records call hits the
// source. The last good set stays around as a fallback.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchedAt = time.Time{}
}
