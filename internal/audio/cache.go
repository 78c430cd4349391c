package audio

import (
	"sync"
	"time"
)

type entry struct {
	data      string
	fetchedAt time.Time
}

// Cache keeps base64 audio payloads around between views. Audio bytes
// are immutable; the TTL bounds memory.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
	fetch   func(url string) (string, error)
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl, entries: map[string]entry{}, fetch: FetchBase64}
}

// Get returns the cached payload for a locator, fetching on miss or
// expiry.
func (c *Cache) Get(url string) (string, error) {
	c.mu.Lock()
	if e, ok := c.entries[url]; ok && time.Since(e.fetchedAt) < c.ttl {
		c.mu.Unlock()
		return e.data, nil
	}
	c.mu.Unlock()

	data, err := c.fetch(url)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.entries[url] = entry{data: data, fetchedAt: time.Now()}
	c.mu.Unlock()
	return data, nil
}

// Invalidate drops every cached payload.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]entry{}
}
