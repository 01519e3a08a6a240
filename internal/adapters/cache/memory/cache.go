package memory

import (
	"context"
	"sync"
	"time"

	"medipin-ocr/internal/domain/scans"
)

// Cache guarda respuestas del pipeline por hash de contenido, en proceso.
// MaxEntries <= 0 => sin límite. TTL 0 => sin expiración.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]scans.CacheEntry
	order   []string // orden de inserción para desalojar la más vieja

	maxEntries int
	ttl        time.Duration
	now        func() time.Time
}

func NewCache(maxEntries int, ttl time.Duration) *Cache {
	return &Cache{
		entries:    map[string]scans.CacheEntry{},
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}
}

func (c *Cache) Get(_ context.Context, hash string) (scans.CacheEntry, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[hash]
	c.mu.RUnlock()

	if !ok {
		return scans.CacheEntry{}, false, nil
	}
	if c.expired(e) {
		return scans.CacheEntry{}, false, nil
	}
	return e, true, nil
}

// Set pisa la entrada del mismo hash. El último que escribe gana.
func (c *Cache) Set(_ context.Context, hash string, entry scans.CacheEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = c.now()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[hash]; exists {
		c.entries[hash] = entry
		return nil
	}

	c.entries[hash] = entry
	c.order = append(c.order, hash)

	for c.maxEntries > 0 && len(c.order) > c.maxEntries {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	return nil
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) expired(e scans.CacheEntry) bool {
	if c.ttl <= 0 {
		return false
	}
	return c.now().Sub(e.CreatedAt) > c.ttl
}
