package texture

import "sync"

// Cache is a concurrency-safe texture cache keyed by file path. Batch
// runs share decoded patterns across jobs instead of reloading them
// per render.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
}

type cacheEntry struct {
	tex *Texture
	err error
}

// NewCache creates an empty texture cache.
func NewCache() *Cache {
	return &Cache{items: make(map[string]*cacheEntry)}
}

// Load returns the cached texture for path, decoding it on first use.
// Failures are cached as well so repeated jobs do not retry a broken
// file.
func (c *Cache) Load(path string) (*Texture, error) {
	// Fast path: read lock
	c.mu.RLock()
	if entry, exists := c.items[path]; exists {
		c.mu.RUnlock()
		return entry.tex, entry.err
	}
	c.mu.RUnlock()

	// Slow path: load from disk
	tex, err := Load(path)

	// Write lock with double-check
	c.mu.Lock()
	if entry, exists := c.items[path]; exists {
		c.mu.Unlock()
		return entry.tex, entry.err
	}
	c.items[path] = &cacheEntry{tex: tex, err: err}
	c.mu.Unlock()

	return tex, err
}
