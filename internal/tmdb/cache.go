package tmdb

import (
	"log/slog"
	"sync"

	"filmdash/internal/logging"
)

// CacheKey joins title and year exactly as given.
func CacheKey(title, year string) string {
	return title + "_" + year
}

// Cache holds enrichment results for the process lifetime. Entries are
// write-once: the first stored value for a key wins.
type Cache struct {
	logger  *slog.Logger
	mu      sync.RWMutex
	entries map[string]Result
}

// NewCache creates an empty cache.
func NewCache(logger *slog.Logger) *Cache {
	return &Cache{
		logger:  logging.NewComponentLogger(logger, "tmdb_cache"),
		entries: make(map[string]Result),
	}
}

// Lookup returns the cached result for key.
func (c *Cache) Lookup(key string) (Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result, ok := c.entries[key]
	return result, ok
}

// StoreOnce stores result unless key is already present, and returns the
// value that ends up cached.
func (c *Cache) StoreOnce(key string, result Result) Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[key]; ok {
		return existing
	}
	c.entries[key] = result
	c.logger.Debug("cached enrichment result",
		logging.String("key", key),
		logging.String("outcome", string(result.Outcome)),
	)
	return result
}

// Len reports the number of cached keys.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]Result)
}
