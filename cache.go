package xsd

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync"
)

// SchemaCache caches parsed schema models keyed by document content, so
// repeated uploads of an identical XSD reuse one model. Entries load at most
// once via sync.Once even under concurrent requests.
type SchemaCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	once   sync.Once
	schema *Schema
	err    error
}

// NewSchemaCache creates an empty cache.
func NewSchemaCache() *SchemaCache {
	return &SchemaCache{entries: make(map[string]*cacheEntry)}
}

// Parse returns the cached model for the given document text, parsing it on
// first sight. Parse options participate in the key because they change the
// resulting model.
func (c *SchemaCache) Parse(data []byte, opts ...ParseOption) (*Schema, error) {
	var cfg parseConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	digest := sha256.Sum256(data)
	key := hex.EncodeToString(digest[:])
	if cfg.knownQuirks {
		key += ":quirks"
	}

	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		c.mu.Lock()
		entry, exists = c.entries[key]
		if !exists {
			entry = &cacheEntry{}
			c.entries[key] = entry
			slog.Debug("schema cache miss", "key", key)
		}
		c.mu.Unlock()
	}

	entry.once.Do(func() {
		entry.schema, entry.err = ParseXSD(data, opts...)
	})
	return entry.schema, entry.err
}

// Purge drops all cached entries.
func (c *SchemaCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// Len reports the number of cached schemas.
func (c *SchemaCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
