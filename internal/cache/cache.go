// Package cache is a read-through cache for file records. It holds no
// authority: entries may vanish at any time and the caller always falls
// back to the metadata store on a miss.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/tempdrop/tempdrop/internal/models"
)

const (
	// DefaultTTL bounds how long a cached record may be served.
	DefaultTTL = time.Hour
	// maxEntries bounds cache memory; eviction is harmless since the
	// store remains authoritative.
	maxEntries = 4096
)

// Cache wraps an expirable LRU keyed by file id. The LRU enforces the
// DefaultTTL bound; the per-record expiry bound is enforced at Get and
// Put time, so a record is never served past its own expires_at.
type Cache struct {
	lru *expirable.LRU[string, *models.FileRecord]
}

// New creates a cache with the default size and TTL bounds.
func New() *Cache {
	return &Cache{lru: expirable.NewLRU[string, *models.FileRecord](maxEntries, nil, DefaultTTL)}
}

// Get returns the cached record, or nil on a miss. A cached record whose
// expiry has passed counts as a miss and is dropped.
func (c *Cache) Get(id string) *models.FileRecord {
	record, ok := c.lru.Get(id)
	if !ok {
		return nil
	}
	if record.Expired(time.Now()) {
		c.lru.Remove(id)
		return nil
	}
	return record
}

// Put caches the record. Caching an already-expired record is a no-op.
func (c *Cache) Put(record *models.FileRecord) {
	if time.Until(record.ExpiresAt) <= 0 {
		return
	}
	c.lru.Add(record.ID, record)
}

// Invalidate removes the cached copy unconditionally.
func (c *Cache) Invalidate(id string) {
	c.lru.Remove(id)
}
