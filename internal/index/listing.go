package index

import (
	"sync"
	"time"

	"github.com/vitrinelabs/vitrine/internal/domain"
)

// ListingCache is the process-scoped cache of the full showcase listing.
//
// It has no automatic expiry: the revalidator refreshes it opportunistically
// and stale data keeps serving until a newer write or an explicit
// invalidation. Writes are atomic whole-value replacements, so readers
// never observe a partially-updated listing.
type ListingCache struct {
	mu        sync.RWMutex
	records   []domain.ShowcaseRecord
	byID      map[string]int // ID -> position in records
	writtenAt time.Time
}

// NewListingCache creates an empty listing cache.
func NewListingCache() *ListingCache {
	return &ListingCache{byID: make(map[string]int)}
}

// Replace swaps in a new full listing stamped with the current time.
func (c *ListingCache) Replace(records []domain.ShowcaseRecord) {
	c.ReplaceAt(records, time.Now())
}

// ReplaceAt swaps in a new full listing with an explicit write time.
// Used when warming from the durable tier, where the original write time
// must be preserved rather than re-stamped.
func (c *ListingCache) ReplaceAt(records []domain.ShowcaseRecord, writtenAt time.Time) {
	byID := make(map[string]int, len(records))
	for i, rec := range records {
		byID[rec.ID] = i
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = records
	c.byID = byID
	c.writtenAt = writtenAt
}

// Snapshot returns the cached listing and its write time.
// ok is false when nothing has been written yet (or after Invalidate).
// The returned slice must be treated as read-only; it is shared with the
// cache and with other readers.
func (c *ListingCache) Snapshot() (records []domain.ShowcaseRecord, writtenAt time.Time, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.writtenAt.IsZero() {
		return nil, time.Time{}, false
	}
	return c.records, c.writtenAt, true
}

// Get looks up a single record by ID in the cached listing.
func (c *ListingCache) Get(id string) (domain.ShowcaseRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byID[id]
	if !ok {
		return domain.ShowcaseRecord{}, false
	}
	return c.records[i], true
}

// Invalidate drops the cached listing entirely.
func (c *ListingCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = nil
	c.byID = make(map[string]int)
	c.writtenAt = time.Time{}
}

// Count returns the number of cached records.
func (c *ListingCache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// WrittenAt returns the time of the last successful write.
func (c *ListingCache) WrittenAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.writtenAt
}
