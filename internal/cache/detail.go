package cache

import (
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/vitrinelabs/vitrine/internal/domain"
)

// DefaultDetailTTL is how long a cached showcase detail stays fresh.
const DefaultDetailTTL = 5 * time.Minute

type detailEntry struct {
	detail    domain.ShowcaseDetail
	writtenAt time.Time
}

// DetailCache is the session-scoped per-record detail cache.
//
// Entries expire after the TTL; an entry older than the TTL is treated as
// absent even if eviction has not run yet, so freshness is re-checked
// against the write timestamp on every read. Reads never touch the
// network and never extend an entry's life.
type DetailCache struct {
	ttl   time.Duration
	now   func() time.Time
	cache *ttlcache.Cache[string, detailEntry]
}

// NewDetailCache creates a detail cache with the given TTL.
// now is injectable for tests; pass nil for time.Now.
func NewDetailCache(ttl time.Duration, now func() time.Time) *DetailCache {
	if ttl <= 0 {
		ttl = DefaultDetailTTL
	}
	if now == nil {
		now = time.Now
	}

	c := ttlcache.New[string, detailEntry](
		ttlcache.WithTTL[string, detailEntry](ttl),
		ttlcache.WithDisableTouchOnHit[string, detailEntry](),
	)
	go c.Start() // automatic expired-item eviction loop

	return &DetailCache{ttl: ttl, now: now, cache: c}
}

// Write stores the detail for a record, replacing any prior entry.
func (c *DetailCache) Write(id string, detail domain.ShowcaseDetail) {
	c.cache.Set(id, detailEntry{detail: detail, writtenAt: c.now()}, c.ttl)
}

// Read returns a fresh cached detail, or ok=false when the entry is
// absent or older than the TTL.
func (c *DetailCache) Read(id string) (domain.ShowcaseDetail, bool) {
	item := c.cache.Get(id)
	if item == nil {
		return domain.ShowcaseDetail{}, false
	}
	entry := item.Value()
	if c.now().Sub(entry.writtenAt) >= c.ttl {
		return domain.ShowcaseDetail{}, false
	}
	return entry.detail, true
}

// Invalidate removes a record's cached detail.
func (c *DetailCache) Invalidate(id string) {
	c.cache.Delete(id)
}

// Stop halts the eviction loop.
func (c *DetailCache) Stop() {
	c.cache.Stop()
}
