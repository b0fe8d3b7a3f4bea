package cache

import (
	"testing"
	"time"

	"github.com/vitrinelabs/vitrine/internal/domain"
)

func detail(id, title string) domain.ShowcaseDetail {
	return domain.ShowcaseDetail{Record: domain.ShowcaseRecord{ID: id, Title: title}}
}

func TestDetailCacheReadWrite(t *testing.T) {
	c := NewDetailCache(DefaultDetailTTL, nil)
	defer c.Stop()

	c.Write("42", detail("42", "cached"))

	got, ok := c.Read("42")
	if !ok || got.Record.Title != "cached" {
		t.Errorf("Read(42) = %+v %v, want cached/true", got.Record, ok)
	}
	if _, ok := c.Read("absent"); ok {
		t.Error("Read(absent) = true, want miss")
	}
}

// Freshness boundary: one millisecond under the TTL is fresh, one over is
// treated as absent.
func TestDetailCacheTTLBoundary(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := base
	c := NewDetailCache(5*time.Minute, func() time.Time { return now })
	defer c.Stop()

	c.Write("42", detail("42", "fresh"))

	now = base.Add(5*time.Minute - time.Millisecond)
	if _, ok := c.Read("42"); !ok {
		t.Error("Read() at TTL-1ms = miss, want fresh")
	}

	now = base.Add(5*time.Minute + time.Millisecond)
	if _, ok := c.Read("42"); ok {
		t.Error("Read() at TTL+1ms = hit, want absent")
	}
}

func TestDetailCacheWriteReplaces(t *testing.T) {
	c := NewDetailCache(DefaultDetailTTL, nil)
	defer c.Stop()

	c.Write("42", detail("42", "old"))
	c.Write("42", detail("42", "new"))

	got, ok := c.Read("42")
	if !ok || got.Record.Title != "new" {
		t.Errorf("Read(42) = %+v, want the replacing write", got.Record)
	}
}

func TestDetailCacheInvalidate(t *testing.T) {
	c := NewDetailCache(DefaultDetailTTL, nil)
	defer c.Stop()

	c.Write("42", detail("42", "x"))
	c.Invalidate("42")

	if _, ok := c.Read("42"); ok {
		t.Error("Read() after Invalidate() = hit, want miss")
	}
}

// A rewrite resets the freshness window from the new write time.
func TestDetailCacheRewriteResetsTTL(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := base
	c := NewDetailCache(5*time.Minute, func() time.Time { return now })
	defer c.Stop()

	c.Write("42", detail("42", "v1"))
	now = base.Add(4 * time.Minute)
	c.Write("42", detail("42", "v2"))

	now = base.Add(8 * time.Minute)
	if got, ok := c.Read("42"); !ok || got.Record.Title != "v2" {
		t.Errorf("Read() = %v/%v, want v2 still fresh 4m after rewrite", got.Record.Title, ok)
	}
}
