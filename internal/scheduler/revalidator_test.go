package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vitrinelabs/vitrine/internal/domain"
	"github.com/vitrinelabs/vitrine/internal/index"
	"github.com/vitrinelabs/vitrine/internal/logger"
	"github.com/vitrinelabs/vitrine/internal/sources/gallery"
)

func testLogger() logger.Logger {
	return logger.New("error", false)
}

func galleryPage(ids ...string) gallery.PageEnvelope {
	env := gallery.PageEnvelope{CurrentPage: 1, LastPage: 1}
	for _, id := range ids {
		env.Data = append(env.Data, gallery.ShowcaseDoc{ID: json.Number(id), Title: "t" + id})
	}
	return env
}

func newTestRevalidator(upstream string, listing *index.ListingCache) *Revalidator {
	fetcher := gallery.NewFetcher(gallery.NewClient(upstream, "", 0), 50)
	return NewRevalidator(fetcher, listing, nil, testLogger(), time.Hour, make(chan struct{}, 1))
}

func TestRevalidateReplacesListing(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(galleryPage("1", "2"))
	}))
	defer ts.Close()

	listing := index.NewListingCache()
	r := newTestRevalidator(ts.URL, listing)

	if err := r.Revalidate(context.Background()); err != nil {
		t.Fatalf("Revalidate() error = %v", err)
	}
	if listing.Count() != 2 {
		t.Errorf("listing Count() = %d, want 2", listing.Count())
	}
}

// Stale-while-revalidate: a failing pass must leave the existing listing
// untouched.
func TestRevalidateKeepsStaleListingOnFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	listing := index.NewListingCache()
	listing.Replace([]domain.ShowcaseRecord{{ID: "stale"}})
	r := newTestRevalidator(ts.URL, listing)

	err := r.Revalidate(context.Background())
	if err == nil {
		t.Fatal("Revalidate() expected error from failing upstream")
	}

	if listing.Count() != 1 {
		t.Errorf("listing Count() = %d after failed pass, want stale 1", listing.Count())
	}
	if rec, ok := listing.Get("stale"); !ok || rec.ID != "stale" {
		t.Error("stale record gone after failed revalidation")
	}
	if r.LastError() == nil {
		t.Error("LastError() = nil after failed pass")
	}
}

// Two revalidation requests overlapping in time must produce exactly one
// upstream run; the second is coalesced.
func TestRevalidateCoalescesConcurrentRequests(t *testing.T) {
	var requests int32
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		<-release
		_ = json.NewEncoder(w).Encode(galleryPage("1"))
	}))
	defer ts.Close()

	r := newTestRevalidator(ts.URL, index.NewListingCache())

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		firstErr = r.Revalidate(context.Background())
	}()

	// Wait until the first pass is inside the upstream call.
	for atomic.LoadInt32(&requests) == 0 {
		time.Sleep(time.Millisecond)
	}

	// The second call returns immediately, coalesced into the first.
	secondErr := r.Revalidate(context.Background())

	close(release)
	wg.Wait()

	if firstErr != nil {
		t.Errorf("first Revalidate() error = %v, want nil", firstErr)
	}
	if !errors.Is(secondErr, ErrRevalidationInFlight) {
		t.Errorf("second Revalidate() error = %v, want ErrRevalidationInFlight", secondErr)
	}
	if got := atomic.LoadInt32(&requests); got != 1 {
		t.Errorf("upstream saw %d requests, want exactly 1", got)
	}
}

// InFlight must be observable for the whole duration of a pass, not just
// while a trigger is pending, so callers can refuse a manual refresh
// instead of queueing a second upstream run.
func TestInFlightTracksRunningPass(t *testing.T) {
	var requests int32
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		<-release
		_ = json.NewEncoder(w).Encode(galleryPage("1"))
	}))
	defer ts.Close()

	r := newTestRevalidator(ts.URL, index.NewListingCache())

	if r.InFlight() {
		t.Error("InFlight() = true before any pass")
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = r.Revalidate(context.Background())
	}()

	for atomic.LoadInt32(&requests) == 0 {
		time.Sleep(time.Millisecond)
	}
	if !r.InFlight() {
		t.Error("InFlight() = false while a pass is inside the upstream call")
	}

	close(release)
	wg.Wait()

	if r.InFlight() {
		t.Error("InFlight() = true after the pass finished")
	}
}

func TestStartBlocksOnEmptyCache(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(galleryPage("1"))
	}))
	defer ts.Close()

	listing := index.NewListingCache()
	r := newTestRevalidator(ts.URL, listing)
	defer r.Stop()

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	// Blocking initial load: the cache is populated before Start returns.
	if listing.Count() != 1 {
		t.Errorf("listing Count() = %d right after Start(), want 1", listing.Count())
	}
}

func TestStartPropagatesFirstLoadFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer ts.Close()

	r := newTestRevalidator(ts.URL, index.NewListingCache())
	defer r.Stop()

	if err := r.Start(context.Background()); err == nil {
		t.Fatal("Start() with empty cache and failing upstream should return the first-load error")
	}
}

func TestStartServesWarmCacheImmediately(t *testing.T) {
	block := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
		_ = json.NewEncoder(w).Encode(galleryPage("new"))
	}))
	defer ts.Close()
	defer close(block)

	listing := index.NewListingCache()
	listing.Replace([]domain.ShowcaseRecord{{ID: "warm"}})
	r := newTestRevalidator(ts.URL, listing)
	defer r.Stop()

	done := make(chan error, 1)
	go func() { done <- r.Start(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start() error = %v", err)
		}
		// Start returned while the upstream is still blocked: warm data
		// kept serving, revalidation went to the background.
		if _, ok := listing.Get("warm"); !ok {
			t.Error("warm record should still be served")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start() blocked on background revalidation despite warm cache")
	}
}
