package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vitrinelabs/vitrine/internal/index"
	"github.com/vitrinelabs/vitrine/internal/logger"
	"github.com/vitrinelabs/vitrine/internal/sources/gallery"
	redisstore "github.com/vitrinelabs/vitrine/internal/store/redis"
)

// ErrRevalidationInFlight is returned when a revalidation request is
// coalesced into one already running. Not a failure: the running pass's
// result supersedes anything a second pass would have produced.
var ErrRevalidationInFlight = errors.New("revalidation already in flight")

// Revalidator keeps the in-memory listing cache in sync with the gallery.
//
// Stale-while-revalidate is the contract: background passes replace the
// cache silently on success and leave it untouched on failure, so readers
// always see the last good listing and never an error flash. Only the
// blocking first load (empty cache) propagates its failure.
type Revalidator struct {
	fetcher       *gallery.Fetcher
	listing       *index.ListingCache
	store         *redisstore.Store
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}

	mu       sync.Mutex
	inFlight bool
	lastErr  error
}

// NewRevalidator creates a revalidator. store may be nil when the durable
// tier is disabled; manualTrigger feeds explicit refresh requests.
func NewRevalidator(
	fetcher *gallery.Fetcher,
	listing *index.ListingCache,
	store *redisstore.Store,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *Revalidator {
	return &Revalidator{
		fetcher:       fetcher,
		listing:       listing,
		store:         store,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start performs the initial load and begins the periodic refresh.
//
// With a warm cache (e.g. from the durable tier) the initial pass runs in
// the background and stale data serves immediately. With an empty cache
// the load blocks, and its error is returned so the caller can surface a
// true first-load failure; the periodic loop starts either way.
func (r *Revalidator) Start(ctx context.Context) error {
	var initialErr error
	if r.listing.Count() == 0 {
		initialErr = r.Revalidate(ctx)
		if initialErr != nil {
			initialErr = fmt.Errorf("initial listing load failed: %w", initialErr)
		}
	} else {
		go func() {
			if err := r.Revalidate(ctx); err != nil && !errors.Is(err, ErrRevalidationInFlight) {
				r.logger.Warn("startup revalidation failed, serving warm cache",
					logger.Error(err))
			}
		}()
	}

	ticker := time.NewTicker(r.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.background(ctx)
			case <-r.manualTrigger:
				r.logger.Info("manual revalidation triggered")
				r.background(ctx)
			case <-r.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return initialErr
}

// Stop stops the periodic refresh.
func (r *Revalidator) Stop() {
	close(r.stopCh)
}

// background runs one pass, swallowing every failure except for a log line.
func (r *Revalidator) background(ctx context.Context) {
	if err := r.Revalidate(ctx); err != nil && !errors.Is(err, ErrRevalidationInFlight) {
		r.logger.Error("background revalidation failed, keeping stale listing",
			logger.Error(err))
	}
}

// Revalidate runs one full fetch of the listing and atomically replaces
// the cache on success. At most one pass runs at a time; a call arriving
// while one is in flight returns ErrRevalidationInFlight without touching
// the network.
func (r *Revalidator) Revalidate(ctx context.Context) error {
	r.mu.Lock()
	if r.inFlight {
		r.mu.Unlock()
		return ErrRevalidationInFlight
	}
	r.inFlight = true
	r.mu.Unlock()

	err := r.run(ctx)

	r.mu.Lock()
	r.inFlight = false
	r.lastErr = err
	r.mu.Unlock()
	return err
}

func (r *Revalidator) run(ctx context.Context) error {
	started := time.Now()

	records, err := r.fetcher.FetchAll(ctx)
	if err != nil {
		return err
	}

	r.listing.Replace(records)
	r.logger.Info("listing revalidated",
		logger.Int("count", len(records)),
		logger.Duration("took", time.Since(started)))

	// Persist best effort; memory is the primary tier.
	if r.store != nil {
		if err := r.store.SaveListing(ctx, records, r.listing.WrittenAt()); err != nil {
			r.logger.Warn("failed to persist listing to redis",
				logger.Error(err))
		}
	}
	return nil
}

// InFlight reports whether a revalidation pass is currently running.
// Lets callers refuse a manual refresh instead of queueing a second run.
func (r *Revalidator) InFlight() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inFlight
}

// LastError returns the most recent pass's outcome (nil after success).
func (r *Revalidator) LastError() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}
