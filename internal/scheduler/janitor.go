package scheduler

import (
	"context"
	"time"

	"github.com/vitrinelabs/vitrine/internal/logger"
	redisstore "github.com/vitrinelabs/vitrine/internal/store/redis"
)

// Janitor periodically sweeps the durable cache tier, dropping a
// persisted listing past its safety TTL and stale or orphaned detail
// entries. Redis expiry does most of this on its own; the janitor is the
// backstop for entries that lost their expiry (older writers, restored
// dumps).
type Janitor struct {
	store    *redisstore.Store
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewJanitor creates a new cache janitor.
func NewJanitor(store *redisstore.Store, log logger.Logger, interval time.Duration) *Janitor {
	return &Janitor{
		store:    store,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic sweep.
func (j *Janitor) Start(ctx context.Context) error {
	// Run immediately on start.
	j.sweep(ctx)

	ticker := time.NewTicker(j.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				j.sweep(ctx)
			case <-j.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the janitor.
func (j *Janitor) Stop() {
	close(j.stopCh)
}

func (j *Janitor) sweep(ctx context.Context) {
	res, err := j.store.Sweep(ctx, time.Now())
	if err != nil {
		j.logger.Warn("cache sweep failed", logger.Error(err))
		return
	}

	if res.ListingDropped > 0 || res.DetailsDropped > 0 {
		j.logger.Info("cache sweep completed",
			logger.Int("listing_dropped", res.ListingDropped),
			logger.Int("details_dropped", res.DetailsDropped))
	} else {
		j.logger.Debug("cache sweep found nothing to drop")
	}
}
