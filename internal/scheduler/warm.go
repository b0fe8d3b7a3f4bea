package scheduler

import (
	"context"

	"github.com/vitrinelabs/vitrine/internal/index"
	"github.com/vitrinelabs/vitrine/internal/logger"
	redisstore "github.com/vitrinelabs/vitrine/internal/store/redis"
)

// RedisWarmer loads the persisted listing into the memory cache on
// startup, so a restart serves immediately while the first revalidation
// runs in the background.
type RedisWarmer struct {
	store   *redisstore.Store
	listing *index.ListingCache
	logger  logger.Logger
}

// NewRedisWarmer creates a new warmer.
func NewRedisWarmer(store *redisstore.Store, listing *index.ListingCache, log logger.Logger) *RedisWarmer {
	return &RedisWarmer{store: store, listing: listing, logger: log}
}

// Warm loads the persisted listing, preserving its original write time.
// A miss is not an error; the caller falls back to a blocking first load.
func (w *RedisWarmer) Warm(ctx context.Context) error {
	w.logger.Info("warming listing cache from redis")

	records, writtenAt, ok, err := w.store.LoadListing(ctx)
	if err != nil {
		return err
	}
	if !ok {
		w.logger.Info("no persisted listing in redis")
		return nil
	}

	w.listing.ReplaceAt(records, writtenAt)

	w.logger.Info("warmed listing cache from redis",
		logger.Int("count", len(records)))
	return nil
}
