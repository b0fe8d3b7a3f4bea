package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vitrinelabs/vitrine/internal/domain"
)

// SaveDetail persists one record's detail under detail:{id} with its
// writtenAt companion, both expiring after DetailTTL.
func (s *Store) SaveDetail(ctx context.Context, id string, detail domain.ShowcaseDetail, writtenAt time.Time) error {
	data, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("failed to marshal detail %s: %w", id, err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, DetailKey(id), data, DetailTTL)
	pipe.Set(ctx, DetailWrittenAtKey(id), writtenAt.UTC().Format(time.RFC3339Nano), DetailTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save detail %s: %w", id, err)
	}
	return nil
}

// LoadDetail returns a persisted detail entry if present and still fresh.
// The writtenAt age is re-checked against DetailTTL even though Redis
// also expires the keys; an entry past the window is a miss.
func (s *Store) LoadDetail(ctx context.Context, id string, now time.Time) (domain.ShowcaseDetail, bool, error) {
	raw, err := s.client.Get(ctx, DetailWrittenAtKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.ShowcaseDetail{}, false, nil
		}
		return domain.ShowcaseDetail{}, false, fmt.Errorf("failed to load detail timestamp %s: %w", id, err)
	}

	writtenAt, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil || now.Sub(writtenAt) >= DetailTTL {
		return domain.ShowcaseDetail{}, false, nil
	}

	data, err := s.client.Get(ctx, DetailKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.ShowcaseDetail{}, false, nil
		}
		return domain.ShowcaseDetail{}, false, fmt.Errorf("failed to load detail %s: %w", id, err)
	}

	var detail domain.ShowcaseDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		return domain.ShowcaseDetail{}, false, fmt.Errorf("failed to unmarshal detail %s: %w", id, err)
	}
	return detail, true, nil
}

// InvalidateDetail drops one record's persisted detail.
func (s *Store) InvalidateDetail(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, DetailKey(id), DetailWrittenAtKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate detail %s: %w", id, err)
	}
	return nil
}

// SweepResult summarizes one janitor pass over the durable tier.
type SweepResult struct {
	ListingDropped int
	DetailsDropped int
}

// Sweep enforces the safety bounds: it drops a persisted listing whose
// writtenAt exceeds ListingSafetyTTL and removes detail pairs that are
// past DetailTTL or orphaned (timestamp without payload). Redis expiry
// normally handles both; the sweep covers entries written by older
// versions without an expiry and keeps the tier from serving beyond the
// safety window if expiry was lost (e.g. a restored dump).
func (s *Store) Sweep(ctx context.Context, now time.Time) (SweepResult, error) {
	var res SweepResult

	raw, err := s.client.Get(ctx, KeyListingWrittenAt).Result()
	if err == nil {
		writtenAt, perr := time.Parse(time.RFC3339Nano, raw)
		if perr != nil || now.Sub(writtenAt) >= ListingSafetyTTL {
			if err := s.InvalidateListing(ctx); err != nil {
				return res, err
			}
			res.ListingDropped = 1
		}
	} else if !errors.Is(err, redis.Nil) {
		return res, fmt.Errorf("failed to check listing age: %w", err)
	}

	iter := s.client.Scan(ctx, 0, KeyPrefixDetail+"*"+writtenAtSuffix, 0).Iterator()
	for iter.Next(ctx) {
		tsKey := iter.Val()
		id := strings.TrimSuffix(strings.TrimPrefix(tsKey, KeyPrefixDetail), writtenAtSuffix)

		raw, err := s.client.Get(ctx, tsKey).Result()
		if err != nil {
			continue // expired between scan and get
		}

		writtenAt, perr := time.Parse(time.RFC3339Nano, raw)
		stale := perr != nil || now.Sub(writtenAt) >= DetailTTL

		exists, err := s.client.Exists(ctx, DetailKey(id)).Result()
		orphaned := err == nil && exists == 0

		if stale || orphaned {
			if err := s.InvalidateDetail(ctx, id); err != nil {
				return res, err
			}
			res.DetailsDropped++
		}
	}
	if err := iter.Err(); err != nil {
		return res, fmt.Errorf("failed to scan detail keys: %w", err)
	}

	return res, nil
}
