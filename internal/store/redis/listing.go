package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vitrinelabs/vitrine/internal/domain"
)

const (
	// ListingSafetyTTL bounds how long a persisted listing can serve.
	// The in-memory tier is refresh-driven with no expiry; this is the
	// conservative cap on the durable copy under a misbehaving or
	// unreachable gallery.
	ListingSafetyTTL = 30 * time.Minute

	// DetailTTL matches the in-memory detail cache freshness window.
	DetailTTL = 5 * time.Minute
)

// Store handles the durable cache tier in Redis.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// SaveListing persists the full listing, fully replacing the prior value.
// Both the payload and its writtenAt companion are written in one
// pipeline so a reader never sees one without the other for long.
func (s *Store) SaveListing(ctx context.Context, records []domain.ShowcaseRecord, writtenAt time.Time) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal listing: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, KeyListing, data, ListingSafetyTTL)
	pipe.Set(ctx, KeyListingWrittenAt, writtenAt.UTC().Format(time.RFC3339Nano), ListingSafetyTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save listing: %w", err)
	}
	return nil
}

// LoadListing returns the persisted listing and its write time.
// A miss returns ok=false with no error; that includes an absent or
// unreadable writtenAt, since a listing without a valid write time
// must not warm the in-memory tier.
func (s *Store) LoadListing(ctx context.Context) ([]domain.ShowcaseRecord, time.Time, bool, error) {
	data, err := s.client.Get(ctx, KeyListing).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, time.Time{}, false, nil
		}
		return nil, time.Time{}, false, fmt.Errorf("failed to load listing: %w", err)
	}

	raw, err := s.client.Get(ctx, KeyListingWrittenAt).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, time.Time{}, false, nil
		}
		return nil, time.Time{}, false, fmt.Errorf("failed to load listing timestamp: %w", err)
	}

	records, writtenAt, ok, err := decodeListing(data, raw)
	if err != nil {
		return nil, time.Time{}, false, err
	}
	return records, writtenAt, ok, nil
}

// decodeListing parses a persisted payload and its timestamp companion.
// A malformed payload is an error; a malformed timestamp is a miss.
func decodeListing(data []byte, rawWrittenAt string) ([]domain.ShowcaseRecord, time.Time, bool, error) {
	var records []domain.ShowcaseRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, time.Time{}, false, fmt.Errorf("failed to unmarshal listing: %w", err)
	}

	writtenAt, err := time.Parse(time.RFC3339Nano, rawWrittenAt)
	if err != nil {
		return nil, time.Time{}, false, nil
	}

	return records, writtenAt, true, nil
}

// InvalidateListing drops the persisted listing.
func (s *Store) InvalidateListing(ctx context.Context) error {
	if err := s.client.Del(ctx, KeyListing, KeyListingWrittenAt).Err(); err != nil {
		return fmt.Errorf("failed to invalidate listing: %w", err)
	}
	return nil
}

// Ping reports whether Redis answers. Used by the infra endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
