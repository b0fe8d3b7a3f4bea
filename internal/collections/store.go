package collections

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/vitrinelabs/vitrine/internal/domain"
	"github.com/vitrinelabs/vitrine/internal/logger"
)

// Remote is the slice of the gallery API the store depends on.
// *gallery.Collections satisfies it; tests substitute fakes.
type Remote interface {
	List(ctx context.Context) ([]domain.Collection, error)
	Create(ctx context.Context, name string) (domain.Collection, error)
	Rename(ctx context.Context, id, name string) (domain.Collection, error)
	Delete(ctx context.Context, id string) error
	AddShowcase(ctx context.Context, collectionID, showcaseID string) error
	RemoveShowcase(ctx context.Context, collectionID, showcaseID string) error
}

// Store holds the user's collections and mutates them against the gallery.
//
// Membership mutations are optimistic: the local patch lands before the
// network call so the UI never waits, and a reconciling refetch restores
// ground truth afterwards. On success the server supplies fields the patch
// cannot compute (denormalized counts, full member objects); on failure
// the refetch is the rollback. The optimistic shape is never the system
// of record beyond one round-trip.
//
// Mutations against the same collection ID are serialized; different IDs
// proceed independently.
type Store struct {
	remote Remote
	logger logger.Logger

	mu          sync.RWMutex
	collections []domain.Collection
	lastErr     error

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewStore creates an empty store. Call Refresh to populate it.
func NewStore(remote Remote, log logger.Logger) *Store {
	return &Store{
		remote: remote,
		logger: log,
		locks:  make(map[string]*sync.Mutex),
	}
}

// Refresh refetches every collection and wholesale-replaces local state.
func (s *Store) Refresh(ctx context.Context) error {
	fetched, err := s.remote.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh collections: %w", err)
	}

	s.mu.Lock()
	s.collections = fetched
	s.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the current collections, optimistic patches
// included.
func (s *Store) Snapshot() []domain.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Collection, len(s.collections))
	for i, col := range s.collections {
		out[i] = col
		out[i].Members = append([]domain.MemberRef(nil), col.Members...)
	}
	return out
}

// Get returns one collection by ID.
func (s *Store) Get(id string) (domain.Collection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, col := range s.collections {
		if col.ID == id {
			col.Members = append([]domain.MemberRef(nil), col.Members...)
			return col, true
		}
	}
	return domain.Collection{}, false
}

// LastError returns the most recent membership-mutation failure, nil
// after a mutation succeeds. Non-fatal by contract: callers render it as
// a banner, not an error state.
func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Create makes a new empty collection. Not optimistic: no ID exists to
// reference until the server acks, so the entity appears only then.
func (s *Store) Create(ctx context.Context, name string) (domain.Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Collection{}, &domain.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	created, err := s.remote.Create(ctx, name)
	if err != nil {
		return domain.Collection{}, fmt.Errorf("failed to create collection: %w", err)
	}

	s.mu.Lock()
	s.collections = append([]domain.Collection{created}, s.collections...)
	s.mu.Unlock()

	s.logger.Info("collection created",
		logger.String("collection_id", created.ID),
		logger.String("name", created.Name))
	return created, nil
}

// Rename renames a collection. The server's response wholesale-replaces
// the local entity so server-computed fields stay consistent.
func (s *Store) Rename(ctx context.Context, id, name string) (domain.Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Collection{}, &domain.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	unlock := s.lockCollection(id)
	defer unlock()

	updated, err := s.remote.Rename(ctx, id, name)
	if err != nil {
		return domain.Collection{}, fmt.Errorf("failed to rename collection %s: %w", id, err)
	}

	s.mu.Lock()
	for i := range s.collections {
		if s.collections[i].ID == id {
			s.collections[i] = updated
			break
		}
	}
	s.mu.Unlock()

	return updated, nil
}

// Delete removes a collection. Not optimistic: local removal only happens
// after the server ack, so no rollback is ever needed.
func (s *Store) Delete(ctx context.Context, id string) error {
	unlock := s.lockCollection(id)
	defer unlock()

	if err := s.remote.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete collection %s: %w", id, err)
	}

	s.mu.Lock()
	kept := s.collections[:0]
	for _, col := range s.collections {
		if col.ID != id {
			kept = append(kept, col)
		}
	}
	s.collections = kept
	s.mu.Unlock()

	s.logger.Info("collection deleted", logger.String("collection_id", id))
	return nil
}

// AddMember optimistically attaches a showcase, then reconciles.
func (s *Store) AddMember(ctx context.Context, collectionID, showcaseID string) error {
	unlock := s.lockCollection(collectionID)
	defer unlock()

	s.patch(collectionID, func(col *domain.Collection) {
		if col.HasMember(showcaseID) {
			return
		}
		col.Members = append(col.Members, domain.MemberRef{ShowcaseID: showcaseID})
		col.MemberCount++
	})

	err := s.remote.AddShowcase(ctx, collectionID, showcaseID)
	return s.reconcile(ctx, "add member", collectionID, err)
}

// RemoveMember optimistically detaches a showcase, then reconciles.
func (s *Store) RemoveMember(ctx context.Context, collectionID, showcaseID string) error {
	unlock := s.lockCollection(collectionID)
	defer unlock()

	s.patch(collectionID, func(col *domain.Collection) {
		kept := col.Members[:0]
		for _, m := range col.Members {
			if m.ShowcaseID != showcaseID {
				kept = append(kept, m)
			}
		}
		col.Members = kept
		if col.MemberCount > 0 {
			col.MemberCount--
		}
	})

	err := s.remote.RemoveShowcase(ctx, collectionID, showcaseID)
	return s.reconcile(ctx, "remove member", collectionID, err)
}

// patch applies an optimistic in-place mutation to one collection.
func (s *Store) patch(id string, fn func(*domain.Collection)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.collections {
		if s.collections[i].ID == id {
			// Detach the member slice so snapshots taken before the
			// patch stay stable.
			s.collections[i].Members = append([]domain.MemberRef(nil), s.collections[i].Members...)
			fn(&s.collections[i])
			return
		}
	}
}

// reconcile refetches ground truth after a membership call and records
// the mutation outcome. The refetch runs on success AND on failure:
// success because server-computed fields supersede the optimistic patch,
// failure because the refetch is the rollback.
func (s *Store) reconcile(ctx context.Context, op, collectionID string, mutErr error) error {
	if err := s.Refresh(ctx); err != nil {
		// The optimistic patch is now unconfirmed either way; keep it
		// and let the next refresh settle things.
		s.logger.Warn("reconciling refetch failed",
			logger.String("op", op),
			logger.String("collection_id", collectionID),
			logger.Error(err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if mutErr != nil {
		s.lastErr = fmt.Errorf("failed to %s on collection %s: %w", op, collectionID, mutErr)
		s.logger.Warn("membership mutation rolled back",
			logger.String("op", op),
			logger.String("collection_id", collectionID),
			logger.Error(mutErr))
		return s.lastErr
	}
	s.lastErr = nil
	return nil
}

// lockCollection serializes mutations per collection ID.
func (s *Store) lockCollection(id string) func() {
	s.locksMu.Lock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	s.locksMu.Unlock()

	lock.Lock()
	return lock.Unlock
}
