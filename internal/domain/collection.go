package domain

import "time"

// MemberRef is one showcase reference held by a collection.
// It references a ShowcaseRecord by value (its ID), never by ownership:
// a deleted showcase leaves a dangling ref that readers must filter out.
type MemberRef struct {
	// ShowcaseID is the referenced record's canonical ID.
	ShowcaseID string

	// AddedAt is when the member was attached. Zero for optimistic
	// placeholders that have not been confirmed by the gallery yet.
	AddedAt time.Time
}

// Collection is a user-owned named group of showcase references.
//
// The gallery is the system of record: MemberCount and the full member
// objects are server-computed, and local optimistic copies only exist to
// mask one round-trip of latency before a reconciling refetch.
type Collection struct {
	// ID is assigned by the gallery on creation. A deleted collection's
	// ID is never reused; re-creating yields a new one.
	ID string

	// Name is the user-chosen label. Invariant: non-empty after trimming,
	// enforced before any network call.
	Name string

	// Members holds the ordered member references.
	Members []MemberRef

	// MemberCount is the gallery's denormalized count. It can disagree
	// with len(Members) while an optimistic mutation is in flight.
	MemberCount int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasMember reports whether the collection currently references the showcase.
func (c *Collection) HasMember(showcaseID string) bool {
	for _, m := range c.Members {
		if m.ShowcaseID == showcaseID {
			return true
		}
	}
	return false
}
