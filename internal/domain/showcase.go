package domain

import "time"

// ShowcaseRecord is the canonical runtime shape of a design submission.
//
// It is NOT tied to the gallery wire format, Redis or any other source.
// All inputs (remote API pages, cached copies) are normalized into this
// structure at the source boundary, and every downstream component
// consumes only this shape.
//
// A ShowcaseRecord is considered uniquely identified by its ID.
type ShowcaseRecord struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical unique identifier, stable across sessions.
	// It is assigned by the remote gallery and never changes locally.
	ID string

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	// Title of the submission.
	// Example: "Fintech Dashboard"
	Title string

	// Description is the free-form blurb shown under the title.
	Description string

	// Category is the single category name assigned by the gallery.
	// May be empty: uncategorized records are treated as "Websites"
	// by the filter engine.
	Category string

	// Tags is the ordered list of tag names attached to the record.
	Tags []string

	// ImageURL is the canonical reference to the preview image.
	ImageURL string

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	// CreatedAt is the server-side submission time.
	CreatedAt time.Time

	// ViewCount is the server-computed popularity counter.
	ViewCount int64
}

// ShowcaseDetail is a single record fetched through the detail endpoint,
// together with the gallery's similar-record suggestions.
type ShowcaseDetail struct {
	Record  ShowcaseRecord
	Similar []ShowcaseRecord
}
