package gallery

import "encoding/json"

// Wire types for the gallery API. The remote speaks snake_case JSON with
// loosely-typed, sometimes-missing fields; nothing outside this package
// sees these shapes. The mapper projects them onto the canonical domain
// structures.

// PageEnvelope is the paginated listing response.
type PageEnvelope struct {
	Data        []ShowcaseDoc `json:"data"`
	CurrentPage int           `json:"current_page"`
	LastPage    int           `json:"last_page"`
}

// DetailEnvelope is the single-record response.
type DetailEnvelope struct {
	Data    ShowcaseDoc   `json:"data"`
	Similar []ShowcaseDoc `json:"similar"`
}

// CollectionsEnvelope wraps the collections listing.
type CollectionsEnvelope struct {
	Data []CollectionDoc `json:"data"`
}

// CollectionEnvelope wraps a single collection (create/rename responses).
type CollectionEnvelope struct {
	Data CollectionDoc `json:"data"`
}

// ShowcaseDoc is one showcase record on the wire.
// IDs arrive as numbers, category may be null, and the image reference
// shows up either nested or flattened depending on the endpoint.
type ShowcaseDoc struct {
	ID          json.Number  `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Category    *CategoryDoc `json:"category"`
	Tags        []TagDoc     `json:"tags"`
	Image       *ImageDoc    `json:"image"`
	ImageURL    string       `json:"image_url"`
	CreatedAt   string       `json:"created_at"`
	ViewsCount  int64        `json:"views_count"`
}

// CategoryDoc is a category reference.
type CategoryDoc struct {
	Name string `json:"name"`
}

// TagDoc is a tag reference.
type TagDoc struct {
	Name string `json:"name"`
}

// ImageDoc is a nested image reference.
type ImageDoc struct {
	URL string `json:"url"`
}

// CollectionDoc is one user collection on the wire.
// ShowcasesCount is the server's denormalized member count and stays
// authoritative over len(Showcases).
type CollectionDoc struct {
	ID             json.Number `json:"id"`
	Name           string      `json:"name"`
	ShowcasesCount int         `json:"showcases_count"`
	Showcases      []MemberDoc `json:"showcases"`
	CreatedAt      string      `json:"created_at"`
	UpdatedAt      string      `json:"updated_at"`
}

// MemberDoc is one member reference inside a collection.
type MemberDoc struct {
	ID      json.Number `json:"id"`
	AddedAt string      `json:"added_at"`
}

// createCollectionRequest is the create/rename body.
type collectionNameRequest struct {
	Name string `json:"name"`
}

// addShowcaseRequest is the add-member body.
type addShowcaseRequest struct {
	ShowcaseID string `json:"showcase_id"`
}
