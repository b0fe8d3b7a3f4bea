package gallery

import (
	"context"

	"github.com/vitrinelabs/vitrine/internal/domain"
)

// Collections exposes the gallery's collection endpoints in canonical
// domain shapes, so the membership store never touches wire documents.
type Collections struct {
	client *Client
	mapper *Mapper
}

// NewCollections creates the collections facade over a client.
func NewCollections(client *Client) *Collections {
	return &Collections{client: client, mapper: NewMapper()}
}

// List fetches all collections owned by the authenticated user.
func (c *Collections) List(ctx context.Context) ([]domain.Collection, error) {
	docs, err := c.client.ListCollections(ctx)
	if err != nil {
		return nil, err
	}
	return c.mapper.MapCollections(docs), nil
}

// Create creates a named empty collection.
func (c *Collections) Create(ctx context.Context, name string) (domain.Collection, error) {
	doc, err := c.client.CreateCollection(ctx, name)
	if err != nil {
		return domain.Collection{}, err
	}
	return c.mapper.MapCollection(*doc), nil
}

// Rename renames a collection, returning the full updated entity.
func (c *Collections) Rename(ctx context.Context, id, name string) (domain.Collection, error) {
	doc, err := c.client.RenameCollection(ctx, id, name)
	if err != nil {
		return domain.Collection{}, err
	}
	return c.mapper.MapCollection(*doc), nil
}

// Delete removes a collection.
func (c *Collections) Delete(ctx context.Context, id string) error {
	return c.client.DeleteCollection(ctx, id)
}

// AddShowcase attaches a showcase to a collection.
func (c *Collections) AddShowcase(ctx context.Context, collectionID, showcaseID string) error {
	return c.client.AddCollectionShowcase(ctx, collectionID, showcaseID)
}

// RemoveShowcase detaches a showcase from a collection.
func (c *Collections) RemoveShowcase(ctx context.Context, collectionID, showcaseID string) error {
	return c.client.RemoveCollectionShowcase(ctx, collectionID, showcaseID)
}
