package gallery

import (
	"time"

	"github.com/vitrinelabs/vitrine/internal/domain"
)

// Mapper converts gallery wire documents to canonical domain entities.
// This is the single normalization point: snake_case, nullable category,
// numeric IDs and the two image spellings all get resolved here, and
// downstream code only ever sees the canonical shape.
type Mapper struct{}

// NewMapper creates a new mapper instance.
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapShowcase converts one wire record.
func (m *Mapper) MapShowcase(doc ShowcaseDoc) domain.ShowcaseRecord {
	rec := domain.ShowcaseRecord{
		ID:          doc.ID.String(),
		Title:       doc.Title,
		Description: doc.Description,
		ViewCount:   doc.ViewsCount,
		CreatedAt:   parseTime(doc.CreatedAt),
	}

	if doc.Category != nil {
		rec.Category = doc.Category.Name
	}

	if len(doc.Tags) > 0 {
		rec.Tags = make([]string, 0, len(doc.Tags))
		for _, tag := range doc.Tags {
			if tag.Name != "" {
				rec.Tags = append(rec.Tags, tag.Name)
			}
		}
	}

	// Some endpoints nest the image, others flatten it.
	if doc.Image != nil && doc.Image.URL != "" {
		rec.ImageURL = doc.Image.URL
	} else {
		rec.ImageURL = doc.ImageURL
	}

	return rec
}

// MapShowcases converts a wire page worth of records, dropping entries
// without an ID (the gallery occasionally emits placeholder rows).
func (m *Mapper) MapShowcases(docs []ShowcaseDoc) []domain.ShowcaseRecord {
	records := make([]domain.ShowcaseRecord, 0, len(docs))
	for _, doc := range docs {
		if doc.ID.String() == "" {
			continue
		}
		records = append(records, m.MapShowcase(doc))
	}
	return records
}

// MapDetail converts a detail envelope.
func (m *Mapper) MapDetail(env *DetailEnvelope) domain.ShowcaseDetail {
	return domain.ShowcaseDetail{
		Record:  m.MapShowcase(env.Data),
		Similar: m.MapShowcases(env.Similar),
	}
}

// MapCollection converts one wire collection.
func (m *Mapper) MapCollection(doc CollectionDoc) domain.Collection {
	col := domain.Collection{
		ID:          doc.ID.String(),
		Name:        doc.Name,
		MemberCount: doc.ShowcasesCount,
		CreatedAt:   parseTime(doc.CreatedAt),
		UpdatedAt:   parseTime(doc.UpdatedAt),
	}

	if len(doc.Showcases) > 0 {
		col.Members = make([]domain.MemberRef, 0, len(doc.Showcases))
		for _, member := range doc.Showcases {
			if member.ID.String() == "" {
				continue
			}
			col.Members = append(col.Members, domain.MemberRef{
				ShowcaseID: member.ID.String(),
				AddedAt:    parseTime(member.AddedAt),
			})
		}
	}

	return col
}

// MapCollections converts a wire collections listing.
func (m *Mapper) MapCollections(docs []CollectionDoc) []domain.Collection {
	collections := make([]domain.Collection, 0, len(docs))
	for _, doc := range docs {
		collections = append(collections, m.MapCollection(doc))
	}
	return collections
}

// parseTime accepts the gallery's RFC3339 timestamps, falling back to the
// zero time on anything unparseable rather than failing the whole page.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t
	}
	return time.Time{}
}
