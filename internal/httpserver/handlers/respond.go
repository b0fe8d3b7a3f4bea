package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/vitrinelabs/vitrine/internal/domain"
	"github.com/vitrinelabs/vitrine/internal/httpserver/deps"
	"github.com/vitrinelabs/vitrine/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

type showcaseView struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags"`
	ImageURL    string   `json:"image_url,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty"`
	ViewCount   int64    `json:"view_count"`
}

type memberView struct {
	ShowcaseID string `json:"showcase_id"`
	AddedAt    string `json:"added_at,omitempty"`
}

type collectionView struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	MemberCount int            `json:"member_count"`
	Members     []memberView   `json:"members"`
	Showcases   []showcaseView `json:"showcases"`
	CreatedAt   string         `json:"created_at,omitempty"`
	UpdatedAt   string         `json:"updated_at,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeDomainError maps the error taxonomy onto HTTP statuses:
// invalid input -> 422, unknown resource -> 404, upstream failure -> 502.
func writeDomainError(w http.ResponseWriter, log logger.Logger, err error) {
	switch {
	case domain.IsValidation(err):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case domain.IsTransport(err):
		log.Warn("upstream gallery failure", logger.Error(err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "gallery unavailable"})
	default:
		log.Error("unexpected handler error", logger.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func toShowcaseView(rec domain.ShowcaseRecord) showcaseView {
	tags := rec.Tags
	if tags == nil {
		tags = []string{}
	}
	return showcaseView{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		Category:    rec.Category,
		Tags:        tags,
		ImageURL:    rec.ImageURL,
		CreatedAt:   formatTime(rec.CreatedAt),
		ViewCount:   rec.ViewCount,
	}
}

func toShowcaseViews(recs []domain.ShowcaseRecord) []showcaseView {
	out := make([]showcaseView, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toShowcaseView(rec))
	}
	return out
}

// toCollectionView renders a collection. Member refs are reported verbatim,
// but the resolved showcases list skips refs that no longer exist in the
// listing (the gallery may have deleted the record since the ref was made).
func toCollectionView(d deps.Deps, col domain.Collection) collectionView {
	members := make([]memberView, 0, len(col.Members))
	resolved := make([]showcaseView, 0, len(col.Members))
	for _, m := range col.Members {
		members = append(members, memberView{
			ShowcaseID: m.ShowcaseID,
			AddedAt:    formatTime(m.AddedAt),
		})
		if rec, ok := d.Listing.Get(m.ShowcaseID); ok {
			resolved = append(resolved, toShowcaseView(rec))
		}
	}
	return collectionView{
		ID:          col.ID,
		Name:        col.Name,
		MemberCount: col.MemberCount,
		Members:     members,
		Showcases:   resolved,
		CreatedAt:   formatTime(col.CreatedAt),
		UpdatedAt:   formatTime(col.UpdatedAt),
	}
}
