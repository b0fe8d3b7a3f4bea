package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vitrinelabs/vitrine/internal/httpserver/deps"
	"github.com/vitrinelabs/vitrine/internal/logger"
	"github.com/vitrinelabs/vitrine/internal/sources/gallery"
)

type detailResponse struct {
	Data    showcaseView   `json:"data"`
	Similar []showcaseView `json:"similar"`
	Source  string         `json:"source"`
}

// ShowcaseDetail resolves one record through the tiered caches:
// in-memory first, then the durable tier, then the gallery API.
// A network fetch repopulates both cache tiers.
func ShowcaseDetail(d deps.Deps) http.HandlerFunc {
	mapper := gallery.NewMapper()
	now := d.TimeNow
	if now == nil {
		now = time.Now
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := chi.URLParam(r, "id")

		if detail, ok := d.DetailCache.Read(id); ok {
			writeJSON(w, http.StatusOK, detailResponse{
				Data:    toShowcaseView(detail.Record),
				Similar: toShowcaseViews(detail.Similar),
				Source:  "memory",
			})
			return
		}

		if d.Store != nil {
			detail, ok, err := d.Store.LoadDetail(ctx, id, now())
			if err != nil {
				d.Logger.Warn("detail load from redis failed", logger.String("id", id), logger.Error(err))
			}
			if ok {
				d.DetailCache.Write(id, detail)
				writeJSON(w, http.StatusOK, detailResponse{
					Data:    toShowcaseView(detail.Record),
					Similar: toShowcaseViews(detail.Similar),
					Source:  "redis",
				})
				return
			}
		}

		env, err := d.Gallery.GetShowcase(ctx, id)
		if err != nil {
			writeDomainError(w, d.Logger, err)
			return
		}
		detail := mapper.MapDetail(env)

		d.DetailCache.Write(id, detail)
		if d.Store != nil {
			if err := d.Store.SaveDetail(ctx, id, detail, now()); err != nil {
				d.Logger.Warn("detail save to redis failed", logger.String("id", id), logger.Error(err))
			}
		}

		writeJSON(w, http.StatusOK, detailResponse{
			Data:    toShowcaseView(detail.Record),
			Similar: toShowcaseViews(detail.Similar),
			Source:  "gallery",
		})
	}
}
