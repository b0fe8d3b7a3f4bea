package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/vitrinelabs/vitrine/internal/domain"
	"github.com/vitrinelabs/vitrine/internal/httpserver/deps"
)

type listingResponse struct {
	Data       []showcaseView `json:"data"`
	TotalCount int            `json:"total_count"`
	TotalPages int            `json:"total_pages"`
	Page       int            `json:"page"`
	PerPage    int            `json:"per_page"`
	SyncedAt   string         `json:"synced_at"`
}

// Showcases serves the filtered, sorted, paginated listing straight from
// the in-memory cache. It never touches the network: an empty cache means
// the initial sync has not completed yet and the endpoint answers 503.
func Showcases(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, syncedAt, ok := d.Listing.Snapshot()
		if !ok {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "listing not synced yet"})
			return
		}

		state := parseFilterState(r)
		page, perPage := parsePagination(r, d.PageSize)

		result := domain.Apply(records, state, page, perPage)

		writeJSON(w, http.StatusOK, listingResponse{
			Data:       toShowcaseViews(result.Records),
			TotalCount: result.TotalCount,
			TotalPages: result.TotalPages,
			Page:       page,
			PerPage:    perPage,
			SyncedAt:   formatTime(syncedAt),
		})
	}
}

func parseFilterState(r *http.Request) domain.FilterState {
	q := r.URL.Query()

	state := domain.DefaultFilterState()
	if primary := strings.TrimSpace(q.Get("primary")); primary != "" {
		state.PrimaryCategory = primary
	}
	state.Categories = splitMulti(q["categories"])
	state.Tags = splitMulti(q["tags"])
	state.Query = q.Get("q")
	state.Sort = domain.ParseSortKey(q.Get("sort"))
	return state
}

func parsePagination(r *http.Request, defaultPerPage int) (page, perPage int) {
	q := r.URL.Query()

	page = 1
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		page = v
	}

	perPage = defaultPerPage
	if v, err := strconv.Atoi(q.Get("per_page")); err == nil && v > 0 && v <= 100 {
		perPage = v
	}
	return page, perPage
}

// splitMulti accepts both repeated params (?tags=a&tags=b) and
// comma-separated values (?tags=a,b).
func splitMulti(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
