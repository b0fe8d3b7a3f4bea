package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/vitrinelabs/vitrine/internal/httpserver/deps"
)

type componentStatus struct {
	OK            bool   `json:"ok"`
	RecordsLoaded *int   `json:"records_loaded,omitempty"`
	LastSync      string `json:"last_sync,omitempty"`
	Mode          string `json:"mode,omitempty"`
	Impact        string `json:"impact,omitempty"`
	Error         string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the health of each data tier for operators.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recordCount := d.Listing.Count()
		lastSync := "never"
		if t := d.Listing.WrittenAt(); !t.IsZero() {
			lastSync = t.Format("2006-01-02 15:04:05")
		}

		collectionCount := len(d.Collections.Snapshot())
		collectionsStatus := componentStatus{OK: true, RecordsLoaded: &collectionCount}
		if err := d.Collections.LastError(); err != nil {
			collectionsStatus.OK = false
			collectionsStatus.Error = err.Error()
		}

		components := map[string]componentStatus{
			"listing": {
				OK:            recordCount > 0,
				RecordsLoaded: &recordCount,
				LastSync:      lastSync,
			},
			"redis":       checkRedis(d),
			"collections": collectionsStatus,
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func determineMode(components map[string]componentStatus) string {
	// An empty listing means nothing can be served at all.
	if listing, exists := components["listing"]; exists && !listing.OK {
		return "critical"
	}

	// Redis down only costs durability across restarts.
	if rd, exists := components["redis"]; exists && !rd.OK {
		return "degraded"
	}

	return "optimal"
}

func checkRedis(d deps.Deps) componentStatus {
	if d.Store == nil {
		return componentStatus{
			OK:     false,
			Mode:   "disabled",
			Impact: "no-durable-cache",
			Error:  "store not configured",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.Store.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "no-durable-cache",
			Error:  err.Error(),
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "durable-cache-enabled",
	}
}
