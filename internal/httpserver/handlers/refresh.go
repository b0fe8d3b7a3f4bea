package handlers

import (
	"net/http"

	"github.com/vitrinelabs/vitrine/internal/httpserver/deps"
	"github.com/vitrinelabs/vitrine/internal/logger"
)

type refreshResponse struct {
	Triggered bool   `json:"triggered"`
	Detail    string `json:"detail"`
}

// Refresh asks the revalidator for an immediate listing sync. A request
// arriving while a pass is queued (trigger channel full) or already
// running (SyncInFlight) is coalesced into that pass and answered 429.
func Refresh(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.SyncInFlight != nil && d.SyncInFlight() {
			d.Logger.Warn("listing refresh already in progress",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusTooManyRequests, refreshResponse{
				Triggered: false,
				Detail:    "refresh already in progress",
			})
			return
		}

		select {
		case d.RefreshTrigger <- struct{}{}:
			d.Logger.Info("manual listing refresh triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusAccepted, refreshResponse{
				Triggered: true,
				Detail:    "refresh scheduled",
			})
		default:
			d.Logger.Warn("listing refresh already in progress",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusTooManyRequests, refreshResponse{
				Triggered: false,
				Detail:    "refresh already in progress",
			})
		}
	}
}
