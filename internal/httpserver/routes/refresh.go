package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/vitrinelabs/vitrine/internal/httpserver/deps"
	"github.com/vitrinelabs/vitrine/internal/httpserver/handlers"
	"github.com/vitrinelabs/vitrine/internal/httpserver/mw"
)

func init() { Register(registerRefresh) }

func registerRefresh(r chi.Router, d deps.Deps) {
	r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)).Post("/refresh", handlers.Refresh(d))
}
