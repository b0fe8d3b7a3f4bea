package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/vitrinelabs/vitrine/internal/httpserver/deps"
	"github.com/vitrinelabs/vitrine/internal/httpserver/handlers"
)

func init() { Register(registerShowcases) }

func registerShowcases(r chi.Router, d deps.Deps) {
	r.Get("/showcases", handlers.Showcases(d))
	r.Get("/showcases/{id}", handlers.ShowcaseDetail(d))
}
