package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/vitrinelabs/vitrine/internal/httpserver/deps"
	"github.com/vitrinelabs/vitrine/internal/httpserver/handlers"
)

func init() { Register(registerCollections) }

func registerCollections(r chi.Router, d deps.Deps) {
	r.Route("/collections", func(r chi.Router) {
		r.Get("/", handlers.Collections(d))
		r.Post("/", handlers.CreateCollection(d))
		r.Get("/{id}", handlers.CollectionByID(d))
		r.Put("/{id}", handlers.RenameCollection(d))
		r.Delete("/{id}", handlers.DeleteCollection(d))
		r.Post("/{id}/showcases", handlers.AddCollectionMember(d))
		r.Delete("/{id}/showcases/{showcaseID}", handlers.RemoveCollectionMember(d))
	})
}
