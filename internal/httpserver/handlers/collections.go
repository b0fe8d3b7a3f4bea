package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vitrinelabs/vitrine/internal/domain"
	"github.com/vitrinelabs/vitrine/internal/httpserver/deps"
)

type collectionsResponse struct {
	Data      []collectionView `json:"data"`
	LastError string           `json:"last_error,omitempty"`
}

type collectionResponse struct {
	Data      collectionView `json:"data"`
	LastError string         `json:"last_error,omitempty"`
}

type collectionNameBody struct {
	Name string `json:"name"`
}

type collectionMemberBody struct {
	ShowcaseID string `json:"showcase_id"`
}

func lastErrorString(d deps.Deps) string {
	if err := d.Collections.LastError(); err != nil {
		return err.Error()
	}
	return ""
}

// Collections lists the locally-known collections. last_error surfaces the
// most recent failed mutation so the front end can show a sync warning.
func Collections(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cols := d.Collections.Snapshot()
		views := make([]collectionView, 0, len(cols))
		for _, col := range cols {
			views = append(views, toCollectionView(d, col))
		}
		writeJSON(w, http.StatusOK, collectionsResponse{
			Data:      views,
			LastError: lastErrorString(d),
		})
	}
}

func CollectionByID(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		col, ok := d.Collections.Get(chi.URLParam(r, "id"))
		if !ok {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
			return
		}
		writeJSON(w, http.StatusOK, collectionResponse{Data: toCollectionView(d, col)})
	}
}

func CreateCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body collectionNameBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
			return
		}

		col, err := d.Collections.Create(r.Context(), body.Name)
		if err != nil {
			writeDomainError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, collectionResponse{Data: toCollectionView(d, col)})
	}
}

func RenameCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body collectionNameBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
			return
		}

		col, err := d.Collections.Rename(r.Context(), chi.URLParam(r, "id"), body.Name)
		if err != nil {
			writeDomainError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, collectionResponse{Data: toCollectionView(d, col)})
	}
}

func DeleteCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Collections.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeDomainError(w, d.Logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// AddCollectionMember attaches a showcase to a collection. The store applies
// the change optimistically, pushes it to the gallery and reconciles with a
// refetch before this handler returns, so the response already reflects the
// gallery's authoritative state. A transport failure is non-blocking: the
// store has already rolled back via the refetch, so the handler still
// answers 202 and surfaces the failure through last_error for the front
// end to render as a banner.
func AddCollectionMember(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body collectionMemberBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
			return
		}
		if body.ShowcaseID == "" {
			writeDomainError(w, d.Logger, &domain.ValidationError{Field: "showcase_id", Reason: "must not be empty"})
			return
		}

		id := chi.URLParam(r, "id")
		if err := d.Collections.AddMember(r.Context(), id, body.ShowcaseID); err != nil && !domain.IsTransport(err) {
			writeDomainError(w, d.Logger, err)
			return
		}
		respondWithCollection(w, d, id)
	}
}

func RemoveCollectionMember(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		showcaseID := chi.URLParam(r, "showcaseID")

		if err := d.Collections.RemoveMember(r.Context(), id, showcaseID); err != nil && !domain.IsTransport(err) {
			writeDomainError(w, d.Logger, err)
			return
		}
		respondWithCollection(w, d, id)
	}
}

// respondWithCollection answers an accepted membership mutation with the
// reconciled collection snapshot.
func respondWithCollection(w http.ResponseWriter, d deps.Deps, id string) {
	col, ok := d.Collections.Get(id)
	if !ok {
		// The reconciling refetch can reveal the collection was deleted remotely.
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}
	writeJSON(w, http.StatusAccepted, collectionResponse{
		Data:      toCollectionView(d, col),
		LastError: lastErrorString(d),
	})
}
