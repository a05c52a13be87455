package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gradekeep/gradekeep/internal/gradebook"
)

// ListSystemsHandler returns the grading-system catalog, name-ordered.
func ListSystemsHandler(store gradebook.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		systems, err := store.ListSystems(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(systems)
	}
}

func GetSystemHandler(store gradebook.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sys, err := store.GetSystem(r.Context(), chi.URLParam(r, "systemID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(sys)
	}
}
