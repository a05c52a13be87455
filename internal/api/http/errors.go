package http

import (
	"errors"
	"net/http"

	"github.com/gradekeep/gradekeep/internal/gradebook"
	"github.com/gradekeep/gradekeep/internal/grading"
)

// writeErr maps engine sentinels onto HTTP statuses. Ownership misses render
// as a uniform "forbidden" whether the record is absent or someone else's.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gradebook.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, gradebook.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, gradebook.ErrOverlap):
		http.Error(w, "semester overlaps an existing one", http.StatusConflict)
	case errors.Is(err, gradebook.ErrSubjectLimit):
		http.Error(w, "subject limit reached", http.StatusUnprocessableEntity)
	case errors.Is(err, gradebook.ErrInvalidInput), errors.Is(err, grading.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, grading.ErrConfigurationFault):
		// a family tag without its detail rows is an operator problem
		http.Error(w, "grading system misconfigured", http.StatusInternalServerError)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
