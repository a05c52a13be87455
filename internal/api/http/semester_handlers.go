package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	authmw "github.com/gradekeep/gradekeep/internal/auth/middleware"
	"github.com/gradekeep/gradekeep/internal/cache"
	"github.com/gradekeep/gradekeep/internal/gradebook"
)

type semesterReq struct {
	Name  string `json:"name"`
	Start string `json:"start"`
	End   string `json:"end"`
}

func (req semesterReq) dates() (start, end gradebook.Date, err error) {
	if start, err = gradebook.ParseDate(req.Start); err != nil {
		return
	}
	end, err = gradebook.ParseDate(req.End)
	return
}

func ListSemestersHandler(svc *gradebook.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		semesters, err := svc.Store().ListSemesters(r.Context(), authmw.AccountIDFromContext(r.Context()))
		if err != nil {
			writeErr(w, err)
			return
		}
		if semesters == nil {
			semesters = []gradebook.Semester{}
		}
		_ = json.NewEncoder(w).Encode(semesters)
	}
}

func CreateSemesterHandler(svc *gradebook.Service, views *cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req semesterReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		start, end, err := req.dates()
		if err != nil {
			http.Error(w, "dates must be YYYY-MM-DD", 400)
			return
		}
		accountID := authmw.AccountIDFromContext(r.Context())
		sem, err := svc.CreateSemester(r.Context(), accountID, req.Name, start, end)
		if err != nil {
			writeErr(w, err)
			return
		}
		views.Invalidate(r.Context(), accountID)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(sem)
	}
}

func UpdateSemesterHandler(svc *gradebook.Service, views *cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req semesterReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		start, end, err := req.dates()
		if err != nil {
			http.Error(w, "dates must be YYYY-MM-DD", 400)
			return
		}
		accountID := authmw.AccountIDFromContext(r.Context())
		sem := gradebook.Semester{
			ID:    chi.URLParam(r, "semesterID"),
			Name:  req.Name,
			Start: start,
			End:   end,
		}
		if err := svc.EditSemester(r.Context(), accountID, sem); err != nil {
			writeErr(w, err)
			return
		}
		views.Invalidate(r.Context(), accountID)
		_ = json.NewEncoder(w).Encode(sem)
	}
}

func DeleteSemesterHandler(svc *gradebook.Service, views *cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := authmw.AccountIDFromContext(r.Context())
		if err := svc.DeleteSemester(r.Context(), accountID, chi.URLParam(r, "semesterID")); err != nil {
			writeErr(w, err)
			return
		}
		views.Invalidate(r.Context(), accountID)
		w.WriteHeader(http.StatusNoContent)
	}
}
