package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	authmw "github.com/gradekeep/gradekeep/internal/auth/middleware"
	"github.com/gradekeep/gradekeep/internal/cache"
	"github.com/gradekeep/gradekeep/internal/gradebook"
	"github.com/gradekeep/gradekeep/internal/grading"
)

// gradeReq carries the grade fields plus exactly one submission shape.
// The engine rejects ambiguous submissions, not the handler.
type gradeReq struct {
	SubjectID string              `json:"subject_id"`
	Date      string              `json:"date"`
	Weight    float64             `json:"weight"`
	Note      string              `json:"note"`
	Grade     *float64            `json:"grade,omitempty"`
	BandID    string              `json:"band_id,omitempty"`
	Points    *grading.PointsPair `json:"points,omitempty"`
	Percent   *float64            `json:"percent,omitempty"`
}

func (req gradeReq) input() (gradebook.GradeInput, grading.Submission, error) {
	date, err := gradebook.ParseDate(req.Date)
	if err != nil {
		return gradebook.GradeInput{}, grading.Submission{}, err
	}
	in := gradebook.GradeInput{
		SubjectID: req.SubjectID,
		Date:      date,
		Weight:    req.Weight,
		Note:      req.Note,
	}
	sub := grading.Submission{
		Grade:   req.Grade,
		BandID:  req.BandID,
		Points:  req.Points,
		Percent: req.Percent,
	}
	return in, sub, nil
}

// ListGradesHandler returns the account's grades ordered by date,
// ?order=desc for newest first.
func ListGradesHandler(svc *gradebook.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order := gradebook.OrderDateAsc
		if r.URL.Query().Get("order") == "desc" {
			order = gradebook.OrderDateDesc
		}
		grades, err := svc.ListGrades(r.Context(), authmw.AccountIDFromContext(r.Context()), order)
		if err != nil {
			writeErr(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(grades)
	}
}

func CreateGradeHandler(svc *gradebook.Service, views *cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gradeReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		in, sub, err := req.input()
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", 400)
			return
		}
		accountID := authmw.AccountIDFromContext(r.Context())
		g, err := svc.CreateGrade(r.Context(), accountID, in, sub)
		if err != nil {
			writeErr(w, err)
			return
		}
		views.Invalidate(r.Context(), accountID)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(g)
	}
}

func UpdateGradeHandler(svc *gradebook.Service, views *cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gradeReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		in, sub, err := req.input()
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", 400)
			return
		}
		accountID := authmw.AccountIDFromContext(r.Context())
		g, err := svc.EditGrade(r.Context(), accountID, chi.URLParam(r, "gradeID"), in, sub)
		if err != nil {
			writeErr(w, err)
			return
		}
		views.Invalidate(r.Context(), accountID)
		_ = json.NewEncoder(w).Encode(g)
	}
}

func DeleteGradeHandler(svc *gradebook.Service, views *cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := authmw.AccountIDFromContext(r.Context())
		if err := svc.DeleteGrade(r.Context(), accountID, chi.URLParam(r, "gradeID")); err != nil {
			writeErr(w, err)
			return
		}
		views.Invalidate(r.Context(), accountID)
		w.WriteHeader(http.StatusNoContent)
	}
}
