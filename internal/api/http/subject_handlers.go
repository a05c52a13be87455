package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	authmw "github.com/gradekeep/gradekeep/internal/auth/middleware"
	"github.com/gradekeep/gradekeep/internal/cache"
	"github.com/gradekeep/gradekeep/internal/gradebook"
	"github.com/gradekeep/gradekeep/internal/policy"
)

type subjectReq struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

func ListSubjectsHandler(svc *gradebook.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subjects, err := svc.Store().ListSubjects(r.Context(), authmw.AccountIDFromContext(r.Context()))
		if err != nil {
			writeErr(w, err)
			return
		}
		if subjects == nil {
			subjects = []gradebook.Subject{}
		}
		_ = json.NewEncoder(w).Encode(subjects)
	}
}

// CreateSubjectHandler reduces the account's plan to a premium boolean
// before calling into the gradebook; the cap itself lives there.
func CreateSubjectHandler(svc *gradebook.Service, plans *policy.Checker, views *cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req subjectReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		accountID := authmw.AccountIDFromContext(r.Context())
		acct, err := svc.Store().GetAccount(r.Context(), accountID)
		if err != nil {
			writeErr(w, err)
			return
		}
		premium := plans.Premium(acct.Plan, acct.Sponsored)
		sub, err := svc.CreateSubject(r.Context(), accountID, req.Name, req.Weight, premium)
		if err != nil {
			writeErr(w, err)
			return
		}
		views.Invalidate(r.Context(), accountID)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(sub)
	}
}

func UpdateSubjectHandler(svc *gradebook.Service, views *cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req subjectReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		accountID := authmw.AccountIDFromContext(r.Context())
		sub := gradebook.Subject{
			ID:     chi.URLParam(r, "subjectID"),
			Name:   req.Name,
			Weight: req.Weight,
		}
		if err := svc.EditSubject(r.Context(), accountID, sub); err != nil {
			writeErr(w, err)
			return
		}
		views.Invalidate(r.Context(), accountID)
		_ = json.NewEncoder(w).Encode(sub)
	}
}

func DeleteSubjectHandler(svc *gradebook.Service, views *cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := authmw.AccountIDFromContext(r.Context())
		if err := svc.DeleteSubject(r.Context(), accountID, chi.URLParam(r, "subjectID")); err != nil {
			writeErr(w, err)
			return
		}
		views.Invalidate(r.Context(), accountID)
		w.WriteHeader(http.StatusNoContent)
	}
}
