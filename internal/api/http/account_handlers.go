package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	authmw "github.com/gradekeep/gradekeep/internal/auth/middleware"
	"github.com/gradekeep/gradekeep/internal/gradebook"
)

const minPasswordLen = 8

type registerReq struct {
	Email           string `json:"email"`
	Name            string `json:"name"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	SystemID        string `json:"system_id"`
}

func RegisterHandler(store gradebook.Store, a *authmw.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if req.Email == "" || req.Password != req.PasswordConfirm || len(req.Password) < minPasswordLen {
			http.Error(w, "email required, passwords must match and be at least 8 chars", 400)
			return
		}
		if _, err := store.GetSystem(r.Context(), req.SystemID); err != nil {
			http.Error(w, "unknown grading system", 400)
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		acct := gradebook.Account{
			ID:           uuid.NewString(),
			Email:        req.Email,
			Name:         req.Name,
			PasswordHash: string(hash),
			SystemID:     req.SystemID,
			Plan:         gradebook.PlanFree,
			CreatedAt:    time.Now().UTC(),
		}
		if err := store.CreateAccount(r.Context(), acct); err != nil {
			http.Error(w, "email already registered", http.StatusConflict)
			return
		}
		tok, err := a.IssueJWT(acct.ID)
		if err != nil {
			http.Error(w, "issue token", 500)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"account": acct, "access_token": tok})
	}
}

func LoginHandler(store gradebook.Store, a *authmw.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		acct, err := store.GetAccountByEmail(r.Context(), req.Email)
		if err != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(req.Password)) != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		tok, err := a.IssueJWT(acct.ID)
		if err != nil {
			http.Error(w, "issue token", 500)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": tok})
	}
}

func GetAccountHandler(store gradebook.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acct, err := store.GetAccount(r.Context(), authmw.AccountIDFromContext(r.Context()))
		if err != nil {
			writeErr(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(acct)
	}
}

// UpdateAccountHandler changes profile fields and, when system_id is set,
// the account's grading system. Stored percentages are system-independent,
// so no grade is rewritten on a system change.
func UpdateAccountHandler(store gradebook.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Name     string `json:"name"`
			SystemID string `json:"system_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		acct, err := store.GetAccount(r.Context(), authmw.AccountIDFromContext(r.Context()))
		if err != nil {
			writeErr(w, err)
			return
		}
		if req.Email != "" {
			acct.Email = req.Email
		}
		if req.Name != "" {
			acct.Name = req.Name
		}
		if req.SystemID != "" {
			if _, err := store.GetSystem(r.Context(), req.SystemID); err != nil {
				http.Error(w, "unknown grading system", 400)
				return
			}
			acct.SystemID = req.SystemID
		}
		if err := store.UpdateAccount(r.Context(), acct); err != nil {
			writeErr(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(acct)
	}
}

func ChangePasswordHandler(store gradebook.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			OldPassword string `json:"old_password"`
			NewPassword string `json:"new_password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if len(req.NewPassword) < minPasswordLen {
			http.Error(w, "new password too short", http.StatusBadRequest)
			return
		}
		acct, err := store.GetAccount(r.Context(), authmw.AccountIDFromContext(r.Context()))
		if err != nil {
			writeErr(w, err)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(req.OldPassword)) != nil {
			http.Error(w, "incorrect old password", http.StatusForbidden)
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		acct.PasswordHash = string(hash)
		if err := store.UpdateAccount(r.Context(), acct); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
