package http

import (
	"encoding/json"
	"net/http"
	"time"

	authmw "github.com/gradekeep/gradekeep/internal/auth/middleware"
	"github.com/gradekeep/gradekeep/internal/cache"
	"github.com/gradekeep/gradekeep/internal/dashboard"
)

func DashboardHandler(asm *dashboard.Assembler, views *cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := authmw.AccountIDFromContext(r.Context())
		var summary dashboard.Summary
		if views.Get(r.Context(), cache.DashboardKey(accountID), &summary) {
			_ = json.NewEncoder(w).Encode(summary)
			return
		}
		summary, err := asm.BuildDashboard(r.Context(), accountID, time.Now())
		if err != nil {
			writeErr(w, err)
			return
		}
		views.Set(r.Context(), cache.DashboardKey(accountID), summary)
		_ = json.NewEncoder(w).Encode(summary)
	}
}

func InsightsHandler(asm *dashboard.Assembler, views *cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := authmw.AccountIDFromContext(r.Context())
		var summaries []dashboard.Summary
		if views.Get(r.Context(), cache.InsightsKey(accountID), &summaries) {
			_ = json.NewEncoder(w).Encode(summaries)
			return
		}
		summaries, err := asm.BuildInsights(r.Context(), accountID)
		if err != nil {
			writeErr(w, err)
			return
		}
		views.Set(r.Context(), cache.InsightsKey(accountID), summaries)
		_ = json.NewEncoder(w).Encode(summaries)
	}
}
