package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/gradekeep/gradekeep/internal/api/http"
	"github.com/gradekeep/gradekeep/internal/audit"
	auth "github.com/gradekeep/gradekeep/internal/auth/middleware"
	"github.com/gradekeep/gradekeep/internal/cache"
	"github.com/gradekeep/gradekeep/internal/config"
	"github.com/gradekeep/gradekeep/internal/dashboard"
	"github.com/gradekeep/gradekeep/internal/db"
	"github.com/gradekeep/gradekeep/internal/gradebook"
	"github.com/gradekeep/gradekeep/internal/policy"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := gradebook.NewSQLStore(dbh)
	svc := gradebook.NewService(store, audit.NewEventRepo(dbh))
	asm := dashboard.NewAssembler(store)
	plans := policy.NewChecker(nil)

	// nil when REDIS_ADDR is unset; every caller tolerates that
	views := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.CacheTTL)

	authSvc := auth.NewAuthService(cfg.AuthSecret, cfg.TokenTTL)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/register", api.RegisterHandler(store, authSvc))
	r.Post("/auth/login", api.LoginHandler(store, authSvc))

	// Protected API: JWT -> account id in context; every engine call takes
	// the account id explicitly from there.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.Get("/account", api.GetAccountHandler(store))
		pr.Put("/account", api.UpdateAccountHandler(store))
		pr.Post("/account/password", api.ChangePasswordHandler(store))

		pr.Get("/systems", api.ListSystemsHandler(store))
		pr.Get("/systems/{systemID}", api.GetSystemHandler(store))

		pr.Get("/semesters", api.ListSemestersHandler(svc))
		pr.Post("/semesters", api.CreateSemesterHandler(svc, views))
		pr.Put("/semesters/{semesterID}", api.UpdateSemesterHandler(svc, views))
		pr.Delete("/semesters/{semesterID}", api.DeleteSemesterHandler(svc, views))

		pr.Get("/subjects", api.ListSubjectsHandler(svc))
		pr.Post("/subjects", api.CreateSubjectHandler(svc, plans, views))
		pr.Put("/subjects/{subjectID}", api.UpdateSubjectHandler(svc, views))
		pr.Delete("/subjects/{subjectID}", api.DeleteSubjectHandler(svc, views))

		pr.Get("/grades", api.ListGradesHandler(svc))
		pr.Post("/grades", api.CreateGradeHandler(svc, views))
		pr.Put("/grades/{gradeID}", api.UpdateGradeHandler(svc, views))
		pr.Delete("/grades/{gradeID}", api.DeleteGradeHandler(svc, views))

		pr.Get("/dashboard", api.DashboardHandler(asm, views))
		pr.Get("/insights", api.InsightsHandler(asm, views))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
