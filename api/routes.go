package api

import (
	"github.com/gorilla/mux"

	"github.com/joblink/joblink/internal/auth"
	"github.com/joblink/joblink/internal/config"
	"github.com/joblink/joblink/internal/db"
	"github.com/joblink/joblink/internal/models"
	"github.com/joblink/joblink/internal/repository/sqlite"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, database *db.DB) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware(cfg.CORSOrigin))
	r.Use(RecoveryMiddleware)

	// Repository
	repo := sqlite.New(database, logger)

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(repo, tokens, cfg.RefreshTokenTTL)
	jobsHandler := NewJobsHandler(repo)
	appsHandler := NewApplicationsHandler(repo, repo)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/users/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/users/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/users/debug/users", authHandler.DebugUsers).Methods("GET")
	api.HandleFunc("/jobs", jobsHandler.ListJobs).Methods("GET")

	requireAuth := AuthMiddleware(tokens, repo)

	// Employer routes
	employer := api.PathPrefix("/jobs").Subrouter()
	employer.Use(requireAuth, RequireRole(models.RoleEmployer))
	employer.HandleFunc("", jobsHandler.PostJob).Methods("POST")
	employer.HandleFunc("/my-jobs", jobsHandler.MyJobs).Methods("GET")
	employer.HandleFunc("/{id}", jobsHandler.UpdateJob).Methods("PUT")
	employer.HandleFunc("/{id}", jobsHandler.DeleteJob).Methods("DELETE")
	employer.HandleFunc("/{id}/applicants", appsHandler.Applicants).Methods("GET")

	// Developer routes
	developer := api.PathPrefix("/jobs").Subrouter()
	developer.Use(requireAuth, RequireRole(models.RoleDeveloper))
	developer.HandleFunc("/applied", appsHandler.AppliedJobs).Methods("GET")
	developer.HandleFunc("/{id}/apply", appsHandler.Apply).Methods("POST")

	return r
}
