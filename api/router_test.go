package api_test

import (
	"time"

	"github.com/gorilla/mux"

	"github.com/joblink/joblink/api"
	"github.com/joblink/joblink/internal/auth"
	"github.com/joblink/joblink/internal/models"
	"github.com/joblink/joblink/pkg/repository/mock"
)

const testSecret = "testsecret"

// newTestRouter wires the production route table onto mocks.
func newTestRouter(m *mock.Mocks) (*mux.Router, *auth.TokenIssuer) {
	tokens := auth.NewTokenIssuer(testSecret, time.Hour, 24*time.Hour)

	authHandler := api.NewAuthHandler(m.Users, tokens, 24*time.Hour)
	jobsHandler := api.NewJobsHandler(m.Jobs)
	appsHandler := api.NewApplicationsHandler(m.Jobs, m.Apps)

	r := mux.NewRouter()
	a := r.PathPrefix("/api").Subrouter()
	a.HandleFunc("/users/register", authHandler.Register).Methods("POST")
	a.HandleFunc("/users/login", authHandler.Login).Methods("POST")
	a.HandleFunc("/users/debug/users", authHandler.DebugUsers).Methods("GET")
	a.HandleFunc("/jobs", jobsHandler.ListJobs).Methods("GET")

	requireAuth := api.AuthMiddleware(tokens, m.Users)

	employer := a.PathPrefix("/jobs").Subrouter()
	employer.Use(requireAuth, api.RequireRole(models.RoleEmployer))
	employer.HandleFunc("", jobsHandler.PostJob).Methods("POST")
	employer.HandleFunc("/my-jobs", jobsHandler.MyJobs).Methods("GET")
	employer.HandleFunc("/{id}", jobsHandler.UpdateJob).Methods("PUT")
	employer.HandleFunc("/{id}", jobsHandler.DeleteJob).Methods("DELETE")
	employer.HandleFunc("/{id}/applicants", appsHandler.Applicants).Methods("GET")

	developer := a.PathPrefix("/jobs").Subrouter()
	developer.Use(requireAuth, api.RequireRole(models.RoleDeveloper))
	developer.HandleFunc("/applied", appsHandler.AppliedJobs).Methods("GET")
	developer.HandleFunc("/{id}/apply", appsHandler.Apply).Methods("POST")

	return r, tokens
}

func seedUser(m *mock.Mocks, id int64, email string, role models.Role) models.User {
	u := models.User{ID: id, Name: "User " + email, Email: email, Role: role}
	m.Users.Stored = append(m.Users.Stored, u)
	return u
}

func accessTokenFor(tokens *auth.TokenIssuer, userID int64) string {
	s, err := tokens.AccessToken(userID)
	if err != nil {
		panic(err)
	}
	return s
}
