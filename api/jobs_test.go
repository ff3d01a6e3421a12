package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/joblink/joblink/internal/models"
	"github.com/joblink/joblink/pkg/repository/mock"
)

func TestPostJob(t *testing.T) {
	validBody := map[string]any{
		"title":       "Backend Engineer",
		"description": "Build APIs",
		"skills":      []string{"Go", "SQL"},
		"salary":      90000,
		"location":    "Remote",
	}

	tests := []struct {
		name       string
		token      func(m *mock.Mocks, mint func(int64) string) string
		body       any
		wantStatus int
	}{
		{
			name:       "NoToken",
			token:      func(m *mock.Mocks, mint func(int64) string) string { return "" },
			body:       validBody,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "GarbageToken",
			token:      func(m *mock.Mocks, mint func(int64) string) string { return "garbage" },
			body:       validBody,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "DeveloperForbidden",
			token: func(m *mock.Mocks, mint func(int64) string) string {
				seedUser(m, 1, "dev@example.com", models.RoleDeveloper)
				return mint(1)
			},
			body:       validBody,
			wantStatus: http.StatusForbidden,
		},
		{
			name: "MissingFields",
			token: func(m *mock.Mocks, mint func(int64) string) string {
				seedUser(m, 1, "emp@example.com", models.RoleEmployer)
				return mint(1)
			},
			body:       map[string]any{"title": "X"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "NegativeSalary",
			token: func(m *mock.Mocks, mint func(int64) string) string {
				seedUser(m, 1, "emp@example.com", models.RoleEmployer)
				return mint(1)
			},
			body: map[string]any{
				"title": "X", "description": "Y", "skills": []string{"Go"}, "salary": -1, "location": "Remote",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "Success",
			token: func(m *mock.Mocks, mint func(int64) string) string {
				seedUser(m, 1, "emp@example.com", models.RoleEmployer)
				return mint(1)
			},
			body:       validBody,
			wantStatus: http.StatusCreated,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := mock.NewMocks()
			r, tokens := newTestRouter(m)
			token := tc.token(m, func(id int64) string { return accessTokenFor(tokens, id) })

			w := doJSON(t, r, http.MethodPost, "/api/jobs", tc.body, token)
			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tc.wantStatus, w.Body.String())
			}
			if tc.wantStatus == http.StatusCreated {
				e := decodeEnvelope(t, w)
				var job models.Job
				if err := json.Unmarshal(e.Data, &job); err != nil {
					t.Fatalf("unmarshal job: %v", err)
				}
				if job.EmployerID != 1 {
					t.Fatalf("job not owned by caller: %+v", job)
				}
			}
		})
	}
}

func TestUpdateDeleteJobOwnership(t *testing.T) {
	m := mock.NewMocks()
	seedUser(m, 1, "owner@example.com", models.RoleEmployer)
	seedUser(m, 2, "other@example.com", models.RoleEmployer)
	m.Jobs.Stored = append(m.Jobs.Stored, models.Job{
		ID: 10, Title: "Backend Engineer", Description: "d", Skills: []string{"Go"},
		Salary: 90000, Location: "Remote", EmployerID: 1,
	})
	r, tokens := newTestRouter(m)

	ownerToken := accessTokenFor(tokens, 1)
	otherToken := accessTokenFor(tokens, 2)

	// a different employer gets 404, never 403: existence must not leak
	w := doJSON(t, r, http.MethodPut, "/api/jobs/10", map[string]any{"title": "Hijacked"}, otherToken)
	if w.Code != http.StatusNotFound {
		t.Fatalf("foreign update status = %d", w.Code)
	}
	w = doJSON(t, r, http.MethodDelete, "/api/jobs/10", nil, otherToken)
	if w.Code != http.StatusNotFound {
		t.Fatalf("foreign delete status = %d", w.Code)
	}
	if m.Jobs.Stored[0].Title != "Backend Engineer" {
		t.Fatalf("job mutated by non-owner")
	}

	// absent job answers the same way
	w = doJSON(t, r, http.MethodPut, "/api/jobs/999", map[string]any{"title": "X"}, ownerToken)
	if w.Code != http.StatusNotFound {
		t.Fatalf("absent update status = %d", w.Code)
	}

	// invalid patch rejected before touching the store
	w = doJSON(t, r, http.MethodPut, "/api/jobs/10", map[string]any{"salary": -5}, ownerToken)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid patch status = %d", w.Code)
	}

	// owner succeeds
	w = doJSON(t, r, http.MethodPut, "/api/jobs/10", map[string]any{"title": "Senior Backend Engineer"}, ownerToken)
	if w.Code != http.StatusOK {
		t.Fatalf("owner update status = %d (body %s)", w.Code, w.Body.String())
	}
	if m.Jobs.Stored[0].Title != "Senior Backend Engineer" {
		t.Fatalf("patch not applied")
	}

	w = doJSON(t, r, http.MethodDelete, "/api/jobs/10", nil, ownerToken)
	if w.Code != http.StatusOK {
		t.Fatalf("owner delete status = %d", w.Code)
	}
	if len(m.Jobs.Stored) != 0 {
		t.Fatalf("job not deleted")
	}
}

func TestListJobsPublic(t *testing.T) {
	m := mock.NewMocks()
	for i := 0; i < 3; i++ {
		m.Jobs.Stored = append(m.Jobs.Stored, models.Job{
			ID: int64(i + 1), Title: "Job", Skills: []string{"Go"}, Salary: 50000, Location: "Remote", EmployerID: 1,
		})
	}
	r, _ := newTestRouter(m)

	// no auth needed
	w := doJSON(t, r, http.MethodGet, "/api/jobs?page=1&limit=2", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	e := decodeEnvelope(t, w)
	var page models.JobPage
	if err := json.Unmarshal(e.Data, &page); err != nil {
		t.Fatalf("unmarshal page: %v", err)
	}
	if page.Total != 3 || page.Pages != 2 || len(page.Jobs) != 2 {
		t.Fatalf("unexpected page: %+v", page)
	}

	// malformed numeric filter is a 400
	w = doJSON(t, r, http.MethodGet, "/api/jobs?salaryMin=abc", nil, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad salaryMin status = %d", w.Code)
	}
}

func TestMyJobs(t *testing.T) {
	m := mock.NewMocks()
	seedUser(m, 1, "emp@example.com", models.RoleEmployer)
	seedUser(m, 2, "emp2@example.com", models.RoleEmployer)
	m.Jobs.Stored = append(m.Jobs.Stored,
		models.Job{ID: 1, Title: "Mine", EmployerID: 1},
		models.Job{ID: 2, Title: "Theirs", EmployerID: 2},
	)
	r, tokens := newTestRouter(m)

	w := doJSON(t, r, http.MethodGet, "/api/jobs/my-jobs", nil, accessTokenFor(tokens, 1))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", w.Code, w.Body.String())
	}
	e := decodeEnvelope(t, w)
	var data struct {
		Jobs []models.Job `json:"jobs"`
	}
	if err := json.Unmarshal(e.Data, &data); err != nil {
		t.Fatalf("unmarshal jobs: %v", err)
	}
	if len(data.Jobs) != 1 || data.Jobs[0].Title != "Mine" {
		t.Fatalf("unexpected jobs: %+v", data.Jobs)
	}
}
