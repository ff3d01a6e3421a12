package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gorilla/mux"

	"github.com/joblink/joblink/internal/auth"
	"github.com/joblink/joblink/internal/models"
	"github.com/joblink/joblink/pkg/apperr"
	"github.com/joblink/joblink/pkg/repository/mock"
)

func newApplySetup(t *testing.T) (*mock.Mocks, *mux.Router, *auth.TokenIssuer) {
	t.Helper()
	m := mock.NewMocks()
	seedUser(m, 1, "emp@example.com", models.RoleEmployer)
	seedUser(m, 2, "dev@example.com", models.RoleDeveloper)
	m.Jobs.Stored = append(m.Jobs.Stored, models.Job{
		ID: 10, Title: "Backend Engineer", Skills: []string{"Go"}, Salary: 90000, Location: "Remote", EmployerID: 1,
	})
	r, tokens := newTestRouter(m)
	return m, r, tokens
}

func TestApply(t *testing.T) {
	m, r, tokens := newApplySetup(t)
	empToken := accessTokenFor(tokens, 1)
	devToken := accessTokenFor(tokens, 2)

	// employer may not apply
	w := doJSON(t, r, http.MethodPost, "/api/jobs/10/apply", nil, empToken)
	if w.Code != http.StatusForbidden {
		t.Fatalf("employer apply status = %d", w.Code)
	}

	// unknown job
	w = doJSON(t, r, http.MethodPost, "/api/jobs/999/apply", nil, devToken)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown job status = %d", w.Code)
	}

	// first application succeeds with no cover letter
	w = doJSON(t, r, http.MethodPost, "/api/jobs/10/apply", nil, devToken)
	if w.Code != http.StatusCreated {
		t.Fatalf("first apply status = %d (body %s)", w.Code, w.Body.String())
	}
	e := decodeEnvelope(t, w)
	var app models.Application
	if err := json.Unmarshal(e.Data, &app); err != nil {
		t.Fatalf("unmarshal application: %v", err)
	}
	if app.Status != models.StatusPending || app.JobID != 10 || app.ApplicantID != 2 {
		t.Fatalf("unexpected application: %+v", app)
	}

	// second application is a conflict reported as 400 by this route
	w = doJSON(t, r, http.MethodPost, "/api/jobs/10/apply", map[string]any{"coverLetter": "again"}, devToken)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate apply status = %d", w.Code)
	}
	if got := decodeEnvelope(t, w).Message; got != "You have already applied for this job" {
		t.Fatalf("unexpected message %q", got)
	}
	if len(m.Apps.Stored) != 1 {
		t.Fatalf("expected exactly one stored application, got %d", len(m.Apps.Stored))
	}
}

func TestApply_StoreConstraintWinsRace(t *testing.T) {
	// simulate the pre-check passing while a concurrent request already
	// inserted: the store conflict must surface as the same 400
	m, r, tokens := mocksWithConflictingStore(t)
	devToken := accessTokenFor(tokens, 2)

	w := doJSON(t, r, http.MethodPost, "/api/jobs/10/apply", nil, devToken)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d (body %s)", w.Code, w.Body.String())
	}
	if len(m.Apps.Stored) != 0 {
		t.Fatalf("no row should have landed")
	}
}

func TestAppliedJobs(t *testing.T) {
	_, r, tokens := newApplySetup(t)
	empToken := accessTokenFor(tokens, 1)
	devToken := accessTokenFor(tokens, 2)

	w := doJSON(t, r, http.MethodPost, "/api/jobs/10/apply", nil, devToken)
	if w.Code != http.StatusCreated {
		t.Fatalf("apply status = %d", w.Code)
	}

	// employer role is rejected on the developer listing
	w = doJSON(t, r, http.MethodGet, "/api/jobs/applied", nil, empToken)
	if w.Code != http.StatusForbidden {
		t.Fatalf("employer applied status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/jobs/applied", nil, devToken)
	if w.Code != http.StatusOK {
		t.Fatalf("applied status = %d (body %s)", w.Code, w.Body.String())
	}
	e := decodeEnvelope(t, w)
	var data struct {
		Applications []models.Application `json:"applications"`
	}
	if err := json.Unmarshal(e.Data, &data); err != nil {
		t.Fatalf("unmarshal applications: %v", err)
	}
	if len(data.Applications) != 1 || data.Applications[0].Status != models.StatusPending {
		t.Fatalf("unexpected applications: %+v", data.Applications)
	}
}

func TestApplicants(t *testing.T) {
	m, r, tokens := newApplySetup(t)
	seedUser(m, 3, "other-emp@example.com", models.RoleEmployer)
	empToken := accessTokenFor(tokens, 1)
	devToken := accessTokenFor(tokens, 2)
	otherEmpToken := accessTokenFor(tokens, 3)

	w := doJSON(t, r, http.MethodPost, "/api/jobs/10/apply", nil, devToken)
	if w.Code != http.StatusCreated {
		t.Fatalf("apply status = %d", w.Code)
	}

	// non-owner employer gets 404, same as an absent job
	w = doJSON(t, r, http.MethodGet, "/api/jobs/10/applicants", nil, otherEmpToken)
	if w.Code != http.StatusNotFound {
		t.Fatalf("foreign applicants status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/jobs/10/applicants", nil, empToken)
	if w.Code != http.StatusOK {
		t.Fatalf("owner applicants status = %d (body %s)", w.Code, w.Body.String())
	}
	e := decodeEnvelope(t, w)
	var data struct {
		Applicants []models.Applicant `json:"applicants"`
	}
	if err := json.Unmarshal(e.Data, &data); err != nil {
		t.Fatalf("unmarshal applicants: %v", err)
	}
	if len(data.Applicants) != 1 || data.Applicants[0].ID != 2 {
		t.Fatalf("unexpected applicants: %+v", data.Applicants)
	}
}

// mocksWithConflictingStore builds a setup whose application store rejects
// every insert with the duplicate conflict, as the unique index does when a
// concurrent request won.
func mocksWithConflictingStore(t *testing.T) (*mock.Mocks, *mux.Router, *auth.TokenIssuer) {
	t.Helper()
	m := mock.NewMocks()
	seedUser(m, 1, "emp@example.com", models.RoleEmployer)
	seedUser(m, 2, "dev@example.com", models.RoleDeveloper)
	m.Jobs.Stored = append(m.Jobs.Stored, models.Job{
		ID: 10, Title: "Backend Engineer", Skills: []string{"Go"}, Salary: 90000, Location: "Remote", EmployerID: 1,
	})
	m.Apps.CreateErr = apperr.Conflict("You have already applied for this job")
	r, tokens := newTestRouter(m)
	return m, r, tokens
}
