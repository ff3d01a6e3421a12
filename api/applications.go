package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/joblink/joblink/internal/models"
	"github.com/joblink/joblink/pkg/apperr"
	"github.com/joblink/joblink/pkg/repository"
)

type ApplicationsHandler struct {
	jobRepo repository.JobRepo
	appRepo repository.ApplicationRepo
}

func NewApplicationsHandler(jr repository.JobRepo, ar repository.ApplicationRepo) *ApplicationsHandler {
	return &ApplicationsHandler{jobRepo: jr, appRepo: ar}
}

type applyRequest struct {
	CoverLetter string `json:"coverLetter"`
}

// Apply records the developer's application to a job. The read-before-insert
// duplicate check only selects the friendly message; the composite unique
// index in the store is what actually guarantees at most one application per
// (job, applicant).
func (h *ApplicationsHandler) Apply(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, apperr.Validation("Invalid request body", nil))
		return
	}

	applicant := UserFromContext(r.Context())
	ctx := r.Context()

	job, err := h.jobRepo.GetJobByID(ctx, jobID)
	if err != nil {
		writeError(w, apperr.Internal("lookup job", err))
		return
	}
	if job == nil {
		writeError(w, apperr.NotFound("Job not found"))
		return
	}

	existing, err := h.appRepo.GetApplication(ctx, jobID, applicant.ID)
	if err != nil {
		writeError(w, apperr.Internal("check existing application", err))
		return
	}
	if existing != nil {
		writeError(w, apperr.Conflict("You have already applied for this job"))
		return
	}

	app := models.Application{
		JobID:       jobID,
		ApplicantID: applicant.ID,
		CoverLetter: req.CoverLetter,
		Status:      models.StatusPending,
	}

	id, err := h.appRepo.CreateApplication(ctx, &app)
	if err != nil {
		// a concurrent duplicate surfaces here as the same conflict
		writeError(w, err)
		return
	}
	app.ID = id

	created, err := h.appRepo.GetApplication(ctx, jobID, applicant.ID)
	if err == nil && created != nil {
		app = *created
	}

	writeData(w, http.StatusCreated, app, "Applied successfully")
}

// AppliedJobs lists the developer's applications with each target job.
func (h *ApplicationsHandler) AppliedJobs(w http.ResponseWriter, r *http.Request) {
	applicant := UserFromContext(r.Context())

	apps, err := h.appRepo.ListApplicationsByApplicant(r.Context(), applicant.ID)
	if err != nil {
		writeError(w, apperr.Internal("list applications", err))
		return
	}

	writeData(w, http.StatusOK, map[string]any{"applications": apps}, "Applied jobs retrieved successfully")
}

// Applicants lists who applied to an owned job, in application order. The
// ownership check is the scoped job lookup itself.
func (h *ApplicationsHandler) Applicants(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	employer := UserFromContext(r.Context())
	ctx := r.Context()

	job, err := h.jobRepo.GetJobOwned(ctx, jobID, employer.ID)
	if err != nil {
		writeError(w, apperr.Internal("lookup job", err))
		return
	}
	if job == nil {
		writeError(w, apperr.NotFound("Job not found or you do not have permission to view applicants"))
		return
	}

	applicants, err := h.appRepo.ListApplicantsForJob(ctx, jobID)
	if err != nil {
		writeError(w, apperr.Internal("list applicants", err))
		return
	}

	writeData(w, http.StatusOK, map[string]any{"applicants": applicants}, "Applicants retrieved successfully")
}
