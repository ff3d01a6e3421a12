package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/joblink/joblink/internal/models"
	"github.com/joblink/joblink/pkg/apperr"
	"github.com/joblink/joblink/pkg/repository"
)

type JobsHandler struct {
	jobRepo repository.JobRepo
}

func NewJobsHandler(jr repository.JobRepo) *JobsHandler {
	return &JobsHandler{jobRepo: jr}
}

type postJobRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
	Salary      float64  `json:"salary"`
	Location    string   `json:"location"`
}

func (req *postJobRequest) validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(req.Title) == "" {
		errs["title"] = "Title is required"
	}
	if strings.TrimSpace(req.Description) == "" {
		errs["description"] = "Description is required"
	}
	if len(req.Skills) == 0 {
		errs["skills"] = "At least one skill is required"
	}
	if req.Salary <= 0 {
		errs["salary"] = "Salary must be positive"
	}
	if strings.TrimSpace(req.Location) == "" {
		errs["location"] = "Location is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// PostJob creates a posting owned by the authenticated employer.
func (h *JobsHandler) PostJob(w http.ResponseWriter, r *http.Request) {
	var req postJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation("Invalid request body", nil))
		return
	}
	if errs := req.validate(); errs != nil {
		writeError(w, apperr.Validation("Validation failed", errs))
		return
	}

	employer := UserFromContext(r.Context())

	job := models.Job{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Skills:      req.Skills,
		Salary:      req.Salary,
		Location:    strings.TrimSpace(req.Location),
		EmployerID:  employer.ID,
	}

	id, err := h.jobRepo.CreateJob(r.Context(), &job)
	if err != nil {
		writeError(w, apperr.Internal("create job", err))
		return
	}

	created, err := h.jobRepo.GetJobByID(r.Context(), id)
	if err != nil || created == nil {
		writeError(w, apperr.Internal("load created job", err))
		return
	}

	writeData(w, http.StatusCreated, created, "Job posted successfully")
}

// UpdateJob patches a posting scoped by (id, employer): a job that is absent
// and a job owned by someone else answer identically.
func (h *JobsHandler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var patch models.JobPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, apperr.Validation("Invalid request body", nil))
		return
	}
	if errs := validatePatch(&patch); errs != nil {
		writeError(w, apperr.Validation("Validation failed", errs))
		return
	}

	employer := UserFromContext(r.Context())

	ok, err := h.jobRepo.UpdateJobOwned(r.Context(), jobID, employer.ID, &patch)
	if err != nil {
		writeError(w, apperr.Internal("update job", err))
		return
	}
	if !ok {
		writeError(w, apperr.NotFound("Job not found or you do not have permission to edit"))
		return
	}

	job, err := h.jobRepo.GetJobByID(r.Context(), jobID)
	if err != nil || job == nil {
		writeError(w, apperr.Internal("load updated job", err))
		return
	}

	writeData(w, http.StatusOK, job, "Job updated successfully")
}

func validatePatch(p *models.JobPatch) map[string]string {
	errs := map[string]string{}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		errs["title"] = "Title is required"
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		errs["description"] = "Description is required"
	}
	if p.Skills != nil && len(*p.Skills) == 0 {
		errs["skills"] = "At least one skill is required"
	}
	if p.Salary != nil && *p.Salary <= 0 {
		errs["salary"] = "Salary must be positive"
	}
	if p.Location != nil && strings.TrimSpace(*p.Location) == "" {
		errs["location"] = "Location is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (h *JobsHandler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	employer := UserFromContext(r.Context())

	ok, err := h.jobRepo.DeleteJobOwned(r.Context(), jobID, employer.ID)
	if err != nil {
		writeError(w, apperr.Internal("delete job", err))
		return
	}
	if !ok {
		writeError(w, apperr.NotFound("Job not found or you do not have permission to delete"))
		return
	}

	writeData(w, http.StatusOK, nil, "Job deleted successfully")
}

// ListJobs is the public browse endpoint: optional ANDed filters, 1-indexed
// pagination. Pages past the end return an empty list with accurate totals.
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter models.JobFilter
	if skills := q.Get("skills"); skills != "" {
		for _, s := range strings.Split(skills, ",") {
			if s = strings.TrimSpace(s); s != "" {
				filter.Skills = append(filter.Skills, s)
			}
		}
	}
	if v := q.Get("salaryMin"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, apperr.Validation("salaryMin must be a number", nil))
			return
		}
		filter.SalaryMin = &f
	}
	if v := q.Get("salaryMax"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, apperr.Validation("salaryMax must be a number", nil))
			return
		}
		filter.SalaryMax = &f
	}
	filter.Location = q.Get("location")
	filter.Search = q.Get("search")
	if q.Get("sort") == "salary" {
		filter.SortBy = models.SortSalary
	}

	page := 1
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	limit := 10
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	result, err := h.jobRepo.ListJobs(r.Context(), filter, page, limit)
	if err != nil {
		writeError(w, apperr.Internal("list jobs", err))
		return
	}

	writeData(w, http.StatusOK, result, "")
}

func (h *JobsHandler) MyJobs(w http.ResponseWriter, r *http.Request) {
	employer := UserFromContext(r.Context())

	jobs, err := h.jobRepo.ListJobsByEmployer(r.Context(), employer.ID)
	if err != nil {
		writeError(w, apperr.Internal("list employer jobs", err))
		return
	}

	writeData(w, http.StatusOK, map[string]any{"jobs": jobs}, "My jobs retrieved successfully")
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("Invalid job id", nil)
	}
	return id, nil
}
