package repository

import (
	"context"

	"github.com/joblink/joblink/internal/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
//
// Lookups return (nil, nil) when no record matches. Writes that violate a
// store uniqueness constraint return a *apperr.Error with KindConflict so the
// constraint, not the caller's pre-check, is the authority on duplicates.

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SetRefreshToken(ctx context.Context, id int64, token string) error
	ListUsers(ctx context.Context) ([]models.User, error)
}

type JobRepo interface {
	CreateJob(ctx context.Context, j *models.Job) (int64, error)
	GetJobByID(ctx context.Context, id int64) (*models.Job, error)
	// GetJobOwned fetches the job only when it belongs to employerID; a job
	// owned by someone else is indistinguishable from an absent one.
	GetJobOwned(ctx context.Context, id, employerID int64) (*models.Job, error)
	// UpdateJobOwned applies patch to the job scoped by (id, employerID) in a
	// single statement; it reports false when no row matched.
	UpdateJobOwned(ctx context.Context, id, employerID int64, patch *models.JobPatch) (bool, error)
	DeleteJobOwned(ctx context.Context, id, employerID int64) (bool, error)
	ListJobs(ctx context.Context, filter models.JobFilter, page, pageSize int) (*models.JobPage, error)
	ListJobsByEmployer(ctx context.Context, employerID int64) ([]models.Job, error)
}

type ApplicationRepo interface {
	CreateApplication(ctx context.Context, a *models.Application) (int64, error)
	GetApplication(ctx context.Context, jobID, applicantID int64) (*models.Application, error)
	ListApplicationsByApplicant(ctx context.Context, applicantID int64) ([]models.Application, error)
	// ListApplicantsForJob returns the applicants of a job in application
	// order (the job's append-only applicant sequence).
	ListApplicantsForJob(ctx context.Context, jobID int64) ([]models.Applicant, error)
}
