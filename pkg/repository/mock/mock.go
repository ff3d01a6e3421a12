package mock

import (
	"context"

	"github.com/joblink/joblink/internal/models"
	"github.com/joblink/joblink/pkg/apperr"
)

// Test helpers and mocks
type Mocks struct {
	Users *UserRepo
	Jobs  *JobRepo
	Apps  *ApplicationRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		Users: &UserRepo{},
		Jobs:  &JobRepo{},
		Apps:  &ApplicationRepo{},
	}
}

type UserRepo struct {
	Stored    []models.User
	CreateErr error
	nextID    int64
}

func (m *UserRepo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	for _, s := range m.Stored {
		if s.Email == u.Email {
			return 0, apperr.Conflict("This email is already registered. Please use a different email or try logging in.").WithStatus(409)
		}
	}
	m.nextID++
	c := *u
	c.ID = m.nextID
	m.Stored = append(m.Stored, c)
	return c.ID, nil
}

func (m *UserRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	for i := range m.Stored {
		if m.Stored[i].ID == id {
			u := m.Stored[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (m *UserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for i := range m.Stored {
		if m.Stored[i].Email == email {
			u := m.Stored[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (m *UserRepo) SetRefreshToken(ctx context.Context, id int64, token string) error {
	for i := range m.Stored {
		if m.Stored[i].ID == id {
			m.Stored[i].RefreshToken = token
		}
	}
	return nil
}

func (m *UserRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	return append([]models.User(nil), m.Stored...), nil
}

type JobRepo struct {
	Stored    []models.Job
	CreateErr error
	ListErr   error
	nextID    int64
}

func (m *JobRepo) CreateJob(ctx context.Context, j *models.Job) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	m.nextID++
	c := *j
	c.ID = m.nextID
	m.Stored = append(m.Stored, c)
	return c.ID, nil
}

func (m *JobRepo) GetJobByID(ctx context.Context, id int64) (*models.Job, error) {
	for i := range m.Stored {
		if m.Stored[i].ID == id {
			j := m.Stored[i]
			return &j, nil
		}
	}
	return nil, nil
}

func (m *JobRepo) GetJobOwned(ctx context.Context, id, employerID int64) (*models.Job, error) {
	for i := range m.Stored {
		if m.Stored[i].ID == id && m.Stored[i].EmployerID == employerID {
			j := m.Stored[i]
			return &j, nil
		}
	}
	return nil, nil
}

func (m *JobRepo) UpdateJobOwned(ctx context.Context, id, employerID int64, patch *models.JobPatch) (bool, error) {
	for i := range m.Stored {
		if m.Stored[i].ID != id || m.Stored[i].EmployerID != employerID {
			continue
		}
		if patch.Title != nil {
			m.Stored[i].Title = *patch.Title
		}
		if patch.Description != nil {
			m.Stored[i].Description = *patch.Description
		}
		if patch.Skills != nil {
			m.Stored[i].Skills = *patch.Skills
		}
		if patch.Salary != nil {
			m.Stored[i].Salary = *patch.Salary
		}
		if patch.Location != nil {
			m.Stored[i].Location = *patch.Location
		}
		return true, nil
	}
	return false, nil
}

func (m *JobRepo) DeleteJobOwned(ctx context.Context, id, employerID int64) (bool, error) {
	for i := range m.Stored {
		if m.Stored[i].ID == id && m.Stored[i].EmployerID == employerID {
			m.Stored = append(m.Stored[:i], m.Stored[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *JobRepo) ListJobs(ctx context.Context, filter models.JobFilter, page, pageSize int) (*models.JobPage, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	total := int64(len(m.Stored))
	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	start := (page - 1) * pageSize
	jobs := []models.Job{}
	for i := start; i < len(m.Stored) && i < start+pageSize; i++ {
		jobs = append(jobs, m.Stored[i])
	}
	return &models.JobPage{Jobs: jobs, Total: total, Page: page, Pages: pages}, nil
}

func (m *JobRepo) ListJobsByEmployer(ctx context.Context, employerID int64) ([]models.Job, error) {
	jobs := []models.Job{}
	for _, j := range m.Stored {
		if j.EmployerID == employerID {
			jobs = append(jobs, j)
		}
	}
	return jobs, nil
}

type ApplicationRepo struct {
	Stored    []models.Application
	CreateErr error
	nextID    int64
}

func (m *ApplicationRepo) CreateApplication(ctx context.Context, a *models.Application) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	for _, s := range m.Stored {
		if s.JobID == a.JobID && s.ApplicantID == a.ApplicantID {
			return 0, apperr.Conflict("You have already applied for this job")
		}
	}
	m.nextID++
	c := *a
	c.ID = m.nextID
	if c.Status == "" {
		c.Status = models.StatusPending
	}
	m.Stored = append(m.Stored, c)
	return c.ID, nil
}

func (m *ApplicationRepo) GetApplication(ctx context.Context, jobID, applicantID int64) (*models.Application, error) {
	for i := range m.Stored {
		if m.Stored[i].JobID == jobID && m.Stored[i].ApplicantID == applicantID {
			a := m.Stored[i]
			return &a, nil
		}
	}
	return nil, nil
}

func (m *ApplicationRepo) ListApplicationsByApplicant(ctx context.Context, applicantID int64) ([]models.Application, error) {
	apps := []models.Application{}
	for _, a := range m.Stored {
		if a.ApplicantID == applicantID {
			apps = append(apps, a)
		}
	}
	return apps, nil
}

func (m *ApplicationRepo) ListApplicantsForJob(ctx context.Context, jobID int64) ([]models.Applicant, error) {
	applicants := []models.Applicant{}
	for _, a := range m.Stored {
		if a.JobID == jobID {
			applicants = append(applicants, models.Applicant{ID: a.ApplicantID})
		}
	}
	return applicants, nil
}
