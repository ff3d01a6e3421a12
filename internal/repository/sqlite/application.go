package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/joblink/joblink/internal/models"
	"github.com/joblink/joblink/pkg/apperr"
)

// CreateApplication inserts the application. The UNIQUE(job_id, applicant_id)
// index is the authority on duplicates: two concurrent identical requests
// both reach the INSERT, at most one row lands, the loser gets the conflict.
func (r *SQLiteRepo) CreateApplication(ctx context.Context, a *models.Application) (int64, error) {
	if a == nil {
		return 0, fmt.Errorf("application is nil")
	}
	if a.Status == "" {
		a.Status = models.StatusPending
	}

	res, err := r.conn.Exec(ctx,
		`INSERT INTO applications (job_id, applicant_id, cover_letter, status, created) VALUES (?, ?, ?, ?, ?)`,
		a.JobID, a.ApplicantID, nullable(a.CoverLetter), string(a.Status), now())
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperr.Conflict("You have already applied for this job")
		}
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetApplication(ctx context.Context, jobID, applicantID int64) (*models.Application, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT id, job_id, applicant_id, cover_letter, status, created FROM applications WHERE job_id = ? AND applicant_id = ?`,
		jobID, applicantID)
	a, err := scanApplicationRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return a, err
}

// ListApplicationsByApplicant returns the developer's applications with each
// target job and its employer attached.
func (r *SQLiteRepo) ListApplicationsByApplicant(ctx context.Context, applicantID int64) ([]models.Application, error) {
	rows, err := r.conn.QueryRows(ctx,
		`SELECT a.id, a.job_id, a.applicant_id, a.cover_letter, a.status, a.created, `+jobColumns+`, u.name, u.email
		 FROM applications a
		 JOIN jobs j ON j.id = a.job_id
		 JOIN users u ON u.id = j.employer_id
		 WHERE a.applicant_id = ? ORDER BY a.id`, applicantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := []models.Application{}
	for rows.Next() {
		var a models.Application
		var cover sql.NullString
		var status string
		var j models.Job
		var skills string
		if err := rows.Scan(&a.ID, &a.JobID, &a.ApplicantID, &cover, &status, &a.Created,
			&j.ID, &j.Title, &j.Description, &skills, &j.Salary, &j.Location, &j.EmployerID, &j.Created, &j.Updated,
			&j.EmployerName, &j.EmployerEmail); err != nil {
			return nil, err
		}
		a.CoverLetter = cover.String
		a.Status = models.ApplicationStatus(status)
		if err := unmarshalSkills(skills, &j); err != nil {
			return nil, err
		}
		a.Job = &j
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// ListApplicantsForJob returns the job's applicants in application order, the
// append-only sequence the posting accumulates.
func (r *SQLiteRepo) ListApplicantsForJob(ctx context.Context, jobID int64) ([]models.Applicant, error) {
	rows, err := r.conn.QueryRows(ctx,
		`SELECT u.id, u.name, u.email, u.phone, u.avatar_url
		 FROM applications a JOIN users u ON u.id = a.applicant_id
		 WHERE a.job_id = ? ORDER BY a.id`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applicants := []models.Applicant{}
	for rows.Next() {
		var ap models.Applicant
		var phone, avatar sql.NullString
		if err := rows.Scan(&ap.ID, &ap.Name, &ap.Email, &phone, &avatar); err != nil {
			return nil, err
		}
		ap.Phone = phone.String
		ap.AvatarURL = avatar.String
		applicants = append(applicants, ap)
	}
	return applicants, rows.Err()
}

func scanApplicationRow(s rowScanner) (*models.Application, error) {
	var a models.Application
	var cover sql.NullString
	var status string
	if err := s.Scan(&a.ID, &a.JobID, &a.ApplicantID, &cover, &status, &a.Created); err != nil {
		return nil, err
	}
	a.CoverLetter = cover.String
	a.Status = models.ApplicationStatus(status)
	return &a, nil
}
