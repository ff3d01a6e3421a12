package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/joblink/joblink/internal/models"
)

func (r *SQLiteRepo) CreateJob(ctx context.Context, j *models.Job) (int64, error) {
	if j == nil {
		return 0, fmt.Errorf("job is nil")
	}

	skills, err := json.Marshal(j.Skills)
	if err != nil {
		return 0, fmt.Errorf("marshal skills: %w", err)
	}

	ts := now()
	res, err := r.conn.Exec(ctx,
		`INSERT INTO jobs (title, description, skills, salary, location, employer_id, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		j.Title, j.Description, string(skills), j.Salary, j.Location, j.EmployerID, ts, ts)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

const jobColumns = `j.id, j.title, j.description, j.skills, j.salary, j.location, j.employer_id, j.created, j.updated`

func (r *SQLiteRepo) GetJobByID(ctx context.Context, id int64) (*models.Job, error) {
	return r.scanJob(r.conn.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs j WHERE j.id = ?`, id))
}

// GetJobOwned scopes the lookup by both id and owner in one read, so "absent"
// and "not yours" are the same outcome.
func (r *SQLiteRepo) GetJobOwned(ctx context.Context, id, employerID int64) (*models.Job, error) {
	return r.scanJob(r.conn.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs j WHERE j.id = ? AND j.employer_id = ?`, id, employerID))
}

func (r *SQLiteRepo) UpdateJobOwned(ctx context.Context, id, employerID int64, patch *models.JobPatch) (bool, error) {
	if patch == nil || patch.Empty() {
		// nothing to change; still report whether the scoped row exists
		j, err := r.GetJobOwned(ctx, id, employerID)
		return j != nil, err
	}

	sets := make([]string, 0, 6)
	args := make([]any, 0, 8)
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Skills != nil {
		b, err := json.Marshal(*patch.Skills)
		if err != nil {
			return false, fmt.Errorf("marshal skills: %w", err)
		}
		sets = append(sets, "skills = ?")
		args = append(args, string(b))
	}
	if patch.Salary != nil {
		sets = append(sets, "salary = ?")
		args = append(args, *patch.Salary)
	}
	if patch.Location != nil {
		sets = append(sets, "location = ?")
		args = append(args, *patch.Location)
	}
	sets = append(sets, "updated = ?")
	args = append(args, now(), id, employerID)

	res, err := r.conn.Exec(ctx,
		`UPDATE jobs SET `+strings.Join(sets, ", ")+` WHERE id = ? AND employer_id = ?`, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *SQLiteRepo) DeleteJobOwned(ctx context.Context, id, employerID int64) (bool, error) {
	res, err := r.conn.Exec(ctx, `DELETE FROM jobs WHERE id = ? AND employer_id = ?`, id, employerID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListJobs runs the filtered, paginated browse query. All filters are ANDed;
// the skills filter requires every listed tag to be present in the job's tag
// array (exact, case-sensitive match via json_each).
func (r *SQLiteRepo) ListJobs(ctx context.Context, filter models.JobFilter, page, pageSize int) (*models.JobPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	where, args := buildJobWhere(filter)

	var total int64
	row := r.conn.QueryRow(ctx, `SELECT COUNT(1) FROM jobs j`+where, args...)
	if err := row.Scan(&total); err != nil {
		return nil, err
	}

	order := ` ORDER BY j.id`
	if filter.SortBy == models.SortSalary {
		order = ` ORDER BY j.salary DESC, j.id`
	}

	listArgs := append(args, pageSize, (page-1)*pageSize)
	rows, err := r.conn.QueryRows(ctx,
		`SELECT `+jobColumns+`, u.name, u.email FROM jobs j JOIN users u ON u.id = j.employer_id`+
			where+order+` LIMIT ? OFFSET ?`, listArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []models.Job{}
	for rows.Next() {
		j, err := scanJobRow(rows, true)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &models.JobPage{Jobs: jobs, Total: total, Page: page, Pages: pages}, nil
}

func buildJobWhere(filter models.JobFilter) (string, []any) {
	var conds []string
	var args []any

	for _, skill := range filter.Skills {
		conds = append(conds, `EXISTS (SELECT 1 FROM json_each(j.skills) WHERE json_each.value = ?)`)
		args = append(args, skill)
	}
	if filter.SalaryMin != nil {
		conds = append(conds, `j.salary >= ?`)
		args = append(args, *filter.SalaryMin)
	}
	if filter.SalaryMax != nil {
		conds = append(conds, `j.salary <= ?`)
		args = append(args, *filter.SalaryMax)
	}
	if filter.Location != "" {
		conds = append(conds, `instr(lower(j.location), lower(?)) > 0`)
		args = append(args, filter.Location)
	}
	if filter.Search != "" {
		conds = append(conds, `(instr(lower(j.title), lower(?)) > 0 OR instr(lower(j.description), lower(?)) > 0)`)
		args = append(args, filter.Search, filter.Search)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *SQLiteRepo) ListJobsByEmployer(ctx context.Context, employerID int64) ([]models.Job, error) {
	rows, err := r.conn.QueryRows(ctx,
		`SELECT `+jobColumns+`, u.name, u.email FROM jobs j JOIN users u ON u.id = j.employer_id WHERE j.employer_id = ? ORDER BY j.id`, employerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []models.Job{}
	for rows.Next() {
		j, err := scanJobRow(rows, true)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

func (r *SQLiteRepo) scanJob(row *sql.Row) (*models.Job, error) {
	j, err := scanJobRow(row, false)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return j, err
}

func scanJobRow(s rowScanner, withEmployer bool) (*models.Job, error) {
	var j models.Job
	var skills string
	dest := []any{&j.ID, &j.Title, &j.Description, &skills, &j.Salary, &j.Location, &j.EmployerID, &j.Created, &j.Updated}
	if withEmployer {
		dest = append(dest, &j.EmployerName, &j.EmployerEmail)
	}
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	if err := unmarshalSkills(skills, &j); err != nil {
		return nil, err
	}
	return &j, nil
}

func unmarshalSkills(raw string, j *models.Job) error {
	if err := json.Unmarshal([]byte(raw), &j.Skills); err != nil {
		return fmt.Errorf("unmarshal skills for job %d: %w", j.ID, err)
	}
	return nil
}
