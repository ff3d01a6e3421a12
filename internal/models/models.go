package models

// Role is the set of account kinds known to the system.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleEmployer  Role = "employer"
	RoleDeveloper Role = "developer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEmployer, RoleDeveloper:
		return true
	}
	return false
}

// ApplicationStatus tracks the lifecycle of a job application.
// Only pending applications are ever created by the wired endpoints;
// accepted/rejected are modeled for the review flow.
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusAccepted ApplicationStatus = "accepted"
	StatusRejected ApplicationStatus = "rejected"
)

// CanTransitionTo reports whether s may move to next. Pending may move to
// accepted or rejected; accepted and rejected are terminal.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	return s == StatusPending && (next == StatusAccepted || next == StatusRejected)
}

type User struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         Role   `json:"role" db:"role"`
	Phone        string `json:"phone,omitempty" db:"phone"`
	AvatarURL    string `json:"avatar,omitempty" db:"avatar_url"`
	RefreshToken string `json:"-" db:"refresh_token"`
	Created      int64  `json:"createdAt" db:"created"`
	Updated      int64  `json:"updatedAt" db:"updated"`
}

// Public returns a copy of u safe to put on the wire: credential fields are
// never serialized thanks to the json:"-" tags, but the copy also blanks them
// so callers cannot leak them by other means.
func (u User) Public() User {
	u.PasswordHash = ""
	u.RefreshToken = ""
	return u
}

type Job struct {
	ID          int64    `json:"id" db:"id"`
	Title       string   `json:"title" db:"title"`
	Description string   `json:"description" db:"description"`
	Skills      []string `json:"skills" db:"skills"`
	Salary      float64  `json:"salary" db:"salary"`
	Location    string   `json:"location" db:"location"`
	EmployerID  int64    `json:"employerId" db:"employer_id"`
	// EmployerName/EmployerEmail are populated on listings joined with the
	// owning user; empty elsewhere.
	EmployerName  string `json:"employerName,omitempty" db:"employer_name"`
	EmployerEmail string `json:"employerEmail,omitempty" db:"employer_email"`
	Created       int64  `json:"createdAt" db:"created"`
	Updated       int64  `json:"updatedAt" db:"updated"`
}

type Application struct {
	ID          int64             `json:"id" db:"id"`
	JobID       int64             `json:"jobId" db:"job_id"`
	ApplicantID int64             `json:"applicantId" db:"applicant_id"`
	CoverLetter string            `json:"coverLetter,omitempty" db:"cover_letter"`
	Status      ApplicationStatus `json:"status" db:"status"`
	Created     int64             `json:"appliedAt" db:"created"`
	// Job is the posting this application targets, populated on the
	// applied-jobs listing.
	Job *Job `json:"job,omitempty" db:"-"`
}

// Applicant is the subset of a user an employer sees when reviewing
// applications for an owned job.
type Applicant struct {
	ID        int64  `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	Email     string `json:"email" db:"email"`
	Phone     string `json:"phone,omitempty" db:"phone"`
	AvatarURL string `json:"avatar,omitempty" db:"avatar_url"`
}

// JobPatch is a partial job update; nil fields are left untouched.
type JobPatch struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Skills      *[]string `json:"skills"`
	Salary      *float64  `json:"salary"`
	Location    *string   `json:"location"`
}

// Empty reports whether the patch changes nothing.
func (p *JobPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Skills == nil &&
		p.Salary == nil && p.Location == nil
}

// JobFilter holds the optional browse filters; zero values mean "no
// constraint". All set fields are ANDed together.
type JobFilter struct {
	Skills    []string // job must carry every listed tag, exact match
	SalaryMin *float64 // inclusive
	SalaryMax *float64 // inclusive
	Location  string   // case-insensitive substring
	Search    string   // case-insensitive substring over title/description
	SortBy    JobSort
}

// JobSort selects the listing order.
type JobSort string

const (
	SortCreated JobSort = ""       // insertion order, the default
	SortSalary  JobSort = "salary" // salary descending, creation order as tiebreak
)

// JobPage is one page of a filtered job listing.
type JobPage struct {
	Jobs  []Job `json:"jobs"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
}
