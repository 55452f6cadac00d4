package domain

import (
	"context"
	"time"
)

// CandidateStatus is the lifecycle status of a candidate.
type CandidateStatus string

const (
	CandidateStatusOpen   CandidateStatus = "OPEN"
	CandidateStatusClosed CandidateStatus = "CLOSED"
)

func (s CandidateStatus) Valid() bool {
	return s == CandidateStatusOpen || s == CandidateStatusClosed
}

type Candidate struct {
	ID          int64           `json:"id"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	Location    string          `json:"location"`
	Citizenship string          `json:"citizenship"`
	ResumeURL   *string         `json:"resume_url,omitempty"`
	Status      CandidateStatus `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	CreatedBy   string          `json:"created_by"`
	UpdatedBy   string          `json:"updated_by"`
}

// CandidateSkill is the 1:1 skill profile owned by a candidate. It is set
// once at full-candidate creation and cannot outlive the candidate.
type CandidateSkill struct {
	ID                int64     `json:"id"`
	CandidateID       int64     `json:"candidate_id"`
	University        string    `json:"university"`
	Qualification     string    `json:"qualification"`
	ProficiencyLevel  int       `json:"proficiency_level"`
	YearsOfExperience int       `json:"years_of_experience"`
	Skills            []string  `json:"skills"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	CreatedBy         string    `json:"created_by"`
	UpdatedBy         string    `json:"updated_by"`
}

// CandidateAggregate is the single consistency boundary: a candidate plus
// its skill profile and job applications, created and loaded together.
type CandidateAggregate struct {
	Candidate
	Skill           CandidateSkill   `json:"candidate_skill"`
	JobApplications []JobApplication `json:"job_applications"`
}

type CreateCandidateInput struct {
	FirstName       string                      `json:"first_name" validate:"required,valid_name"`
	LastName        string                      `json:"last_name" validate:"required,valid_name"`
	Email           string                      `json:"email" validate:"required,email"`
	Phone           string                      `json:"phone" validate:"omitempty,valid_phone"`
	Location        string                      `json:"location"`
	Citizenship     string                      `json:"citizenship"`
	ResumeURL       *string                     `json:"resume_url" validate:"omitempty,url"`
	Status          CandidateStatus             `json:"status" validate:"omitempty,oneof=OPEN CLOSED"`
	CandidateSkill  CreateCandidateSkillInput   `json:"candidate_skill"`
	JobApplications []CreateJobApplicationInput `json:"job_applications" validate:"min=1,dive"`
}

// CreateCandidateSkillInput carries the skill profile for full-candidate
// creation. YearsOfExperience is always taken from the input and defaults
// to 0 when absent; ProficiencyLevel defaults to 1.
type CreateCandidateSkillInput struct {
	University        string   `json:"university" validate:"required"`
	Qualification     string   `json:"qualification" validate:"required"`
	ProficiencyLevel  int      `json:"proficiency_level" validate:"omitempty,min=1,max=10"`
	YearsOfExperience int      `json:"years_of_experience" validate:"min=0"`
	Skills            []string `json:"skills"`
}

// SkillPatch applies only its non-nil fields.
type SkillPatch struct {
	University        *string  `json:"university"`
	Qualification     *string  `json:"qualification"`
	ProficiencyLevel  *int     `json:"proficiency_level" validate:"omitempty,min=1,max=10"`
	YearsOfExperience *int     `json:"years_of_experience" validate:"omitempty,min=0"`
	Skills            []string `json:"skills"` // nil = unchanged
}

type CandidateRepository interface {
	// CreateFull persists the candidate, its skill profile, every job
	// application, and their CREATE history rows in one transaction.
	// Returns ErrDuplicateEmail when the email is already on file.
	CreateFull(ctx context.Context, agg *CandidateAggregate) error
	GetFullByID(ctx context.Context, id int64) (*CandidateAggregate, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateResumeURL(ctx context.Context, id int64, resumeURL string) error
	Delete(ctx context.Context, id int64) error
}

type SkillRepository interface {
	GetByID(ctx context.Context, id int64) (*CandidateSkill, error)
	UpdatePartial(ctx context.Context, id int64, patch SkillPatch) (*CandidateSkill, error)
	Delete(ctx context.Context, id int64) error
}

type CandidateUsecase interface {
	CreateFullCandidate(ctx context.Context, input CreateCandidateInput) (*CandidateAggregate, error)
	GetCandidate(ctx context.Context, id int64) (*CandidateAggregate, error)
	DeleteCandidate(ctx context.Context, id int64) error
	AttachResume(ctx context.Context, id int64, resumeURL string) error
	UpdateCandidateSkill(ctx context.Context, id int64, patch SkillPatch) (*CandidateSkill, error)
	DeleteCandidateSkill(ctx context.Context, id int64) error
	AddJobApplication(ctx context.Context, candidateID int64, input CreateJobApplicationInput) (*JobApplication, error)
	UpdateJobApplication(ctx context.Context, id int64, patch JobApplicationPatch) (*JobApplication, error)
	AddInterviewStage(ctx context.Context, applicationID int64, input CreateInterviewStageInput) (*InterviewStage, error)
	UpdateInterviewStage(ctx context.Context, id int64, patch InterviewStagePatch) (*InterviewStage, error)
}
