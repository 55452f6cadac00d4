package domain

import (
	"context"
	"time"
)

// AppliedJob is the closed job-category enum. OTHER is accompanied by the
// free-text AppliedJobOther field.
type AppliedJob string

const (
	AppliedJobTech       AppliedJob = "TECH"
	AppliedJobFinance    AppliedJob = "FINANCE"
	AppliedJobMarketing  AppliedJob = "MARKETING"
	AppliedJobSales      AppliedJob = "SALES"
	AppliedJobOperations AppliedJob = "OPERATIONS"
	AppliedJobHR         AppliedJob = "HR"
	AppliedJobOther      AppliedJob = "OTHER"
)

func (j AppliedJob) Valid() bool {
	switch j {
	case AppliedJobTech, AppliedJobFinance, AppliedJobMarketing,
		AppliedJobSales, AppliedJobOperations, AppliedJobHR, AppliedJobOther:
		return true
	}
	return false
}

type AppliedJobStatus string

const (
	AppliedJobStatusActive    AppliedJobStatus = "ACTIVE"
	AppliedJobStatusHired     AppliedJobStatus = "HIRED"
	AppliedJobStatusRejected  AppliedJobStatus = "REJECTED"
	AppliedJobStatusWithdrawn AppliedJobStatus = "WITHDRAWN"
)

type JobApplication struct {
	ID                int64            `json:"id"`
	CandidateID       int64            `json:"candidate_id"`
	AppliedJob        AppliedJob       `json:"applied_job"`
	AppliedJobOther   string           `json:"applied_job_other,omitempty"`
	ApplicationStatus AppliedJobStatus `json:"application_status"`
	IsActive          bool             `json:"is_active"`
	Requirements      *string          `json:"requirements,omitempty"`
	InterviewStages   []InterviewStage `json:"interview_stages,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
	CreatedBy         string           `json:"created_by"`
	UpdatedBy         string           `json:"updated_by"`
}

// InterviewStage is one round of interview feedback on a job application.
type InterviewStage struct {
	ID               int64     `json:"id"`
	JobApplicationID int64     `json:"job_application_id"`
	Name             string    `json:"name"`
	Rating           int       `json:"rating"`
	Feedback         string    `json:"feedback"`
	NextSteps        *string   `json:"next_steps,omitempty"`
	ShouldProgress   bool      `json:"should_progress"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	CreatedBy        string    `json:"created_by"`
	UpdatedBy        string    `json:"updated_by"`
}

type CreateJobApplicationInput struct {
	AppliedJob        AppliedJob       `json:"applied_job" validate:"required,oneof=TECH FINANCE MARKETING SALES OPERATIONS HR OTHER"`
	AppliedJobOther   string           `json:"applied_job_other"`
	ApplicationStatus AppliedJobStatus `json:"application_status" validate:"omitempty,oneof=ACTIVE HIRED REJECTED WITHDRAWN"`
	IsActive          *bool            `json:"is_active"` // nil defaults to true
	Requirements      *string          `json:"requirements"`
}

type JobApplicationPatch struct {
	AppliedJob        *AppliedJob       `json:"applied_job" validate:"omitempty,oneof=TECH FINANCE MARKETING SALES OPERATIONS HR OTHER"`
	AppliedJobOther   *string           `json:"applied_job_other"`
	ApplicationStatus *AppliedJobStatus `json:"application_status" validate:"omitempty,oneof=ACTIVE HIRED REJECTED WITHDRAWN"`
	IsActive          *bool             `json:"is_active"`
	Requirements      *string           `json:"requirements"`
}

type CreateInterviewStageInput struct {
	Name           string  `json:"name" validate:"required"`
	Rating         int     `json:"rating" validate:"min=1,max=5"`
	Feedback       string  `json:"feedback"`
	NextSteps      *string `json:"next_steps"`
	ShouldProgress bool    `json:"should_progress"`
}

type InterviewStagePatch struct {
	Name           *string `json:"name"`
	Rating         *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Feedback       *string `json:"feedback"`
	NextSteps      *string `json:"next_steps"`
	ShouldProgress *bool   `json:"should_progress"`
}

type JobApplicationRepository interface {
	// CreateForCandidate inserts the application and its CREATE history row
	// in one transaction.
	CreateForCandidate(ctx context.Context, app *JobApplication) error
	GetByID(ctx context.Context, id int64) (*JobApplication, error)
	UpdatePartial(ctx context.Context, id int64, patch JobApplicationPatch) (*JobApplication, error)
}

type InterviewStageRepository interface {
	Create(ctx context.Context, stage *InterviewStage) error
	GetByID(ctx context.Context, id int64) (*InterviewStage, error)
	UpdatePartial(ctx context.Context, id int64, patch InterviewStagePatch) (*InterviewStage, error)
}
