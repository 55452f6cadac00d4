package domain

import (
	"context"
	"time"
)

// HistoryAction tags a history row with the mutation that produced it.
type HistoryAction string

const (
	HistoryActionCreate HistoryAction = "CREATE"
	HistoryActionUpdate HistoryAction = "UPDATE"
	HistoryActionDelete HistoryAction = "DELETE"
)

// History rows are denormalized snapshots of the tracked entity at the
// moment of the action. They are append-only: no code path updates or
// deletes them, and deleting the live row leaves its history intact.

type CandidateHistory struct {
	ID          int64           `json:"id"`
	CandidateID int64           `json:"candidate_id"`
	Action      HistoryAction   `json:"action"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	Location    string          `json:"location"`
	Citizenship string          `json:"citizenship"`
	ResumeURL   *string         `json:"resume_url,omitempty"`
	Status      CandidateStatus `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	CreatedBy   string          `json:"created_by"`
}

type CandidateSkillHistory struct {
	ID                int64         `json:"id"`
	SkillID           int64         `json:"skill_id"`
	CandidateID       int64         `json:"candidate_id"`
	Action            HistoryAction `json:"action"`
	University        string        `json:"university"`
	Qualification     string        `json:"qualification"`
	ProficiencyLevel  int           `json:"proficiency_level"`
	YearsOfExperience int           `json:"years_of_experience"`
	Skills            []string      `json:"skills"`
	CreatedAt         time.Time     `json:"created_at"`
	CreatedBy         string        `json:"created_by"`
}

type JobApplicationHistory struct {
	ID                int64            `json:"id"`
	JobApplicationID  int64            `json:"job_application_id"`
	CandidateID       int64            `json:"candidate_id"`
	Action            HistoryAction    `json:"action"`
	AppliedJob        AppliedJob       `json:"applied_job"`
	AppliedJobOther   string           `json:"applied_job_other,omitempty"`
	ApplicationStatus AppliedJobStatus `json:"application_status"`
	IsActive          bool             `json:"is_active"`
	Requirements      *string          `json:"requirements,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	CreatedBy         string           `json:"created_by"`
}

type InterviewStageHistory struct {
	ID               int64         `json:"id"`
	InterviewStageID int64         `json:"interview_stage_id"`
	JobApplicationID int64         `json:"job_application_id"`
	Action           HistoryAction `json:"action"`
	Name             string        `json:"name"`
	Rating           int           `json:"rating"`
	Feedback         string        `json:"feedback"`
	NextSteps        *string       `json:"next_steps,omitempty"`
	ShouldProgress   bool          `json:"should_progress"`
	CreatedAt        time.Time     `json:"created_at"`
	CreatedBy        string        `json:"created_by"`
}

// CandidateTimeline is the read side of the ledger: every history row that
// concerns one candidate, for the UI audit view.
type CandidateTimeline struct {
	Candidate       []CandidateHistory      `json:"candidate"`
	Skill           []CandidateSkillHistory `json:"skill"`
	JobApplications []JobApplicationHistory `json:"job_applications"`
	InterviewStages []InterviewStageHistory `json:"interview_stages"`
}

type HistoryRepository interface {
	ListForCandidate(ctx context.Context, candidateID int64) (*CandidateTimeline, error)
}

type HistoryUsecase interface {
	GetCandidateTimeline(ctx context.Context, candidateID int64) (*CandidateTimeline, error)
}
