package postgres

import (
	"context"
	"fmt"

	"go-recruitment-tracker/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
)

// historyRecorder appends immutable audit rows. One typed method per
// tracked entity, so an unknown entity kind cannot exist at runtime.
// Every method takes the caller's transaction handle and never opens its
// own, keeping the business write and its audit copy atomic together.
// The acting user is read from ctx and stamped as created_by.
type historyRecorder struct{}

func (historyRecorder) RecordCandidate(ctx context.Context, tx pgx.Tx, action domain.HistoryAction, c *domain.Candidate) error {
	query := `
		INSERT INTO candidate_history (
			candidate_id, action, first_name, last_name, email, phone,
			location, citizenship, resume_url, status, created_at, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), $11)`

	_, err := tx.Exec(ctx, query,
		c.ID, action, c.FirstName, c.LastName, c.Email, c.Phone,
		c.Location, c.Citizenship, c.ResumeURL, c.Status, domain.ActingUser(ctx),
	)
	if err != nil {
		return fmt.Errorf("record candidate history: %w", err)
	}
	return nil
}

func (historyRecorder) RecordSkill(ctx context.Context, tx pgx.Tx, action domain.HistoryAction, s *domain.CandidateSkill) error {
	query := `
		INSERT INTO candidate_skill_history (
			skill_id, candidate_id, action, university, qualification,
			proficiency_level, years_of_experience, skills, created_at, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), $9)`

	_, err := tx.Exec(ctx, query,
		s.ID, s.CandidateID, action, s.University, s.Qualification,
		s.ProficiencyLevel, s.YearsOfExperience, pq.Array(s.Skills), domain.ActingUser(ctx),
	)
	if err != nil {
		return fmt.Errorf("record skill history: %w", err)
	}
	return nil
}

func (historyRecorder) RecordJobApplication(ctx context.Context, tx pgx.Tx, action domain.HistoryAction, a *domain.JobApplication) error {
	query := `
		INSERT INTO job_application_history (
			job_application_id, candidate_id, action, applied_job,
			applied_job_other, application_status, is_active, requirements,
			created_at, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), $9)`

	_, err := tx.Exec(ctx, query,
		a.ID, a.CandidateID, action, a.AppliedJob,
		a.AppliedJobOther, a.ApplicationStatus, a.IsActive, a.Requirements,
		domain.ActingUser(ctx),
	)
	if err != nil {
		return fmt.Errorf("record job application history: %w", err)
	}
	return nil
}

func (historyRecorder) RecordInterviewStage(ctx context.Context, tx pgx.Tx, action domain.HistoryAction, s *domain.InterviewStage) error {
	query := `
		INSERT INTO interview_stage_history (
			interview_stage_id, job_application_id, action, name, rating,
			feedback, next_steps, should_progress, created_at, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), $9)`

	_, err := tx.Exec(ctx, query,
		s.ID, s.JobApplicationID, action, s.Name, s.Rating,
		s.Feedback, s.NextSteps, s.ShouldProgress, domain.ActingUser(ctx),
	)
	if err != nil {
		return fmt.Errorf("record interview stage history: %w", err)
	}
	return nil
}

// =================================================================================================
// Read side: the audit timeline for one candidate
// =================================================================================================

type historyRepository struct {
	db DB
}

func NewHistoryRepository(db DB) domain.HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) ListForCandidate(ctx context.Context, candidateID int64) (*domain.CandidateTimeline, error) {
	timeline := &domain.CandidateTimeline{
		Candidate:       []domain.CandidateHistory{},
		Skill:           []domain.CandidateSkillHistory{},
		JobApplications: []domain.JobApplicationHistory{},
		InterviewStages: []domain.InterviewStageHistory{},
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, candidate_id, action, first_name, last_name, email, phone,
		       location, citizenship, resume_url, status, created_at, created_by
		FROM candidate_history WHERE candidate_id = $1 ORDER BY created_at, id`, candidateID)
	if err != nil {
		return nil, fmt.Errorf("fetch candidate history: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var h domain.CandidateHistory
		if err := rows.Scan(
			&h.ID, &h.CandidateID, &h.Action, &h.FirstName, &h.LastName, &h.Email, &h.Phone,
			&h.Location, &h.Citizenship, &h.ResumeURL, &h.Status, &h.CreatedAt, &h.CreatedBy,
		); err != nil {
			return nil, err
		}
		timeline.Candidate = append(timeline.Candidate, h)
	}

	sRows, err := r.db.Query(ctx, `
		SELECT id, skill_id, candidate_id, action, university, qualification,
		       proficiency_level, years_of_experience, skills, created_at, created_by
		FROM candidate_skill_history WHERE candidate_id = $1 ORDER BY created_at, id`, candidateID)
	if err != nil {
		return nil, fmt.Errorf("fetch skill history: %w", err)
	}
	defer sRows.Close()
	for sRows.Next() {
		var h domain.CandidateSkillHistory
		var skills []string
		if err := sRows.Scan(
			&h.ID, &h.SkillID, &h.CandidateID, &h.Action, &h.University, &h.Qualification,
			&h.ProficiencyLevel, &h.YearsOfExperience, pq.Array(&skills), &h.CreatedAt, &h.CreatedBy,
		); err != nil {
			return nil, err
		}
		h.Skills = skills
		timeline.Skill = append(timeline.Skill, h)
	}

	aRows, err := r.db.Query(ctx, `
		SELECT id, job_application_id, candidate_id, action, applied_job,
		       applied_job_other, application_status, is_active, requirements,
		       created_at, created_by
		FROM job_application_history WHERE candidate_id = $1 ORDER BY created_at, id`, candidateID)
	if err != nil {
		return nil, fmt.Errorf("fetch job application history: %w", err)
	}
	defer aRows.Close()
	for aRows.Next() {
		var h domain.JobApplicationHistory
		if err := aRows.Scan(
			&h.ID, &h.JobApplicationID, &h.CandidateID, &h.Action, &h.AppliedJob,
			&h.AppliedJobOther, &h.ApplicationStatus, &h.IsActive, &h.Requirements,
			&h.CreatedAt, &h.CreatedBy,
		); err != nil {
			return nil, err
		}
		timeline.JobApplications = append(timeline.JobApplications, h)
	}

	// Resolved through the application ledger rather than the live table,
	// so stages of deleted applications stay visible.
	iRows, err := r.db.Query(ctx, `
		SELECT id, interview_stage_id, job_application_id, action, name, rating,
		       feedback, next_steps, should_progress, created_at, created_by
		FROM interview_stage_history
		WHERE job_application_id IN (
			SELECT DISTINCT job_application_id FROM job_application_history WHERE candidate_id = $1
		)
		ORDER BY created_at, id`, candidateID)
	if err != nil {
		return nil, fmt.Errorf("fetch interview stage history: %w", err)
	}
	defer iRows.Close()
	for iRows.Next() {
		var h domain.InterviewStageHistory
		if err := iRows.Scan(
			&h.ID, &h.InterviewStageID, &h.JobApplicationID, &h.Action, &h.Name, &h.Rating,
			&h.Feedback, &h.NextSteps, &h.ShouldProgress, &h.CreatedAt, &h.CreatedBy,
		); err != nil {
			return nil, err
		}
		timeline.InterviewStages = append(timeline.InterviewStages, h)
	}

	return timeline, nil
}
