package postgres

import (
	"context"
	"errors"
	"fmt"

	"go-recruitment-tracker/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

type candidateRepository struct {
	db      DB
	history historyRecorder
}

func NewCandidateRepository(db DB) domain.CandidateRepository {
	return &candidateRepository{db: db}
}

// isUniqueViolation reports whether err is a postgres unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *candidateRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM candidates WHERE lower(email) = lower($1))`
	var exists bool
	err := r.db.QueryRow(ctx, query, email).Scan(&exists)
	return exists, err
}

// CreateFull persists the whole aggregate as one transaction: candidate
// first (FK dependency order), then skill profile, then each job
// application — each immediately followed by its CREATE history row. Any
// failure rolls back every row written so far in this call.
func (r *candidateRepository) CreateFull(ctx context.Context, agg *domain.CandidateAggregate) error {
	actor := domain.ActingUser(ctx)

	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		candidateQuery := `
			INSERT INTO candidates (
				first_name, last_name, email, phone, location, citizenship,
				resume_url, status, created_at, updated_at, created_by, updated_by
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW(), $9, $9)
			RETURNING id, created_at, updated_at`

		err := tx.QueryRow(ctx, candidateQuery,
			agg.FirstName, agg.LastName, agg.Email, agg.Phone, agg.Location,
			agg.Citizenship, agg.ResumeURL, agg.Status, actor,
		).Scan(&agg.ID, &agg.CreatedAt, &agg.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicateEmail
			}
			return fmt.Errorf("insert candidate: %w", err)
		}
		agg.CreatedBy = actor
		agg.UpdatedBy = actor

		if err := r.history.RecordCandidate(ctx, tx, domain.HistoryActionCreate, &agg.Candidate); err != nil {
			return err
		}

		skillQuery := `
			INSERT INTO candidate_skills (
				candidate_id, university, qualification, proficiency_level,
				years_of_experience, skills, created_at, updated_at, created_by, updated_by
			) VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW(), $7, $7)
			RETURNING id, created_at, updated_at`

		agg.Skill.CandidateID = agg.ID
		err = tx.QueryRow(ctx, skillQuery,
			agg.ID, agg.Skill.University, agg.Skill.Qualification,
			agg.Skill.ProficiencyLevel, agg.Skill.YearsOfExperience,
			pq.Array(agg.Skill.Skills), actor,
		).Scan(&agg.Skill.ID, &agg.Skill.CreatedAt, &agg.Skill.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert candidate skill: %w", err)
		}
		agg.Skill.CreatedBy = actor
		agg.Skill.UpdatedBy = actor

		if err := r.history.RecordSkill(ctx, tx, domain.HistoryActionCreate, &agg.Skill); err != nil {
			return err
		}

		appQuery := `
			INSERT INTO job_applications (
				candidate_id, applied_job, applied_job_other, application_status,
				is_active, requirements, created_at, updated_at, created_by, updated_by
			) VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW(), $7, $7)
			RETURNING id, created_at, updated_at`

		for i := range agg.JobApplications {
			app := &agg.JobApplications[i]
			app.CandidateID = agg.ID
			err := tx.QueryRow(ctx, appQuery,
				agg.ID, app.AppliedJob, app.AppliedJobOther, app.ApplicationStatus,
				app.IsActive, app.Requirements, actor,
			).Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)
			if err != nil {
				return fmt.Errorf("insert job application: %w", err)
			}
			app.CreatedBy = actor
			app.UpdatedBy = actor

			if err := r.history.RecordJobApplication(ctx, tx, domain.HistoryActionCreate, app); err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *candidateRepository) GetFullByID(ctx context.Context, id int64) (*domain.CandidateAggregate, error) {
	return getFullCandidate(ctx, r.db, id)
}

// getFullCandidate loads the whole aggregate; q may be the pool or an
// enclosing transaction. Returns nil when the candidate does not exist.
func getFullCandidate(ctx context.Context, q querier, id int64) (*domain.CandidateAggregate, error) {
	candidateQuery := `
		SELECT id, first_name, last_name, email, phone, location, citizenship,
		       resume_url, status, created_at, updated_at, created_by, updated_by
		FROM candidates WHERE id = $1`

	agg := &domain.CandidateAggregate{JobApplications: []domain.JobApplication{}}
	err := q.QueryRow(ctx, candidateQuery, id).Scan(
		&agg.ID, &agg.FirstName, &agg.LastName, &agg.Email, &agg.Phone,
		&agg.Location, &agg.Citizenship, &agg.ResumeURL, &agg.Status,
		&agg.CreatedAt, &agg.UpdatedAt, &agg.CreatedBy, &agg.UpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch candidate: %w", err)
	}

	skillQuery := `
		SELECT id, candidate_id, university, qualification, proficiency_level,
		       years_of_experience, skills, created_at, updated_at, created_by, updated_by
		FROM candidate_skills WHERE candidate_id = $1`

	var skills []string
	err = q.QueryRow(ctx, skillQuery, id).Scan(
		&agg.Skill.ID, &agg.Skill.CandidateID, &agg.Skill.University,
		&agg.Skill.Qualification, &agg.Skill.ProficiencyLevel,
		&agg.Skill.YearsOfExperience, pq.Array(&skills),
		&agg.Skill.CreatedAt, &agg.Skill.UpdatedAt, &agg.Skill.CreatedBy, &agg.Skill.UpdatedBy,
	)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("fetch candidate skill: %w", err)
	}
	agg.Skill.Skills = skills

	appQuery := `
		SELECT id, candidate_id, applied_job, applied_job_other, application_status,
		       is_active, requirements, created_at, updated_at, created_by, updated_by
		FROM job_applications WHERE candidate_id = $1 ORDER BY id`

	rows, err := q.Query(ctx, appQuery, id)
	if err != nil {
		return nil, fmt.Errorf("fetch job applications: %w", err)
	}
	defer rows.Close()

	appIndex := map[int64]int{}
	for rows.Next() {
		var app domain.JobApplication
		if err := rows.Scan(
			&app.ID, &app.CandidateID, &app.AppliedJob, &app.AppliedJobOther,
			&app.ApplicationStatus, &app.IsActive, &app.Requirements,
			&app.CreatedAt, &app.UpdatedAt, &app.CreatedBy, &app.UpdatedBy,
		); err != nil {
			return nil, err
		}
		app.InterviewStages = []domain.InterviewStage{}
		appIndex[app.ID] = len(agg.JobApplications)
		agg.JobApplications = append(agg.JobApplications, app)
	}
	rows.Close()

	stageQuery := `
		SELECT s.id, s.job_application_id, s.name, s.rating, s.feedback,
		       s.next_steps, s.should_progress, s.created_at, s.updated_at,
		       s.created_by, s.updated_by
		FROM interview_stages s
		JOIN job_applications a ON s.job_application_id = a.id
		WHERE a.candidate_id = $1
		ORDER BY s.id`

	sRows, err := q.Query(ctx, stageQuery, id)
	if err != nil {
		return nil, fmt.Errorf("fetch interview stages: %w", err)
	}
	defer sRows.Close()

	for sRows.Next() {
		var st domain.InterviewStage
		if err := sRows.Scan(
			&st.ID, &st.JobApplicationID, &st.Name, &st.Rating, &st.Feedback,
			&st.NextSteps, &st.ShouldProgress, &st.CreatedAt, &st.UpdatedAt,
			&st.CreatedBy, &st.UpdatedBy,
		); err != nil {
			return nil, err
		}
		if idx, ok := appIndex[st.JobApplicationID]; ok {
			agg.JobApplications[idx].InterviewStages = append(agg.JobApplications[idx].InterviewStages, st)
		}
	}

	return agg, nil
}

func (r *candidateRepository) UpdateResumeURL(ctx context.Context, id int64, resumeURL string) error {
	actor := domain.ActingUser(ctx)

	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			UPDATE candidates
			SET resume_url = $2, updated_at = NOW(), updated_by = $3
			WHERE id = $1
			RETURNING first_name, last_name, email, phone, location, citizenship, status`

		c := domain.Candidate{ID: id, ResumeURL: &resumeURL}
		err := tx.QueryRow(ctx, query, id, resumeURL, actor).Scan(
			&c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.Location,
			&c.Citizenship, &c.Status,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("update resume url: %w", err)
		}

		return r.history.RecordCandidate(ctx, tx, domain.HistoryActionUpdate, &c)
	})
}

// Delete removes the candidate and, via FK cascade, its skill profile, job
// applications, and interview stages. Each removed row gets a DELETE
// history entry carrying its last snapshot; the ledger itself is untouched.
func (r *candidateRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		agg, err := getFullCandidate(ctx, tx, id)
		if err != nil {
			return err
		}
		if agg == nil {
			return domain.ErrNotFound
		}

		if _, err := tx.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete candidate: %w", err)
		}

		if err := r.history.RecordCandidate(ctx, tx, domain.HistoryActionDelete, &agg.Candidate); err != nil {
			return err
		}
		if agg.Skill.ID != 0 {
			if err := r.history.RecordSkill(ctx, tx, domain.HistoryActionDelete, &agg.Skill); err != nil {
				return err
			}
		}
		for i := range agg.JobApplications {
			app := &agg.JobApplications[i]
			if err := r.history.RecordJobApplication(ctx, tx, domain.HistoryActionDelete, app); err != nil {
				return err
			}
			for j := range app.InterviewStages {
				if err := r.history.RecordInterviewStage(ctx, tx, domain.HistoryActionDelete, &app.InterviewStages[j]); err != nil {
					return err
				}
			}
		}

		return nil
	})
}
