package postgres

import (
	"context"
	"errors"
	"fmt"

	"go-recruitment-tracker/internal/domain"

	"github.com/jackc/pgx/v5"
)

type jobApplicationRepository struct {
	db      DB
	history historyRecorder
}

func NewJobApplicationRepository(db DB) domain.JobApplicationRepository {
	return &jobApplicationRepository{db: db}
}

func (r *jobApplicationRepository) CreateForCandidate(ctx context.Context, app *domain.JobApplication) error {
	actor := domain.ActingUser(ctx)

	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO job_applications (
				candidate_id, applied_job, applied_job_other, application_status,
				is_active, requirements, created_at, updated_at, created_by, updated_by
			) VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW(), $7, $7)
			RETURNING id, created_at, updated_at`

		err := tx.QueryRow(ctx, query,
			app.CandidateID, app.AppliedJob, app.AppliedJobOther,
			app.ApplicationStatus, app.IsActive, app.Requirements, actor,
		).Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert job application: %w", err)
		}
		app.CreatedBy = actor
		app.UpdatedBy = actor

		return r.history.RecordJobApplication(ctx, tx, domain.HistoryActionCreate, app)
	})
}

func (r *jobApplicationRepository) GetByID(ctx context.Context, id int64) (*domain.JobApplication, error) {
	return getJobApplication(ctx, r.db, id)
}

func getJobApplication(ctx context.Context, q querier, id int64) (*domain.JobApplication, error) {
	query := `
		SELECT id, candidate_id, applied_job, applied_job_other, application_status,
		       is_active, requirements, created_at, updated_at, created_by, updated_by
		FROM job_applications WHERE id = $1`

	var app domain.JobApplication
	err := q.QueryRow(ctx, query, id).Scan(
		&app.ID, &app.CandidateID, &app.AppliedJob, &app.AppliedJobOther,
		&app.ApplicationStatus, &app.IsActive, &app.Requirements,
		&app.CreatedAt, &app.UpdatedAt, &app.CreatedBy, &app.UpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("fetch job application: %w", err)
	}
	return &app, nil
}

func (r *jobApplicationRepository) UpdatePartial(ctx context.Context, id int64, patch domain.JobApplicationPatch) (*domain.JobApplication, error) {
	actor := domain.ActingUser(ctx)
	var updated *domain.JobApplication

	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		app, err := getJobApplication(ctx, tx, id)
		if err != nil {
			return err
		}

		if patch.AppliedJob != nil {
			app.AppliedJob = *patch.AppliedJob
		}
		if patch.AppliedJobOther != nil {
			app.AppliedJobOther = *patch.AppliedJobOther
		}
		if patch.ApplicationStatus != nil {
			app.ApplicationStatus = *patch.ApplicationStatus
		}
		if patch.IsActive != nil {
			app.IsActive = *patch.IsActive
		}
		if patch.Requirements != nil {
			app.Requirements = patch.Requirements
		}

		query := `
			UPDATE job_applications
			SET applied_job = $2, applied_job_other = $3, application_status = $4,
			    is_active = $5, requirements = $6, updated_at = NOW(), updated_by = $7
			WHERE id = $1
			RETURNING updated_at`

		err = tx.QueryRow(ctx, query,
			id, app.AppliedJob, app.AppliedJobOther, app.ApplicationStatus,
			app.IsActive, app.Requirements, actor,
		).Scan(&app.UpdatedAt)
		if err != nil {
			return fmt.Errorf("update job application: %w", err)
		}
		app.UpdatedBy = actor

		if err := r.history.RecordJobApplication(ctx, tx, domain.HistoryActionUpdate, app); err != nil {
			return err
		}
		updated = app
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
