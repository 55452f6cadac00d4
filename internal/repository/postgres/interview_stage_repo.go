package postgres

import (
	"context"
	"errors"
	"fmt"

	"go-recruitment-tracker/internal/domain"

	"github.com/jackc/pgx/v5"
)

type interviewStageRepository struct {
	db      DB
	history historyRecorder
}

func NewInterviewStageRepository(db DB) domain.InterviewStageRepository {
	return &interviewStageRepository{db: db}
}

func (r *interviewStageRepository) Create(ctx context.Context, stage *domain.InterviewStage) error {
	actor := domain.ActingUser(ctx)

	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO interview_stages (
				job_application_id, name, rating, feedback, next_steps,
				should_progress, created_at, updated_at, created_by, updated_by
			) VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW(), $7, $7)
			RETURNING id, created_at, updated_at`

		err := tx.QueryRow(ctx, query,
			stage.JobApplicationID, stage.Name, stage.Rating, stage.Feedback,
			stage.NextSteps, stage.ShouldProgress, actor,
		).Scan(&stage.ID, &stage.CreatedAt, &stage.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert interview stage: %w", err)
		}
		stage.CreatedBy = actor
		stage.UpdatedBy = actor

		return r.history.RecordInterviewStage(ctx, tx, domain.HistoryActionCreate, stage)
	})
}

func (r *interviewStageRepository) GetByID(ctx context.Context, id int64) (*domain.InterviewStage, error) {
	return getInterviewStage(ctx, r.db, id)
}

func getInterviewStage(ctx context.Context, q querier, id int64) (*domain.InterviewStage, error) {
	query := `
		SELECT id, job_application_id, name, rating, feedback, next_steps,
		       should_progress, created_at, updated_at, created_by, updated_by
		FROM interview_stages WHERE id = $1`

	var s domain.InterviewStage
	err := q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.JobApplicationID, &s.Name, &s.Rating, &s.Feedback,
		&s.NextSteps, &s.ShouldProgress, &s.CreatedAt, &s.UpdatedAt,
		&s.CreatedBy, &s.UpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("fetch interview stage: %w", err)
	}
	return &s, nil
}

func (r *interviewStageRepository) UpdatePartial(ctx context.Context, id int64, patch domain.InterviewStagePatch) (*domain.InterviewStage, error) {
	actor := domain.ActingUser(ctx)
	var updated *domain.InterviewStage

	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		s, err := getInterviewStage(ctx, tx, id)
		if err != nil {
			return err
		}

		if patch.Name != nil {
			s.Name = *patch.Name
		}
		if patch.Rating != nil {
			s.Rating = *patch.Rating
		}
		if patch.Feedback != nil {
			s.Feedback = *patch.Feedback
		}
		if patch.NextSteps != nil {
			s.NextSteps = patch.NextSteps
		}
		if patch.ShouldProgress != nil {
			s.ShouldProgress = *patch.ShouldProgress
		}

		query := `
			UPDATE interview_stages
			SET name = $2, rating = $3, feedback = $4, next_steps = $5,
			    should_progress = $6, updated_at = NOW(), updated_by = $7
			WHERE id = $1
			RETURNING updated_at`

		err = tx.QueryRow(ctx, query,
			id, s.Name, s.Rating, s.Feedback, s.NextSteps, s.ShouldProgress, actor,
		).Scan(&s.UpdatedAt)
		if err != nil {
			return fmt.Errorf("update interview stage: %w", err)
		}
		s.UpdatedBy = actor

		if err := r.history.RecordInterviewStage(ctx, tx, domain.HistoryActionUpdate, s); err != nil {
			return err
		}
		updated = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
