package postgres

import (
	"context"
	"errors"
	"fmt"

	"go-recruitment-tracker/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
)

type skillRepository struct {
	db      DB
	history historyRecorder
}

func NewSkillRepository(db DB) domain.SkillRepository {
	return &skillRepository{db: db}
}

func (r *skillRepository) GetByID(ctx context.Context, id int64) (*domain.CandidateSkill, error) {
	return getSkill(ctx, r.db, id)
}

func getSkill(ctx context.Context, q querier, id int64) (*domain.CandidateSkill, error) {
	query := `
		SELECT id, candidate_id, university, qualification, proficiency_level,
		       years_of_experience, skills, created_at, updated_at, created_by, updated_by
		FROM candidate_skills WHERE id = $1`

	var s domain.CandidateSkill
	var skills []string
	err := q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.CandidateID, &s.University, &s.Qualification,
		&s.ProficiencyLevel, &s.YearsOfExperience, pq.Array(&skills),
		&s.CreatedAt, &s.UpdatedAt, &s.CreatedBy, &s.UpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("fetch candidate skill: %w", err)
	}
	s.Skills = skills
	return &s, nil
}

// UpdatePartial loads the profile, applies only the provided fields, writes
// the row and its UPDATE history entry in one transaction.
func (r *skillRepository) UpdatePartial(ctx context.Context, id int64, patch domain.SkillPatch) (*domain.CandidateSkill, error) {
	actor := domain.ActingUser(ctx)
	var updated *domain.CandidateSkill

	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		s, err := getSkill(ctx, tx, id)
		if err != nil {
			return err
		}

		if patch.University != nil {
			s.University = *patch.University
		}
		if patch.Qualification != nil {
			s.Qualification = *patch.Qualification
		}
		if patch.ProficiencyLevel != nil {
			s.ProficiencyLevel = *patch.ProficiencyLevel
		}
		if patch.YearsOfExperience != nil {
			s.YearsOfExperience = *patch.YearsOfExperience
		}
		if patch.Skills != nil {
			s.Skills = patch.Skills
		}

		query := `
			UPDATE candidate_skills
			SET university = $2, qualification = $3, proficiency_level = $4,
			    years_of_experience = $5, skills = $6, updated_at = NOW(), updated_by = $7
			WHERE id = $1
			RETURNING updated_at`

		err = tx.QueryRow(ctx, query,
			id, s.University, s.Qualification, s.ProficiencyLevel,
			s.YearsOfExperience, pq.Array(s.Skills), actor,
		).Scan(&s.UpdatedAt)
		if err != nil {
			return fmt.Errorf("update candidate skill: %w", err)
		}
		s.UpdatedBy = actor

		if err := r.history.RecordSkill(ctx, tx, domain.HistoryActionUpdate, s); err != nil {
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

// Delete removes the live row; its history remains, extended with a DELETE
// entry carrying the pre-delete snapshot.
func (r *skillRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		s, err := getSkill(ctx, tx, id)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM candidate_skills WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete candidate skill: %w", err)
		}

		return r.history.RecordSkill(ctx, tx, domain.HistoryActionDelete, s)
	})
}
