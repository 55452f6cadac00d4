package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-recruitment-tracker/internal/domain"
	"go-recruitment-tracker/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
)

func fullAggregate() *domain.CandidateAggregate {
	return &domain.CandidateAggregate{
		Candidate: domain.Candidate{
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jane.doe@example.com",
			Status:    domain.CandidateStatusOpen,
		},
		Skill: domain.CandidateSkill{
			University:       "State University",
			Qualification:    "BSc Computer Science",
			ProficiencyLevel: 1,
			Skills:           []string{"Go", "SQL"},
		},
		JobApplications: []domain.JobApplication{
			{
				AppliedJob:        domain.AppliedJobTech,
				ApplicationStatus: domain.AppliedJobStatusActive,
				IsActive:          true,
			},
		},
	}
}

func TestCreateFull(t *testing.T) {
	t.Run("Should write every row and its history entry in one transaction", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		assert.NoError(t, err)
		defer mock.Close()

		now := time.Now()
		ctx := domain.WithActingUser(context.Background(), "recruiter-1")

		// One Begin, then strictly interleaved: each business insert is
		// immediately followed by exactly one history insert, then Commit.
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO candidates`).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(int64(1), now, now))
		mock.ExpectExec(`INSERT INTO candidate_history`).
			WithArgs(
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), "recruiter-1",
			).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectQuery(`INSERT INTO candidate_skills`).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(int64(10), now, now))
		mock.ExpectExec(`INSERT INTO candidate_skill_history`).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectQuery(`INSERT INTO job_applications`).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(int64(100), now, now))
		mock.ExpectExec(`INSERT INTO job_application_history`).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		repo := postgres.NewCandidateRepository(mock)
		agg := fullAggregate()

		err = repo.CreateFull(ctx, agg)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), agg.ID)
		assert.Equal(t, int64(10), agg.Skill.ID)
		assert.Equal(t, int64(1), agg.Skill.CandidateID)
		assert.Equal(t, int64(100), agg.JobApplications[0].ID)
		assert.Equal(t, "recruiter-1", agg.CreatedBy)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should roll back everything when a later insert fails", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		assert.NoError(t, err)
		defer mock.Close()

		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO candidates`).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(int64(1), now, now))
		mock.ExpectExec(`INSERT INTO candidate_history`).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectQuery(`INSERT INTO candidate_skills`).
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		repo := postgres.NewCandidateRepository(mock)

		err = repo.CreateFull(context.Background(), fullAggregate())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		// No Commit was expected; rollback closed the transaction.
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should surface a unique violation as the duplicate email error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		assert.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO candidates`).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "candidates_email_unique"})
		mock.ExpectRollback()

		repo := postgres.NewCandidateRepository(mock)

		err = repo.CreateFull(context.Background(), fullAggregate())
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCandidateDelete(t *testing.T) {
	t.Run("Should record delete history for every removed row in the same transaction", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		assert.NoError(t, err)
		defer mock.Close()

		now := time.Now()
		ctx := domain.WithActingUser(context.Background(), "recruiter-2")

		mock.ExpectBegin()
		// Aggregate is loaded first so the DELETE snapshots are complete.
		mock.ExpectQuery(`FROM candidates WHERE id`).
			WillReturnRows(pgxmock.NewRows([]string{
				"id", "first_name", "last_name", "email", "phone", "location",
				"citizenship", "resume_url", "status", "created_at", "updated_at",
				"created_by", "updated_by",
			}).AddRow(
				int64(1), "Jane", "Doe", "jane.doe@example.com", "", "",
				"", nil, domain.CandidateStatusOpen, now, now, "system", "system",
			))
		mock.ExpectQuery(`FROM candidate_skills WHERE candidate_id`).
			WillReturnRows(pgxmock.NewRows([]string{
				"id", "candidate_id", "university", "qualification", "proficiency_level",
				"years_of_experience", "skills", "created_at", "updated_at",
				"created_by", "updated_by",
			}).AddRow(
				int64(10), int64(1), "State University", "BSc", 1,
				0, []string{"Go"}, now, now, "system", "system",
			))
		mock.ExpectQuery(`FROM job_applications WHERE candidate_id`).
			WillReturnRows(pgxmock.NewRows([]string{
				"id", "candidate_id", "applied_job", "applied_job_other", "application_status",
				"is_active", "requirements", "created_at", "updated_at",
				"created_by", "updated_by",
			}).AddRow(
				int64(100), int64(1), domain.AppliedJobTech, "", domain.AppliedJobStatusActive,
				true, nil, now, now, "system", "system",
			))
		mock.ExpectQuery(`FROM interview_stages`).
			WillReturnRows(pgxmock.NewRows([]string{
				"id", "job_application_id", "name", "rating", "feedback", "next_steps",
				"should_progress", "created_at", "updated_at", "created_by", "updated_by",
			}))
		mock.ExpectExec(`DELETE FROM candidates`).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectExec(`INSERT INTO candidate_history`).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(`INSERT INTO candidate_skill_history`).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(`INSERT INTO job_application_history`).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		repo := postgres.NewCandidateRepository(mock)

		err = repo.Delete(ctx, 1)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
