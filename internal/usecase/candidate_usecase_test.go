package usecase_test

import (
	"context"
	"testing"

	"go-recruitment-tracker/internal/domain"
	"go-recruitment-tracker/internal/usecase"
	"go-recruitment-tracker/pkg/apperror"
	"go-recruitment-tracker/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock Repositories
type MockCandidateRepo struct {
	mock.Mock
}

func (m *MockCandidateRepo) CreateFull(ctx context.Context, agg *domain.CandidateAggregate) error {
	return m.Called(ctx, agg).Error(0)
}

func (m *MockCandidateRepo) GetFullByID(ctx context.Context, id int64) (*domain.CandidateAggregate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CandidateAggregate), args.Error(1)
}

func (m *MockCandidateRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockCandidateRepo) UpdateResumeURL(ctx context.Context, id int64, resumeURL string) error {
	return m.Called(ctx, id, resumeURL).Error(0)
}

func (m *MockCandidateRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockSkillRepo struct {
	mock.Mock
}

func (m *MockSkillRepo) GetByID(ctx context.Context, id int64) (*domain.CandidateSkill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CandidateSkill), args.Error(1)
}

func (m *MockSkillRepo) UpdatePartial(ctx context.Context, id int64, patch domain.SkillPatch) (*domain.CandidateSkill, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CandidateSkill), args.Error(1)
}

func (m *MockSkillRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockJobApplicationRepo struct {
	mock.Mock
}

func (m *MockJobApplicationRepo) CreateForCandidate(ctx context.Context, app *domain.JobApplication) error {
	return m.Called(ctx, app).Error(0)
}

func (m *MockJobApplicationRepo) GetByID(ctx context.Context, id int64) (*domain.JobApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobApplication), args.Error(1)
}

func (m *MockJobApplicationRepo) UpdatePartial(ctx context.Context, id int64, patch domain.JobApplicationPatch) (*domain.JobApplication, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobApplication), args.Error(1)
}

type MockInterviewStageRepo struct {
	mock.Mock
}

func (m *MockInterviewStageRepo) Create(ctx context.Context, stage *domain.InterviewStage) error {
	return m.Called(ctx, stage).Error(0)
}

func (m *MockInterviewStageRepo) GetByID(ctx context.Context, id int64) (*domain.InterviewStage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InterviewStage), args.Error(1)
}

func (m *MockInterviewStageRepo) UpdatePartial(ctx context.Context, id int64, patch domain.InterviewStagePatch) (*domain.InterviewStage, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InterviewStage), args.Error(1)
}

func newValidate() *validator.Validate {
	v := validator.New()
	validation.RegisterValidators(v)
	return v
}

func validInput() domain.CreateCandidateInput {
	return domain.CreateCandidateInput{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane.doe@example.com",
		Phone:     "+6281234567890",
		Location:  "Jakarta",
		CandidateSkill: domain.CreateCandidateSkillInput{
			University:    "State University",
			Qualification: "BSc Computer Science",
			Skills:        []string{"Go", "SQL"},
		},
		JobApplications: []domain.CreateJobApplicationInput{
			{AppliedJob: domain.AppliedJobTech},
		},
	}
}

func TestCreateFullCandidate(t *testing.T) {
	t.Run("Should create candidate with defaults applied", func(t *testing.T) {
		candidateRepo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(candidateRepo, nil, nil, nil, newValidate())

		candidateRepo.On("EmailExists", mock.Anything, "jane.doe@example.com").Return(false, nil)
		candidateRepo.On("CreateFull", mock.Anything, mock.AnythingOfType("*domain.CandidateAggregate")).
			Return(nil).
			Run(func(args mock.Arguments) {
				agg := args.Get(1).(*domain.CandidateAggregate)
				agg.ID = 42
				assert.Equal(t, domain.CandidateStatusOpen, agg.Status)
				assert.Equal(t, 1, agg.Skill.ProficiencyLevel)
				assert.Equal(t, 0, agg.Skill.YearsOfExperience)
				assert.Len(t, agg.JobApplications, 1)
				assert.True(t, agg.JobApplications[0].IsActive)
				assert.Equal(t, domain.AppliedJobStatusActive, agg.JobApplications[0].ApplicationStatus)
			})
		candidateRepo.On("GetFullByID", mock.Anything, int64(42)).
			Return(&domain.CandidateAggregate{Candidate: domain.Candidate{ID: 42}}, nil)

		agg, err := uc.CreateFullCandidate(context.Background(), validInput())
		assert.NoError(t, err)
		assert.Equal(t, int64(42), agg.ID)
		candidateRepo.AssertExpectations(t)
	})

	t.Run("Should keep provided yearsOfExperience instead of defaulting", func(t *testing.T) {
		candidateRepo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(candidateRepo, nil, nil, nil, newValidate())

		input := validInput()
		input.CandidateSkill.YearsOfExperience = 7

		candidateRepo.On("EmailExists", mock.Anything, mock.Anything).Return(false, nil)
		candidateRepo.On("CreateFull", mock.Anything, mock.AnythingOfType("*domain.CandidateAggregate")).
			Return(nil).
			Run(func(args mock.Arguments) {
				agg := args.Get(1).(*domain.CandidateAggregate)
				assert.Equal(t, 7, agg.Skill.YearsOfExperience)
			})
		candidateRepo.On("GetFullByID", mock.Anything, mock.Anything).
			Return(&domain.CandidateAggregate{}, nil)

		_, err := uc.CreateFullCandidate(context.Background(), input)
		assert.NoError(t, err)
	})

	t.Run("Should reject duplicate email with conflict", func(t *testing.T) {
		candidateRepo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(candidateRepo, nil, nil, nil, newValidate())

		candidateRepo.On("EmailExists", mock.Anything, "jane.doe@example.com").Return(true, nil)

		_, err := uc.CreateFullCandidate(context.Background(), validInput())
		assert.Error(t, err)
		appErr, ok := err.(*apperror.AppError)
		assert.True(t, ok)
		assert.Equal(t, 409, appErr.Code)
		candidateRepo.AssertNotCalled(t, "CreateFull", mock.Anything, mock.Anything)
	})

	t.Run("Should map concurrent duplicate insert to conflict", func(t *testing.T) {
		candidateRepo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(candidateRepo, nil, nil, nil, newValidate())

		candidateRepo.On("EmailExists", mock.Anything, mock.Anything).Return(false, nil)
		candidateRepo.On("CreateFull", mock.Anything, mock.Anything).Return(domain.ErrDuplicateEmail)

		_, err := uc.CreateFullCandidate(context.Background(), validInput())
		assert.Error(t, err)
		appErr, ok := err.(*apperror.AppError)
		assert.True(t, ok)
		assert.Equal(t, 409, appErr.Code)
	})

	t.Run("Should fail validation before touching the repository", func(t *testing.T) {
		candidateRepo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(candidateRepo, nil, nil, nil, newValidate())

		input := validInput()
		input.Email = "not-an-email"
		input.JobApplications = nil

		_, err := uc.CreateFullCandidate(context.Background(), input)
		assert.Error(t, err)
		appErr, ok := err.(*apperror.AppError)
		assert.True(t, ok)
		assert.Equal(t, 400, appErr.Code)
		candidateRepo.AssertNotCalled(t, "EmailExists", mock.Anything, mock.Anything)
	})

	t.Run("Should reject numeric first name", func(t *testing.T) {
		candidateRepo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(candidateRepo, nil, nil, nil, newValidate())

		input := validInput()
		input.FirstName = "J4n3"

		_, err := uc.CreateFullCandidate(context.Background(), input)
		assert.Error(t, err)
	})
}

func TestGetCandidate(t *testing.T) {
	t.Run("Should return not found when candidate is absent", func(t *testing.T) {
		candidateRepo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(candidateRepo, nil, nil, nil, newValidate())

		candidateRepo.On("GetFullByID", mock.Anything, int64(99)).Return(nil, nil)

		_, err := uc.GetCandidate(context.Background(), 99)
		assert.Error(t, err)
		appErr, ok := err.(*apperror.AppError)
		assert.True(t, ok)
		assert.Equal(t, 404, appErr.Code)
	})
}

func TestUpdateCandidateSkill(t *testing.T) {
	t.Run("Should pass the patch through unchanged", func(t *testing.T) {
		skillRepo := new(MockSkillRepo)
		uc := usecase.NewCandidateUsecase(nil, skillRepo, nil, nil, newValidate())

		level := 8
		patch := domain.SkillPatch{ProficiencyLevel: &level}

		skillRepo.On("UpdatePartial", mock.Anything, int64(5), patch).
			Return(&domain.CandidateSkill{ID: 5, ProficiencyLevel: 8}, nil)

		skill, err := uc.UpdateCandidateSkill(context.Background(), 5, patch)
		assert.NoError(t, err)
		assert.Equal(t, 8, skill.ProficiencyLevel)
	})

	t.Run("Should return not found for missing skill", func(t *testing.T) {
		skillRepo := new(MockSkillRepo)
		uc := usecase.NewCandidateUsecase(nil, skillRepo, nil, nil, newValidate())

		skillRepo.On("UpdatePartial", mock.Anything, int64(404), mock.Anything).
			Return(nil, domain.ErrNotFound)

		_, err := uc.UpdateCandidateSkill(context.Background(), 404, domain.SkillPatch{})
		assert.Error(t, err)
		appErr, ok := err.(*apperror.AppError)
		assert.True(t, ok)
		assert.Equal(t, 404, appErr.Code)
	})

	t.Run("Should reject out-of-range proficiency", func(t *testing.T) {
		skillRepo := new(MockSkillRepo)
		uc := usecase.NewCandidateUsecase(nil, skillRepo, nil, nil, newValidate())

		level := 11
		_, err := uc.UpdateCandidateSkill(context.Background(), 5, domain.SkillPatch{ProficiencyLevel: &level})
		assert.Error(t, err)
		skillRepo.AssertNotCalled(t, "UpdatePartial", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAddJobApplication(t *testing.T) {
	t.Run("Should require an existing candidate", func(t *testing.T) {
		candidateRepo := new(MockCandidateRepo)
		appRepo := new(MockJobApplicationRepo)
		uc := usecase.NewCandidateUsecase(candidateRepo, nil, appRepo, nil, newValidate())

		candidateRepo.On("GetFullByID", mock.Anything, int64(7)).Return(nil, nil)

		_, err := uc.AddJobApplication(context.Background(), 7, domain.CreateJobApplicationInput{
			AppliedJob: domain.AppliedJobFinance,
		})
		assert.Error(t, err)
		appErr, ok := err.(*apperror.AppError)
		assert.True(t, ok)
		assert.Equal(t, 404, appErr.Code)
		appRepo.AssertNotCalled(t, "CreateForCandidate", mock.Anything, mock.Anything)
	})

	t.Run("Should attach the application to the candidate", func(t *testing.T) {
		candidateRepo := new(MockCandidateRepo)
		appRepo := new(MockJobApplicationRepo)
		uc := usecase.NewCandidateUsecase(candidateRepo, nil, appRepo, nil, newValidate())

		candidateRepo.On("GetFullByID", mock.Anything, int64(7)).
			Return(&domain.CandidateAggregate{Candidate: domain.Candidate{ID: 7}}, nil)
		appRepo.On("CreateForCandidate", mock.Anything, mock.AnythingOfType("*domain.JobApplication")).
			Return(nil).
			Run(func(args mock.Arguments) {
				app := args.Get(1).(*domain.JobApplication)
				assert.Equal(t, int64(7), app.CandidateID)
				assert.True(t, app.IsActive)
			})

		app, err := uc.AddJobApplication(context.Background(), 7, domain.CreateJobApplicationInput{
			AppliedJob: domain.AppliedJobFinance,
		})
		assert.NoError(t, err)
		assert.Equal(t, domain.AppliedJobStatusActive, app.ApplicationStatus)
	})
}

func TestAddInterviewStage(t *testing.T) {
	t.Run("Should reject rating outside 1-5", func(t *testing.T) {
		stageRepo := new(MockInterviewStageRepo)
		uc := usecase.NewCandidateUsecase(nil, nil, nil, stageRepo, newValidate())

		_, err := uc.AddInterviewStage(context.Background(), 1, domain.CreateInterviewStageInput{
			Name:   "Technical Round",
			Rating: 6,
		})
		assert.Error(t, err)
		stageRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Should require an existing job application", func(t *testing.T) {
		appRepo := new(MockJobApplicationRepo)
		stageRepo := new(MockInterviewStageRepo)
		uc := usecase.NewCandidateUsecase(nil, nil, appRepo, stageRepo, newValidate())

		appRepo.On("GetByID", mock.Anything, int64(3)).Return(nil, domain.ErrNotFound)

		_, err := uc.AddInterviewStage(context.Background(), 3, domain.CreateInterviewStageInput{
			Name:   "Technical Round",
			Rating: 4,
		})
		assert.Error(t, err)
		appErr, ok := err.(*apperror.AppError)
		assert.True(t, ok)
		assert.Equal(t, 404, appErr.Code)
	})

	t.Run("Should record the stage against the application", func(t *testing.T) {
		appRepo := new(MockJobApplicationRepo)
		stageRepo := new(MockInterviewStageRepo)
		uc := usecase.NewCandidateUsecase(nil, nil, appRepo, stageRepo, newValidate())

		appRepo.On("GetByID", mock.Anything, int64(3)).
			Return(&domain.JobApplication{ID: 3}, nil)
		stageRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.InterviewStage")).
			Return(nil)

		stage, err := uc.AddInterviewStage(context.Background(), 3, domain.CreateInterviewStageInput{
			Name:           "Technical Round",
			Rating:         4,
			Feedback:       "Strong on system design",
			ShouldProgress: true,
		})
		assert.NoError(t, err)
		assert.Equal(t, int64(3), stage.JobApplicationID)
		assert.True(t, stage.ShouldProgress)
	})
}

func TestDeleteCandidate(t *testing.T) {
	t.Run("Should map missing candidate to not found", func(t *testing.T) {
		candidateRepo := new(MockCandidateRepo)
		uc := usecase.NewCandidateUsecase(candidateRepo, nil, nil, nil, newValidate())

		candidateRepo.On("Delete", mock.Anything, int64(12)).Return(domain.ErrNotFound)

		err := uc.DeleteCandidate(context.Background(), 12)
		assert.Error(t, err)
		appErr, ok := err.(*apperror.AppError)
		assert.True(t, ok)
		assert.Equal(t, 404, appErr.Code)
	})
}
