package usecase

import (
	"context"
	"errors"

	"go-recruitment-tracker/internal/domain"
	"go-recruitment-tracker/pkg/apperror"
	"go-recruitment-tracker/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type candidateUsecase struct {
	candidates domain.CandidateRepository
	skills     domain.SkillRepository
	apps       domain.JobApplicationRepository
	interviews domain.InterviewStageRepository
	validate   *validator.Validate
}

func NewCandidateUsecase(
	candidates domain.CandidateRepository,
	skills domain.SkillRepository,
	apps domain.JobApplicationRepository,
	interviews domain.InterviewStageRepository,
	validate *validator.Validate,
) domain.CandidateUsecase {
	return &candidateUsecase{
		candidates: candidates,
		skills:     skills,
		apps:       apps,
		interviews: interviews,
		validate:   validate,
	}
}

// CreateFullCandidate creates the candidate, its skill profile, and its job
// applications as one atomic unit. A candidate without a skill profile or
// without any application is an invalid state downstream, so partial
// creation never survives.
func (u *candidateUsecase) CreateFullCandidate(ctx context.Context, input domain.CreateCandidateInput) (*domain.CandidateAggregate, error) {
	if err := u.validate.Struct(input); err != nil {
		return nil, apperror.BadRequest(validation.FormatErrors(err))
	}

	exists, err := u.candidates.EmailExists(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict("candidate email already exists")
	}

	agg := buildAggregate(input)

	// The unique constraint backstops the pre-check: a concurrent insert of
	// the same email surfaces here as ErrDuplicateEmail after rollback.
	if err := u.candidates.CreateFull(ctx, agg); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, apperror.Conflict("candidate email already exists")
		}
		return nil, err
	}

	return u.candidates.GetFullByID(ctx, agg.ID)
}

// buildAggregate maps the validated input onto a fresh aggregate, applying
// creation defaults: status OPEN, proficiency level 1, applications active.
// YearsOfExperience is input-provided and zero when absent.
func buildAggregate(input domain.CreateCandidateInput) *domain.CandidateAggregate {
	status := input.Status
	if status == "" {
		status = domain.CandidateStatusOpen
	}
	proficiency := input.CandidateSkill.ProficiencyLevel
	if proficiency == 0 {
		proficiency = 1
	}

	agg := &domain.CandidateAggregate{
		Candidate: domain.Candidate{
			FirstName:   input.FirstName,
			LastName:    input.LastName,
			Email:       input.Email,
			Phone:       input.Phone,
			Location:    input.Location,
			Citizenship: input.Citizenship,
			ResumeURL:   input.ResumeURL,
			Status:      status,
		},
		Skill: domain.CandidateSkill{
			University:        input.CandidateSkill.University,
			Qualification:     input.CandidateSkill.Qualification,
			ProficiencyLevel:  proficiency,
			YearsOfExperience: input.CandidateSkill.YearsOfExperience,
			Skills:            input.CandidateSkill.Skills,
		},
	}

	for _, a := range input.JobApplications {
		appStatus := a.ApplicationStatus
		if appStatus == "" {
			appStatus = domain.AppliedJobStatusActive
		}
		isActive := true
		if a.IsActive != nil {
			isActive = *a.IsActive
		}
		agg.JobApplications = append(agg.JobApplications, domain.JobApplication{
			AppliedJob:        a.AppliedJob,
			AppliedJobOther:   a.AppliedJobOther,
			ApplicationStatus: appStatus,
			IsActive:          isActive,
			Requirements:      a.Requirements,
		})
	}

	return agg
}

func (u *candidateUsecase) GetCandidate(ctx context.Context, id int64) (*domain.CandidateAggregate, error) {
	agg, err := u.candidates.GetFullByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if agg == nil {
		return nil, apperror.NotFound("candidate not found")
	}
	return agg, nil
}

func (u *candidateUsecase) DeleteCandidate(ctx context.Context, id int64) error {
	if err := u.candidates.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("candidate not found")
		}
		return err
	}
	return nil
}

func (u *candidateUsecase) AttachResume(ctx context.Context, id int64, resumeURL string) error {
	if err := u.candidates.UpdateResumeURL(ctx, id, resumeURL); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("candidate not found")
		}
		return err
	}
	return nil
}

func (u *candidateUsecase) UpdateCandidateSkill(ctx context.Context, id int64, patch domain.SkillPatch) (*domain.CandidateSkill, error) {
	if err := u.validate.Struct(patch); err != nil {
		return nil, apperror.BadRequest(validation.FormatErrors(err))
	}
	s, err := u.skills.UpdatePartial(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("candidate skill not found")
		}
		return nil, err
	}
	return s, nil
}

func (u *candidateUsecase) DeleteCandidateSkill(ctx context.Context, id int64) error {
	if err := u.skills.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("candidate skill not found")
		}
		return err
	}
	return nil
}

func (u *candidateUsecase) AddJobApplication(ctx context.Context, candidateID int64, input domain.CreateJobApplicationInput) (*domain.JobApplication, error) {
	if err := u.validate.Struct(input); err != nil {
		return nil, apperror.BadRequest(validation.FormatErrors(err))
	}

	// The application must attach to an existing candidate.
	agg, err := u.candidates.GetFullByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if agg == nil {
		return nil, apperror.NotFound("candidate not found")
	}

	status := input.ApplicationStatus
	if status == "" {
		status = domain.AppliedJobStatusActive
	}
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	app := &domain.JobApplication{
		CandidateID:       candidateID,
		AppliedJob:        input.AppliedJob,
		AppliedJobOther:   input.AppliedJobOther,
		ApplicationStatus: status,
		IsActive:          isActive,
		Requirements:      input.Requirements,
	}
	if err := u.apps.CreateForCandidate(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

func (u *candidateUsecase) UpdateJobApplication(ctx context.Context, id int64, patch domain.JobApplicationPatch) (*domain.JobApplication, error) {
	if err := u.validate.Struct(patch); err != nil {
		return nil, apperror.BadRequest(validation.FormatErrors(err))
	}
	app, err := u.apps.UpdatePartial(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("job application not found")
		}
		return nil, err
	}
	return app, nil
}

func (u *candidateUsecase) AddInterviewStage(ctx context.Context, applicationID int64, input domain.CreateInterviewStageInput) (*domain.InterviewStage, error) {
	if err := u.validate.Struct(input); err != nil {
		return nil, apperror.BadRequest(validation.FormatErrors(err))
	}

	if _, err := u.apps.GetByID(ctx, applicationID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("job application not found")
		}
		return nil, err
	}

	stage := &domain.InterviewStage{
		JobApplicationID: applicationID,
		Name:             input.Name,
		Rating:           input.Rating,
		Feedback:         input.Feedback,
		NextSteps:        input.NextSteps,
		ShouldProgress:   input.ShouldProgress,
	}
	if err := u.interviews.Create(ctx, stage); err != nil {
		return nil, err
	}
	return stage, nil
}

func (u *candidateUsecase) UpdateInterviewStage(ctx context.Context, id int64, patch domain.InterviewStagePatch) (*domain.InterviewStage, error) {
	if err := u.validate.Struct(patch); err != nil {
		return nil, apperror.BadRequest(validation.FormatErrors(err))
	}
	stage, err := u.interviews.UpdatePartial(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("interview stage not found")
		}
		return nil, err
	}
	return stage, nil
}
