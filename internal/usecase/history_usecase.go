package usecase

import (
	"context"

	"go-recruitment-tracker/internal/domain"
)

type historyUsecase struct {
	repo domain.HistoryRepository
}

func NewHistoryUsecase(repo domain.HistoryRepository) domain.HistoryUsecase {
	return &historyUsecase{repo: repo}
}

func (u *historyUsecase) GetCandidateTimeline(ctx context.Context, candidateID int64) (*domain.CandidateTimeline, error) {
	return u.repo.ListForCandidate(ctx, candidateID)
}
