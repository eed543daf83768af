package services

import (
	"context"

	"docuforge/internal/models"
	repository "docuforge/internal/repositories"
)

// RunService records completed pipeline runs and answers history queries.
// It satisfies the pipeline's RunRecorder contract.
type RunService interface {
	SaveRun(ctx context.Context, run *models.Run) error
	Get(ctx context.Context, runKey string) (*models.Run, error)
	List(ctx context.Context, limit, offset int) ([]models.Run, error)
	History(ctx context.Context, repo string, limit int) ([]models.Run, error)
}

type runService struct {
	runs repository.RunRepository
}

func NewRunService(runs repository.RunRepository) RunService {
	return &runService{runs: runs}
}

func (s *runService) SaveRun(ctx context.Context, run *models.Run) error {
	return s.runs.Create(ctx, run)
}

func (s *runService) Get(ctx context.Context, runKey string) (*models.Run, error) {
	return s.runs.FindByRunKey(ctx, runKey)
}

func (s *runService) List(ctx context.Context, limit, offset int) ([]models.Run, error) {
	return s.runs.List(ctx, limit, offset)
}

func (s *runService) History(ctx context.Context, repo string, limit int) ([]models.Run, error) {
	return s.runs.ListByRepository(ctx, repo, limit)
}
