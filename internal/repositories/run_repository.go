package repository

import (
	"context"

	"gorm.io/gorm"

	"docuforge/internal/models"
)

type RunRepository interface {
	Create(ctx context.Context, run *models.Run) error
	FindByRunKey(ctx context.Context, runKey string) (*models.Run, error)
	List(ctx context.Context, limit, offset int) ([]models.Run, error)
	ListByRepository(ctx context.Context, repo string, limit int) ([]models.Run, error)
	Delete(ctx context.Context, id uint) error
}

type runRepository struct {
	db *gorm.DB
}

func NewRunRepository(db *gorm.DB) RunRepository {
	return &runRepository{db: db}
}

func (r *runRepository) Create(ctx context.Context, run *models.Run) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *runRepository) FindByRunKey(ctx context.Context, runKey string) (*models.Run, error) {
	var run models.Run
	if err := r.db.WithContext(ctx).Where("run_key = ?", runKey).First(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *runRepository) List(ctx context.Context, limit, offset int) ([]models.Run, error) {
	var runs []models.Run
	q := r.db.WithContext(ctx).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

func (r *runRepository) ListByRepository(ctx context.Context, repo string, limit int) ([]models.Run, error) {
	var runs []models.Run
	q := r.db.WithContext(ctx).Where("repository = ?", repo).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

func (r *runRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Run{}, id).Error
}
