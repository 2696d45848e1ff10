package repository

import (
	"context"

	"github.com/join-board/join-api/internal/models"
	"gorm.io/gorm"
)

// GormSubtaskRepository is a GORM implementation of SubtaskRepository
type GormSubtaskRepository struct {
	db *gorm.DB
}

// NewSubtaskRepository creates a new SubtaskRepository
func NewSubtaskRepository(db *gorm.DB) SubtaskRepository {
	return &GormSubtaskRepository{db: db}
}

func (r *GormSubtaskRepository) ListByTask(ctx context.Context, taskID uint64) ([]models.Subtask, error) {
	var subtasks []models.Subtask
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("id ASC").
		Find(&subtasks).Error; err != nil {
		return nil, err
	}
	return subtasks, nil
}

func (r *GormSubtaskRepository) FindByID(ctx context.Context, taskID, id uint64) (*models.Subtask, error) {
	var subtask models.Subtask
	if err := r.db.WithContext(ctx).
		Where("id = ? AND task_id = ?", id, taskID).
		First(&subtask).Error; err != nil {
		return nil, err
	}
	return &subtask, nil
}

func (r *GormSubtaskRepository) Create(ctx context.Context, subtask *models.Subtask) error {
	return r.db.WithContext(ctx).Create(subtask).Error
}

func (r *GormSubtaskRepository) Update(ctx context.Context, subtask *models.Subtask) error {
	return r.db.WithContext(ctx).Save(subtask).Error
}

func (r *GormSubtaskRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&models.Subtask{}, id).Error
}
