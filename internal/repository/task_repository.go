package repository

import (
	"context"

	"github.com/join-board/join-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

func (r *GormTaskRepository) withChildren(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("UserStatuses", func(db *gorm.DB) *gorm.DB {
			return db.Order("task_user_details.id ASC")
		}).
		Preload("UserStatuses.User").
		Preload("Subtasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("subtasks.id ASC")
		})
}

// ListByCreator returns the creator's tasks with assignments and subtasks
func (r *GormTaskRepository) ListByCreator(ctx context.Context, creatorID uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.withChildren(ctx).
		Where("created_by_id = ?", creatorID).
		Order("card_id ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByCardID finds a task within the creator's tasks
func (r *GormTaskRepository) FindByCardID(ctx context.Context, creatorID, cardID uint64) (*models.Task, error) {
	var task models.Task
	if err := r.withChildren(ctx).
		Where("card_id = ? AND created_by_id = ?", cardID, creatorID).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Create stores the task and its assignments and subtasks in one transaction
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task, userIDs []uint64, subtasks []models.Subtask) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(task).Error; err != nil {
			return err
		}
		if err := replaceAssignments(tx, task.CardID, userIDs); err != nil {
			return err
		}
		return replaceSubtasks(tx, task.CardID, subtasks)
	})
}

// Update saves the task; non-nil userIDs/subtasks replace the current sets
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task, userIDs *[]uint64, subtasks *[]models.Subtask) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(task).Error; err != nil {
			return err
		}
		if userIDs != nil {
			if err := replaceAssignments(tx, task.CardID, *userIDs); err != nil {
				return err
			}
		}
		if subtasks != nil {
			if err := replaceSubtasks(tx, task.CardID, *subtasks); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateStatus writes only the status column
func (r *GormTaskRepository) UpdateStatus(ctx context.Context, cardID uint64, status string) error {
	return r.db.WithContext(ctx).Model(&models.Task{}).
		Where("card_id = ?", cardID).
		Update("status", status).Error
}

// Delete removes the task with its assignments and subtasks
func (r *GormTaskRepository) Delete(ctx context.Context, cardID uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", cardID).Delete(&models.TaskUserDetails{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", cardID).Delete(&models.Subtask{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Task{}, cardID).Error
	})
}

// replaceAssignments clears the task's assignments and recreates one checked
// row per user.
func replaceAssignments(tx *gorm.DB, cardID uint64, userIDs []uint64) error {
	if err := tx.Where("task_id = ?", cardID).Delete(&models.TaskUserDetails{}).Error; err != nil {
		return err
	}
	if len(userIDs) == 0 {
		return nil
	}

	rows := make([]models.TaskUserDetails, len(userIDs))
	for i, userID := range userIDs {
		rows[i] = models.TaskUserDetails{
			TaskID:  cardID,
			UserID:  userID,
			Checked: true,
		}
	}
	return tx.Omit(clause.Associations).Create(&rows).Error
}

// replaceSubtasks deletes the task's subtasks and recreates them from subtasks.
func replaceSubtasks(tx *gorm.DB, cardID uint64, subtasks []models.Subtask) error {
	if err := tx.Where("task_id = ?", cardID).Delete(&models.Subtask{}).Error; err != nil {
		return err
	}
	if len(subtasks) == 0 {
		return nil
	}

	rows := make([]models.Subtask, len(subtasks))
	for i, s := range subtasks {
		rows[i] = models.Subtask{
			Subtasktext: s.Subtasktext,
			Checked:     s.Checked,
			TaskID:      cardID,
		}
	}
	return tx.Create(&rows).Error
}
