package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/join-board/join-api/internal/models"
	"github.com/join-board/join-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrSubtaskNotFound           = errors.New("Subtask not found.")
	ErrGuestSubtaskPartialUpdate = errors.New("Guests cannot update subtasks partially.")
)

// SubtaskService manages checklist items of a task the caller already owns.
type SubtaskService struct {
	subtaskRepo repository.SubtaskRepository
}

// NewSubtaskService creates a new SubtaskService
func NewSubtaskService(subtaskRepo repository.SubtaskRepository) *SubtaskService {
	return &SubtaskService{subtaskRepo: subtaskRepo}
}

// SubtaskPatch holds the subtask fields present in a partial update
type SubtaskPatch struct {
	Subtasktext *string
	Checked     *bool
}

// Apply copies the present fields onto st
func (p SubtaskPatch) Apply(st *models.Subtask) {
	if p.Subtasktext != nil {
		st.Subtasktext = *p.Subtasktext
	}
	if p.Checked != nil {
		st.Checked = *p.Checked
	}
}

// List returns the subtasks of task
func (s *SubtaskService) List(ctx context.Context, task *models.Task) ([]models.Subtask, error) {
	subtasks, err := s.subtaskRepo.ListByTask(ctx, task.CardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subtasks: %w", err)
	}
	return subtasks, nil
}

// Get returns a subtask of task
func (s *SubtaskService) Get(ctx context.Context, task *models.Task, id uint64) (*models.Subtask, error) {
	subtask, err := s.subtaskRepo.FindByID(ctx, task.CardID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubtaskNotFound
		}
		return nil, fmt.Errorf("failed to find subtask: %w", err)
	}
	return subtask, nil
}

// Create appends a subtask to task. The per-task cap applies only to the
// batch submitted with the task itself, not to this endpoint.
func (s *SubtaskService) Create(ctx context.Context, task *models.Task, input SubtaskInput) (*models.Subtask, error) {
	subtask := &models.Subtask{
		Subtasktext: input.Subtasktext,
		Checked:     input.Checked,
		TaskID:      task.CardID,
	}
	if err := s.subtaskRepo.Create(ctx, subtask); err != nil {
		return nil, fmt.Errorf("failed to create subtask: %w", err)
	}
	return subtask, nil
}

// Update replaces every field of a subtask of task
func (s *SubtaskService) Update(ctx context.Context, task *models.Task, id uint64, input SubtaskInput) (*models.Subtask, error) {
	return s.apply(ctx, task, id, SubtaskPatch{Subtasktext: &input.Subtasktext, Checked: &input.Checked})
}

// Patch changes the present fields of a subtask of task
func (s *SubtaskService) Patch(ctx context.Context, actor *models.User, task *models.Task, id uint64, patch SubtaskPatch) (*models.Subtask, error) {
	if actor.IsGuest {
		return nil, ErrGuestSubtaskPartialUpdate
	}
	return s.apply(ctx, task, id, patch)
}

// Delete removes a subtask of task
func (s *SubtaskService) Delete(ctx context.Context, task *models.Task, id uint64) error {
	subtask, err := s.Get(ctx, task, id)
	if err != nil {
		return err
	}
	if err := s.subtaskRepo.Delete(ctx, subtask.ID); err != nil {
		return fmt.Errorf("failed to delete subtask: %w", err)
	}
	return nil
}

func (s *SubtaskService) apply(ctx context.Context, task *models.Task, id uint64, patch SubtaskPatch) (*models.Subtask, error) {
	subtask, err := s.Get(ctx, task, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(subtask)
	if err := s.subtaskRepo.Update(ctx, subtask); err != nil {
		return nil, fmt.Errorf("failed to update subtask: %w", err)
	}
	return subtask, nil
}
