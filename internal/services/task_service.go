package services

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/join-board/join-api/internal/constants"
	"github.com/join-board/join-api/internal/models"
	"github.com/join-board/join-api/internal/repository"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = errors.New("Task not found.")
	ErrStatusRequired         = errors.New("Status field is required")
	ErrGuestTaskPartialUpdate = errors.New("Guests cannot update tasks partially.")
)

const maxStatusLength = 20

// TaskService handles task board business logic
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	log      logrus.FieldLogger
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, log logrus.FieldLogger) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		log:      log,
	}
}

// SubtaskInput represents one checklist item submitted with a task
type SubtaskInput struct {
	Subtasktext string
	Checked     bool
}

// TaskInput represents the full set of writable task fields
type TaskInput struct {
	Title       string
	Description string
	Date        string
	Priority    string
	Category    string
	Status      string
	UserIDs     []uint64
	Subtasks    []SubtaskInput
}

// TaskPatch represents the task fields present in a partial update
type TaskPatch struct {
	Title       *string
	Description *string
	Date        *string
	Priority    *string
	Category    *string
	Status      *string
	UserIDs     *[]uint64
	Subtasks    *[]SubtaskInput
}

// Apply copies the present scalar fields onto t
func (p TaskPatch) Apply(t *models.Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
}

// List returns the tasks created by the actor
func (s *TaskService) List(ctx context.Context, actor *models.User) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByCreator(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Get returns one of the actor's tasks with assignments and subtasks
func (s *TaskService) Get(ctx context.Context, actor *models.User, cardID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByCardID(ctx, actor.ID, cardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// Create creates a task owned by the actor, then sets its assignments and
// subtasks to exactly the submitted sets.
func (s *TaskService) Create(ctx context.Context, actor *models.User, input TaskInput) (*models.Task, error) {
	userIDs := uniqueUint64(input.UserIDs)
	if err := s.validateChildren(ctx, userIDs, input.Subtasks); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Date:        input.Date,
		Priority:    input.Priority,
		Category:    input.Category,
		Status:      input.Status,
		CreatedByID: actor.ID,
	}

	if err := s.taskRepo.Create(ctx, task, userIDs, toSubtasks(input.Subtasks)); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": actor.ID, "card_id": task.CardID}).Info("task created")
	return s.Get(ctx, actor, task.CardID)
}

// Update replaces every field of one of the actor's tasks. Assignments and
// subtasks are cleared and recreated from the submitted sets.
func (s *TaskService) Update(ctx context.Context, actor *models.User, cardID uint64, input TaskInput) (*models.Task, error) {
	task, err := s.Get(ctx, actor, cardID)
	if err != nil {
		return nil, err
	}

	userIDs := uniqueUint64(input.UserIDs)
	if err := s.validateChildren(ctx, userIDs, input.Subtasks); err != nil {
		return nil, err
	}

	TaskPatch{
		Title:       &input.Title,
		Description: &input.Description,
		Date:        &input.Date,
		Priority:    &input.Priority,
		Category:    &input.Category,
		Status:      &input.Status,
	}.Apply(task)

	subtasks := toSubtasks(input.Subtasks)
	if err := s.taskRepo.Update(ctx, task, &userIDs, &subtasks); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.Get(ctx, actor, cardID)
}

// Patch changes the present fields of one of the actor's tasks. Assignments
// and subtasks are replaced only when submitted.
func (s *TaskService) Patch(ctx context.Context, actor *models.User, cardID uint64, patch TaskPatch) (*models.Task, error) {
	if actor.IsGuest {
		return nil, ErrGuestTaskPartialUpdate
	}

	task, err := s.Get(ctx, actor, cardID)
	if err != nil {
		return nil, err
	}

	var (
		userIDs  *[]uint64
		subtasks *[]models.Subtask
		checkIDs []uint64
		checkSub []SubtaskInput
	)
	if patch.UserIDs != nil {
		checkIDs = uniqueUint64(*patch.UserIDs)
		userIDs = &checkIDs
	}
	if patch.Subtasks != nil {
		checkSub = *patch.Subtasks
		rows := toSubtasks(checkSub)
		subtasks = &rows
	}
	if err := s.validateChildren(ctx, checkIDs, checkSub); err != nil {
		return nil, err
	}

	patch.Apply(task)
	if err := s.taskRepo.Update(ctx, task, userIDs, subtasks); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.Get(ctx, actor, cardID)
}

// UpdateStatus writes only the status of one of the actor's tasks.
func (s *TaskService) UpdateStatus(ctx context.Context, actor *models.User, cardID uint64, status string) (string, error) {
	if actor.IsGuest {
		return "", ErrGuestTaskPartialUpdate
	}

	task, err := s.Get(ctx, actor, cardID)
	if err != nil {
		return "", err
	}

	if status == "" {
		return "", ErrStatusRequired
	}
	if utf8.RuneCountInString(status) > maxStatusLength {
		return "", NewValidationError("status", fmt.Sprintf("Ensure this field has no more than %d characters.", maxStatusLength))
	}

	if err := s.taskRepo.UpdateStatus(ctx, task.CardID, status); err != nil {
		return "", fmt.Errorf("failed to update status: %w", err)
	}

	s.log.WithFields(logrus.Fields{"card_id": task.CardID, "status": status}).Debug("task status updated")
	return status, nil
}

// Delete deletes one of the actor's tasks
func (s *TaskService) Delete(ctx context.Context, actor *models.User, cardID uint64) error {
	task, err := s.Get(ctx, actor, cardID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, task.CardID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// validateChildren checks that every user ID resolves to an account and that
// the subtask batch stays within the cap.
func (s *TaskService) validateChildren(ctx context.Context, userIDs []uint64, subtasks []SubtaskInput) error {
	verr := &ValidationError{}

	if len(userIDs) > 0 {
		existing, err := s.userRepo.ExistingIDs(ctx, userIDs)
		if err != nil {
			return fmt.Errorf("failed to verify users: %w", err)
		}
		for _, id := range userIDs {
			if _, ok := existing[id]; !ok {
				verr.Add("user_ids", fmt.Sprintf("Invalid user ID: %d", id))
				break
			}
		}
	}

	if len(subtasks) > constants.MaxSubtasksPerTask {
		verr.Add("subtasks", fmt.Sprintf("maximum %d subtasks.", constants.MaxSubtasksPerTask))
	}

	return verr.OrNil()
}

func toSubtasks(inputs []SubtaskInput) []models.Subtask {
	subtasks := make([]models.Subtask, len(inputs))
	for i, in := range inputs {
		subtasks[i] = models.Subtask{
			Subtasktext: in.Subtasktext,
			Checked:     in.Checked,
		}
	}
	return subtasks
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
