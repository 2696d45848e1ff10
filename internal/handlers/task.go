package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/join-board/join-api/internal/dto"
	apierrors "github.com/join-board/join-api/internal/errors"
	"github.com/join-board/join-api/internal/services"
)

const statusUpdatedMessage = "Status updated successfully"

// TaskHandler serves the requester's task board.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// SubtaskRequest is one checklist item, nested in a task body or posted on its own.
type SubtaskRequest struct {
	Subtasktext string `json:"subtasktext" binding:"required,max=100"`
	Checked     bool   `json:"checked"`
}

// TaskRequest is the body of POST and PUT on tasks.
type TaskRequest struct {
	Title       string           `json:"title" binding:"required,max=100"`
	Description string           `json:"description"`
	Date        string           `json:"date" binding:"required,datetime=2006-01-02"`
	Priority    string           `json:"priority" binding:"max=20"`
	Category    string           `json:"category" binding:"required,max=100"`
	Status      string           `json:"status" binding:"required,max=20"`
	UserIDs     []uint64         `json:"user_ids"`
	Subtasks    []SubtaskRequest `json:"subtasks" binding:"dive"`
}

// TaskPatchRequest is the body of PATCH on a task without a status key.
type TaskPatchRequest struct {
	Title       *string           `json:"title" binding:"omitempty,min=1,max=100"`
	Description *string           `json:"description"`
	Date        *string           `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Priority    *string           `json:"priority" binding:"omitempty,max=20"`
	Category    *string           `json:"category" binding:"omitempty,min=1,max=100"`
	UserIDs     *[]uint64         `json:"user_ids"`
	Subtasks    *[]SubtaskRequest `json:"subtasks" binding:"omitempty,dive"`
}

func toSubtaskInputs(reqs []SubtaskRequest) []services.SubtaskInput {
	inputs := make([]services.SubtaskInput, len(reqs))
	for i, r := range reqs {
		inputs[i] = services.SubtaskInput{Subtasktext: r.Subtasktext, Checked: r.Checked}
	}
	return inputs
}

func (r TaskRequest) input() services.TaskInput {
	return services.TaskInput{
		Title:       r.Title,
		Description: r.Description,
		Date:        r.Date,
		Priority:    r.Priority,
		Category:    r.Category,
		Status:      r.Status,
		UserIDs:     r.UserIDs,
		Subtasks:    toSubtaskInputs(r.Subtasks),
	}
}

func (r TaskPatchRequest) patch() services.TaskPatch {
	p := services.TaskPatch{
		Title:       r.Title,
		Description: r.Description,
		Date:        r.Date,
		Priority:    r.Priority,
		Category:    r.Category,
		UserIDs:     r.UserIDs,
	}
	if r.Subtasks != nil {
		inputs := toSubtaskInputs(*r.Subtasks)
		p.Subtasks = &inputs
	}
	return p
}

// ListTasks returns the tasks created by the requester
func (h *TaskHandler) ListTasks(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.List(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// GetTask returns a specific task with its assignees and subtasks
func (h *TaskHandler) GetTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	cardID, ok := parseID(c, "cardId", services.ErrTaskNotFound)
	if !ok {
		return
	}

	task, err := h.taskService.Get(c.Request.Context(), user, cardID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), user, req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask replaces a task. Omitted user_ids or subtasks clear the task's
// assignments or checklist.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	cardID, ok := parseID(c, "cardId", services.ErrTaskNotFound)
	if !ok {
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), user, cardID, req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// PatchTask partially updates a task. A body carrying a status key takes
// the status-only path and answers with {message, status}.
func (h *TaskHandler) PatchTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	cardID, ok := parseID(c, "cardId", services.ErrTaskNotFound)
	if !ok {
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(body, &keys); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if raw, present := keys["status"]; present {
		var status *string
		if err := json.Unmarshal(raw, &status); err != nil {
			apierrors.ValidationFailed(c, "Not a valid string.", map[string][]string{"status": {"Not a valid string."}})
			return
		}

		value := ""
		if status != nil {
			value = *status
		}
		updated, err := h.taskService.UpdateStatus(c.Request.Context(), user, cardID, value)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, dto.StatusUpdateDTO{
			Message: statusUpdatedMessage,
			Status:  updated,
		})
		return
	}

	var req TaskPatchRequest
	if err := binding.JSON.BindBody(body, &req); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	task, err := h.taskService.Patch(c.Request.Context(), user, cardID, req.patch())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task with its assignments and subtasks
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	cardID, ok := parseID(c, "cardId", services.ErrTaskNotFound)
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), user, cardID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
