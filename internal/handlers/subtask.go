package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/join-board/join-api/internal/dto"
	apierrors "github.com/join-board/join-api/internal/errors"
	"github.com/join-board/join-api/internal/middleware"
	"github.com/join-board/join-api/internal/services"
)

// SubtaskHandler serves the checklist of a task. Routes sit behind
// middleware.RequireTaskAccess, which loads the task.
type SubtaskHandler struct {
	subtaskService *services.SubtaskService
}

// NewSubtaskHandler creates a new SubtaskHandler.
func NewSubtaskHandler(subtaskService *services.SubtaskService) *SubtaskHandler {
	return &SubtaskHandler{subtaskService: subtaskService}
}

// SubtaskPatchRequest is the body of PATCH on a subtask.
type SubtaskPatchRequest struct {
	Subtasktext *string `json:"subtasktext" binding:"omitempty,min=1,max=100"`
	Checked     *bool   `json:"checked"`
}

// ListSubtasks returns the subtasks of the task
func (h *SubtaskHandler) ListSubtasks(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.NotFound(c, services.ErrTaskNotFound.Error())
		return
	}

	subtasks, err := h.subtaskService.List(c.Request.Context(), task)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSubtaskDTOs(subtasks))
}

// GetSubtask returns one subtask of the task
func (h *SubtaskHandler) GetSubtask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.NotFound(c, services.ErrTaskNotFound.Error())
		return
	}
	id, ok := parseID(c, "id", services.ErrSubtaskNotFound)
	if !ok {
		return
	}

	subtask, err := h.subtaskService.Get(c.Request.Context(), task, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSubtaskDTO(*subtask))
}

// CreateSubtask appends a subtask to the task
func (h *SubtaskHandler) CreateSubtask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.NotFound(c, services.ErrTaskNotFound.Error())
		return
	}

	var req SubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	subtask, err := h.subtaskService.Create(c.Request.Context(), task, services.SubtaskInput{
		Subtasktext: req.Subtasktext,
		Checked:     req.Checked,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToSubtaskDTO(*subtask))
}

// UpdateSubtask replaces a subtask
func (h *SubtaskHandler) UpdateSubtask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.NotFound(c, services.ErrTaskNotFound.Error())
		return
	}
	id, ok := parseID(c, "id", services.ErrSubtaskNotFound)
	if !ok {
		return
	}

	var req SubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	subtask, err := h.subtaskService.Update(c.Request.Context(), task, id, services.SubtaskInput{
		Subtasktext: req.Subtasktext,
		Checked:     req.Checked,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSubtaskDTO(*subtask))
}

// PatchSubtask changes the fields present in the body. Guests are refused.
func (h *SubtaskHandler) PatchSubtask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.NotFound(c, services.ErrTaskNotFound.Error())
		return
	}
	id, ok := parseID(c, "id", services.ErrSubtaskNotFound)
	if !ok {
		return
	}

	var req SubtaskPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	subtask, err := h.subtaskService.Patch(c.Request.Context(), user, task, id, services.SubtaskPatch{
		Subtasktext: req.Subtasktext,
		Checked:     req.Checked,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSubtaskDTO(*subtask))
}

// DeleteSubtask removes a subtask
func (h *SubtaskHandler) DeleteSubtask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.NotFound(c, services.ErrTaskNotFound.Error())
		return
	}
	id, ok := parseID(c, "id", services.ErrSubtaskNotFound)
	if !ok {
		return
	}

	if err := h.subtaskService.Delete(c.Request.Context(), task, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
