package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/join-board/join-api/internal/constants"
	apierrors "github.com/join-board/join-api/internal/errors"
	"github.com/join-board/join-api/internal/models"
	"github.com/join-board/join-api/internal/services"
)

// RequireTaskAccess loads the task named by :cardId when the current user
// created it. Tasks of other users are reported as not found.
func RequireTaskAccess(taskService *services.TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cardID, err := strconv.ParseUint(c.Param("cardId"), 10, 64)
		if err != nil {
			apierrors.NotFound(c, services.ErrTaskNotFound.Error())
			c.Abort()
			return
		}

		user, exists := GetUser(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		task, err := taskService.Get(c.Request.Context(), user, cardID)
		if err != nil {
			if errors.Is(err, services.ErrTaskNotFound) {
				apierrors.NotFound(c, err.Error())
			} else {
				Logger(c).WithError(err).Error("task lookup failed")
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTask, task)
		c.Next()
	}
}

// GetTask retrieves the task loaded by RequireTaskAccess
func GetTask(c *gin.Context) (*models.Task, bool) {
	value, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return nil, false
	}
	task, ok := value.(*models.Task)
	return task, ok && task != nil
}
