package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/join-board/join-api/internal/errors"
	"github.com/join-board/join-api/internal/middleware"
	"github.com/join-board/join-api/internal/models"
	"github.com/join-board/join-api/internal/services"
)

// respondError maps service errors onto HTTP responses. Unknown errors are
// logged and reported as 500 without leaking their text.
func respondError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		apierrors.ValidationFailed(c, verr.Error(), verr.Fields)
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, err.Error())
	case errors.Is(err, services.ErrUnauthenticated):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrAccountInactive):
		apierrors.AccountInactive(c, err.Error())
	case errors.Is(err, services.ErrGuestUnavailable):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrGuestTaskPartialUpdate),
		errors.Is(err, services.ErrGuestSubtaskPartialUpdate):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrStatusRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrContactNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrSubtaskNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		middleware.Logger(c).WithError(err).Error("request failed")
		apierrors.InternalError(c, "")
	}
}

// parseID reads a numeric path parameter. Malformed ids cannot name an
// existing row, so they are reported with notFound.
func parseID(c *gin.Context, param string, notFound error) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil {
		apierrors.NotFound(c, notFound.Error())
		return 0, false
	}
	return id, true
}

// currentUser returns the authenticated user or writes a 401.
func currentUser(c *gin.Context) (*models.User, bool) {
	user, ok := middleware.GetUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return nil, false
	}
	return user, true
}
