package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/join-board/join-api/internal/constants"
	apierrors "github.com/join-board/join-api/internal/errors"
	"github.com/join-board/join-api/internal/models"
	"github.com/join-board/join-api/internal/services"
)

// RequireAuth resolves the Authorization token to a user and stamps the
// user's activity. Requests without a valid token are rejected with 401.
func RequireAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := tokenFromHeader(c.GetHeader("Authorization"))
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		user, err := authService.Authenticate(c.Request.Context(), key)
		if err != nil {
			if errors.Is(err, services.ErrUnauthenticated) {
				apierrors.Unauthorized(c, err.Error())
			} else {
				Logger(c).WithError(err).Error("token lookup failed")
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		// Stamping is best effort; the request continues either way.
		if err := authService.TouchActivity(c.Request.Context(), user); err != nil {
			Logger(c).WithError(err).WithField("user_id", user.ID).Warn("activity stamp failed")
		}

		c.Set(constants.ContextKeyUser, user)
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Next()
	}
}

// tokenFromHeader accepts "Token <key>" and "Bearer <key>".
func tokenFromHeader(header string) (string, bool) {
	scheme, key, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found {
		return "", false
	}
	if !strings.EqualFold(scheme, constants.AuthSchemeToken) && !strings.EqualFold(scheme, constants.AuthSchemeBearer) {
		return "", false
	}
	key = strings.TrimSpace(key)
	return key, key != ""
}

// GetUser retrieves the authenticated user from context
func GetUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok && user != nil
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
