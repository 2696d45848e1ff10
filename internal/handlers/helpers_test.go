package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/join-board/join-api/internal/logging"
	"github.com/join-board/join-api/internal/middleware"
	"github.com/join-board/join-api/internal/models"
	"github.com/join-board/join-api/internal/repository"
	"github.com/join-board/join-api/internal/services"
	"github.com/join-board/join-api/internal/utils"
	"github.com/join-board/join-api/internal/validators"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testPassword = "supersecret"

type testEnv struct {
	db             *gorm.DB
	router         *gin.Engine
	authService    *services.AuthService
	contactService *services.ContactService
	taskService    *services.TaskService
	tokenRepo      repository.TokenRepository
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validators.Register())

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.AuthToken{},
		&models.Contact{},
		&models.Task{},
		&models.TaskUserDetails{},
		&models.Subtask{},
	))

	log := logging.Discard()
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	env := testEnv{
		db:             db,
		authService:    services.NewAuthService(userRepo, tokenRepo, 6*time.Second, log),
		contactService: services.NewContactService(repository.NewContactRepository(db), userRepo, log),
		taskService:    services.NewTaskService(repository.NewTaskRepository(db), userRepo, log),
		tokenRepo:      tokenRepo,
	}
	subtaskService := services.NewSubtaskService(repository.NewSubtaskRepository(db))

	authHandler := NewAuthHandler(env.authService)
	contactHandler := NewContactHandler(env.contactService)
	taskHandler := NewTaskHandler(env.taskService)
	subtaskHandler := NewSubtaskHandler(subtaskService)
	requireAuth := middleware.RequireAuth(env.authService)

	r := gin.New()
	r.POST("/api/auth/register", authHandler.Register)
	r.POST("/api/auth/login", authHandler.Login)
	r.POST("/api/auth/guest-login", authHandler.GuestLogin)
	r.POST("/api/auth/logout", requireAuth, authHandler.Logout)
	r.GET("/api/auth/me", requireAuth, authHandler.GetCurrentUser)
	r.GET("/api/users", requireAuth, authHandler.ListUsers)
	r.GET("/api/users/:id", requireAuth, authHandler.GetUser)

	contacts := r.Group("/api/contacts", requireAuth)
	contacts.GET("", contactHandler.ListContacts)
	contacts.POST("", contactHandler.CreateContact)
	contacts.GET("/:id", contactHandler.GetContact)
	contacts.PUT("/:id", contactHandler.UpdateContact)
	contacts.PATCH("/:id", contactHandler.PatchContact)
	contacts.DELETE("/:id", contactHandler.DeleteContact)

	tasks := r.Group("/api/tasks", requireAuth)
	tasks.GET("", taskHandler.ListTasks)
	tasks.POST("", taskHandler.CreateTask)
	tasks.GET("/:cardId", taskHandler.GetTask)
	tasks.PUT("/:cardId", taskHandler.UpdateTask)
	tasks.PATCH("/:cardId", taskHandler.PatchTask)
	tasks.DELETE("/:cardId", taskHandler.DeleteTask)

	subtasks := tasks.Group("/:cardId/subtasks", middleware.RequireTaskAccess(env.taskService))
	subtasks.GET("", subtaskHandler.ListSubtasks)
	subtasks.POST("", subtaskHandler.CreateSubtask)
	subtasks.GET("/:id", subtaskHandler.GetSubtask)
	subtasks.PUT("/:id", subtaskHandler.UpdateSubtask)
	subtasks.PATCH("/:id", subtaskHandler.PatchSubtask)
	subtasks.DELETE("/:id", subtaskHandler.DeleteSubtask)

	env.router = r
	return env
}

// createUser inserts an account with testPassword and returns it with a live token.
func (env testEnv) createUser(t *testing.T, username, email string) (*models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	require.NoError(t, env.db.Create(user).Error)

	key, err := utils.GenerateTokenKey()
	require.NoError(t, err)
	require.NoError(t, env.tokenRepo.Replace(context.Background(), &models.AuthToken{Key: key, UserID: user.ID}))

	return user, key
}

func (env testEnv) do(t *testing.T, method, url, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	if token == "" {
		return env.doAuth(t, method, url, "", payload)
	}
	return env.doAuth(t, method, url, "Token "+token, payload)
}

func (env testEnv) doAuth(t *testing.T, method, url, authorization string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	switch p := payload.(type) {
	case nil:
		body = bytes.NewReader(nil)
	case string:
		body = bytes.NewReader([]byte(p))
	default:
		raw, err := json.Marshal(p)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, url, body)
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func idPath(prefix string, id uint64) string {
	return prefix + "/" + strconv.FormatUint(id, 10)
}

type errorBody struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
