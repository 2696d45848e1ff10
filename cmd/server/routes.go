package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/join-board/join-api/internal/handlers"
	"github.com/join-board/join-api/internal/middleware"
	"github.com/join-board/join-api/internal/repository"
	"github.com/join-board/join-api/internal/services"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// app holds the wired services shared by the router and the sweeper job.
type app struct {
	authService    *services.AuthService
	contactService *services.ContactService
	taskService    *services.TaskService
	subtaskService *services.SubtaskService
	sweeper        *services.SweeperService
}

func newApp(db *gorm.DB, settings appSettings, log *logrus.Logger) *app {
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	contactRepo := repository.NewContactRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	subtaskRepo := repository.NewSubtaskRepository(db)

	return &app{
		authService:    services.NewAuthService(userRepo, tokenRepo, settings.activityStampInterval, log),
		contactService: services.NewContactService(contactRepo, userRepo, log),
		taskService:    services.NewTaskService(taskRepo, userRepo, log),
		subtaskService: services.NewSubtaskService(subtaskRepo),
		sweeper:        services.NewSweeperService(userRepo, tokenRepo, settings.sweeper, log),
	}
}

func setupRouter(a *app, log *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	authHandler := handlers.NewAuthHandler(a.authService)
	contactHandler := handlers.NewContactHandler(a.contactService)
	taskHandler := handlers.NewTaskHandler(a.taskService)
	subtaskHandler := handlers.NewSubtaskHandler(a.subtaskService)

	requireAuth := middleware.RequireAuth(a.authService)
	requireTask := middleware.RequireTaskAccess(a.taskService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Join API is running",
		})
	})

	api := r.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/guest-login", authHandler.GuestLogin)
			auth.POST("/logout", requireAuth, authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		// User directory (read-only)
		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("", authHandler.ListUsers)
			users.GET("/:id", authHandler.GetUser)
		}

		// Contact routes
		contacts := api.Group("/contacts")
		contacts.Use(requireAuth)
		{
			contacts.GET("", contactHandler.ListContacts)
			contacts.POST("", contactHandler.CreateContact)
			contacts.GET("/:id", contactHandler.GetContact)
			contacts.PUT("/:id", contactHandler.UpdateContact)
			contacts.PATCH("/:id", contactHandler.PatchContact)
			contacts.DELETE("/:id", contactHandler.DeleteContact)
		}

		// Task routes
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:cardId", taskHandler.GetTask)
			tasks.PUT("/:cardId", taskHandler.UpdateTask)
			tasks.PATCH("/:cardId", taskHandler.PatchTask)
			tasks.DELETE("/:cardId", taskHandler.DeleteTask)

			subtasks := tasks.Group("/:cardId/subtasks")
			subtasks.Use(requireTask)
			{
				subtasks.GET("", subtaskHandler.ListSubtasks)
				subtasks.POST("", subtaskHandler.CreateSubtask)
				subtasks.GET("/:id", subtaskHandler.GetSubtask)
				subtasks.PUT("/:id", subtaskHandler.UpdateSubtask)
				subtasks.PATCH("/:id", subtaskHandler.PatchSubtask)
				subtasks.DELETE("/:id", subtaskHandler.DeleteSubtask)
			}
		}
	}

	return r
}
