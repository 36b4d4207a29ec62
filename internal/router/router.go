package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/startsmart/backend/api/handler"
)

type Handlers struct {
	Auth     *apiHandler.AuthHandler
	Profile  *apiHandler.ProfileHandler
	Task     *apiHandler.TaskHandler
	Reminder *apiHandler.ReminderHandler
	Health   *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/refresh", handlers.Auth.Refresh)

	// Protected routes
	r.GET("/api/v1/compliance-profile", authMiddleware(handlers.Profile.GetProfile))
	r.PUT("/api/v1/compliance-profile", authMiddleware(handlers.Profile.UpsertProfile))
	r.POST("/api/v1/compliance-profile/seed", authMiddleware(handlers.Profile.SeedTasks))

	r.GET("/api/v1/tasks", authMiddleware(handlers.Task.GetTasks))
	r.POST("/api/v1/tasks", authMiddleware(handlers.Task.CreateTask))
	r.GET("/api/v1/tasks/{id}", authMiddleware(handlers.Task.GetTask))
	r.PATCH("/api/v1/tasks/{id}", authMiddleware(handlers.Task.PatchTask))
	r.DELETE("/api/v1/tasks/{id}", authMiddleware(handlers.Task.DeleteTask))
	r.POST("/api/v1/tasks/{id}/rollover", authMiddleware(handlers.Task.Rollover))
	r.POST("/api/v1/tasks/{id}/mark-recurring", authMiddleware(handlers.Task.MarkRecurring))

	r.GET("/api/v1/reminder-settings", authMiddleware(handlers.Reminder.GetSettings))
	r.POST("/api/v1/reminder-settings", authMiddleware(handlers.Reminder.UpdateSettings))

	return r
}
