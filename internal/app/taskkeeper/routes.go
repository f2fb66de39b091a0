// Package taskkeeper предоставляет маршруты для основного приложения.
package taskkeeper

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/taskkeeper/internal/cache"
	"github.com/magabrotheeeer/taskkeeper/internal/config"
	"github.com/magabrotheeeer/taskkeeper/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/taskkeeper/internal/http/handlers/auth/token"
	taskcreate "github.com/magabrotheeeer/taskkeeper/internal/http/handlers/task/create"
	tasklist "github.com/magabrotheeeer/taskkeeper/internal/http/handlers/task/list"
	tasklisthigh "github.com/magabrotheeeer/taskkeeper/internal/http/handlers/task/listhigh"
	taskmarkdone "github.com/magabrotheeeer/taskkeeper/internal/http/handlers/task/markdone"
	taskread "github.com/magabrotheeeer/taskkeeper/internal/http/handlers/task/read"
	taskremove "github.com/magabrotheeeer/taskkeeper/internal/http/handlers/task/remove"
	taskremovecompleted "github.com/magabrotheeeer/taskkeeper/internal/http/handlers/task/removecompleted"
	taskupdate "github.com/magabrotheeeer/taskkeeper/internal/http/handlers/task/update"
	userlist "github.com/magabrotheeeer/taskkeeper/internal/http/handlers/user/list"
	userremove "github.com/magabrotheeeer/taskkeeper/internal/http/handlers/user/remove"
	"github.com/magabrotheeeer/taskkeeper/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/taskkeeper/internal/services/auth"
	taskservice "github.com/magabrotheeeer/taskkeeper/internal/services/task"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	authService *authservice.AuthService, taskService *taskservice.TaskService, cacheRedis *cache.Cache) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	// Открытые конечные точки
	r.Post("/token", token.New(logger, authService, cacheRedis, cfg.MaxAttempts, cfg.Window).ServeHTTP)
	r.Post("/create-new-account", register.New(logger, authService).ServeHTTP)
	r.Get("/users/", userlist.New(logger, authService).ServeHTTP)

	// Группа с JWT аутентификацией
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.JWTMiddleware(authService, logger))
		r.Use(middlewarectx.RateLimitMiddleware(logger))
		r.Post("/add-task", taskcreate.New(logger, taskService).ServeHTTP)
		r.Get("/tasks/", tasklist.New(logger, taskService).ServeHTTP)
		r.Get("/tasks/{id}", taskread.New(logger, taskService).ServeHTTP)
		r.Put("/update-task/{id}", taskupdate.New(logger, taskService).ServeHTTP)
		r.Put("/markasdone-task/{id}", taskmarkdone.New(logger, taskService).ServeHTTP)
		r.Get("/high-priority-tasks/", tasklisthigh.New(logger, taskService).ServeHTTP)
		r.Delete("/delete-task/{id}", taskremove.New(logger, taskService).ServeHTTP)
		r.Delete("/delete-completed-tasks/", taskremovecompleted.New(logger, taskService).ServeHTTP)
		r.Delete("/delete-account/", userremove.New(logger, authService).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
