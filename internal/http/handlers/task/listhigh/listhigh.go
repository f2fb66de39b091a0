// Package listhigh реализует HTTP-обработчик списка задач с приоритетом High.
package listhigh

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	tasklist "github.com/magabrotheeeer/taskkeeper/internal/http/handlers/task/list"
	"github.com/magabrotheeeer/taskkeeper/internal/http/middlewarectx"
	"github.com/magabrotheeeer/taskkeeper/internal/http/response"
	"github.com/magabrotheeeer/taskkeeper/internal/lib/sl"
	"github.com/magabrotheeeer/taskkeeper/internal/models"
)

// Handler обрабатывает запросы списка высокоприоритетных задач.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики фильтра по приоритету.
type Service interface {
	ListHighPriority(ctx context.Context, userUID string, limit, offset int) ([]*models.Task, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.task.listhigh"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	limit, offset := tasklist.Pagination(r)

	tasks, err := h.service.ListHighPriority(r.Context(), userUID, limit, offset)
	if err != nil {
		log.Error("failed to list high priority tasks", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list tasks"))
		return
	}
	if len(tasks) == 0 {
		log.Info("no high priority tasks found")
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("no tasks found"))
		return
	}

	log.Info("success to list high priority tasks", slog.Int("count", len(tasks)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"tasks": tasks,
	}))
}
