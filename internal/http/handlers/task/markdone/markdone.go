// Package markdone реализует HTTP-обработчик перевода задачи в статус Completed.
// Операция идемпотентна: повторный вызов для завершённой задачи — не ошибка.
package markdone

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/taskkeeper/internal/http/middlewarectx"
	"github.com/magabrotheeeer/taskkeeper/internal/http/response"
	"github.com/magabrotheeeer/taskkeeper/internal/lib/sl"
	"github.com/magabrotheeeer/taskkeeper/internal/models"
	services "github.com/magabrotheeeer/taskkeeper/internal/services/task"
)

// Handler обрабатывает запросы завершения задачи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики завершения задачи.
type Service interface {
	MarkDone(ctx context.Context, userUID string, id int) (*models.Task, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.task.markdone"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid id format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	task, err := h.service.MarkDone(r.Context(), userUID, id)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			log.Info("task not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("task not found"))
			return
		}
		log.Error("failed to mark task as done", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not mark task as done"))
		return
	}

	log.Info("success to mark task as done", slog.Int("id", task.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"task": task,
	}))
}
