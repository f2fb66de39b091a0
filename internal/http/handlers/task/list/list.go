// Package list реализует HTTP-обработчик для получения списка задач пользователя.
//
// Пагинация задаётся query-параметрами skip и limit (по умолчанию 0 и 100).
// Пустой список на границе транспорта отдаётся как 404.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/taskkeeper/internal/http/middlewarectx"
	"github.com/magabrotheeeer/taskkeeper/internal/http/response"
	"github.com/magabrotheeeer/taskkeeper/internal/lib/sl"
	"github.com/magabrotheeeer/taskkeeper/internal/models"
)

// defaultLimit размер страницы по умолчанию.
const defaultLimit = 100

// Handler обрабатывает запросы списка задач.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка задач.
type Service interface {
	List(ctx context.Context, userUID string, limit, offset int) ([]*models.Task, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// Pagination извлекает skip и limit из query-параметров запроса.
func Pagination(r *http.Request) (limit, offset int) {
	limit = defaultLimit
	offset = 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if v := r.URL.Query().Get("skip"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}

// ServeHTTP godoc
// @Summary Список задач пользователя
// @Description Возвращает задачи текущего пользователя с пагинацией.
// @Tags Tasks
// @Produce json
// @Param skip query int false "Сколько записей пропустить"
// @Param limit query int false "Размер страницы"
// @Success 200 {object} map[string]any "Список задач"
// @Failure 404 {object} response.ErrorResponse "Задачи не найдены"
// @Security BearerAuth
// @Router /tasks/ [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.task.list"

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

	limit, offset := Pagination(r)

	tasks, err := h.service.List(r.Context(), userUID, limit, offset)
	if err != nil {
		log.Error("failed to list tasks", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list tasks"))
		return
	}
	if len(tasks) == 0 {
		log.Info("no tasks found")
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("no tasks found"))
		return
	}

	log.Info("success to list tasks", slog.Int("count", len(tasks)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"tasks": tasks,
	}))
}
