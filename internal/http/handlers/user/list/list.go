// Package list реализует HTTP-обработчик для получения списка пользователей.
//
// В ответ попадает только публичная проекция пользователя: хэши паролей
// наружу не отдаются никогда. Пустой список отдаётся как 404.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/taskkeeper/internal/http/response"
	"github.com/magabrotheeeer/taskkeeper/internal/lib/sl"
	"github.com/magabrotheeeer/taskkeeper/internal/models"
)

// Handler обрабатывает запросы списка пользователей.
type Handler struct {
	log         *slog.Logger
	authService Service
}

// Service описывает интерфейс бизнес-логики списка пользователей.
type Service interface {
	ListUsers(ctx context.Context) ([]models.UserInfo, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, authService Service) *Handler {
	return &Handler{
		log:         log,
		authService: authService,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	users, err := h.authService.ListUsers(r.Context())
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list users"))
		return
	}
	if len(users) == 0 {
		log.Info("no users found")
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("no users found"))
		return
	}

	log.Info("success to list users", slog.Int("count", len(users)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"users": users,
	}))
}
