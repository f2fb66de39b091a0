// Package remove реализует HTTP-обработчик удаления учётной записи.
//
// Удаляются все задачи текущего пользователя и сама учётная запись
// одной транзакцией: частичное удаление невозможно.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/taskkeeper/internal/http/middlewarectx"
	"github.com/magabrotheeeer/taskkeeper/internal/http/response"
	"github.com/magabrotheeeer/taskkeeper/internal/lib/sl"
)

// Handler обрабатывает запросы удаления учётной записи.
type Handler struct {
	log         *slog.Logger
	authService Service
}

// Service описывает интерфейс бизнес-логики удаления учётной записи.
type Service interface {
	DeleteAccount(ctx context.Context, userUID string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, authService Service) *Handler {
	return &Handler{
		log:         log,
		authService: authService,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.remove"

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

	if err := h.authService.DeleteAccount(r.Context(), userUID); err != nil {
		log.Error("failed to delete account", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not delete account"))
		return
	}

	log.Info("account deleted", slog.String("useruid", userUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "account and all its tasks deleted",
	}))
}
