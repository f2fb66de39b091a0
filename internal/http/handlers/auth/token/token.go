// Package token реализует HTTP-обработчик выдачи bearer-токена.
//
// Обработчик принимает учётные данные формой (поля username и password),
// проверяет счётчик неудачных попыток, делегирует вход сервису аутентификации
// и возвращает JSON с access_token. Причина отказа клиенту не раскрывается:
// неизвестное имя и неверный пароль дают один и тот же ответ 401.
package token

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/taskkeeper/internal/http/response"
	"github.com/magabrotheeeer/taskkeeper/internal/lib/sl"
	services "github.com/magabrotheeeer/taskkeeper/internal/services/auth"
)

// Handler обрабатывает HTTP-запросы на выдачу токена.
type Handler struct {
	log         *slog.Logger // Логгер для записи операций и ошибок
	authService Service      // Сервис бизнес-логики аутентификации
	attempts    Attempts     // Счётчики неудачных попыток входа
	maxAttempts int          // Порог, после которого вход блокируется
	window      time.Duration // Окно, в котором копятся неудачные попытки
}

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// Attempts описывает счётчики неудачных попыток входа.
type Attempts interface {
	FailCount(ctx context.Context, username string) (int, error)
	RegisterFailure(ctx context.Context, username string, window time.Duration) error
	ResetFailures(ctx context.Context, username string) error
}

// New создает новый Handler с переданными логгером, сервисом и счётчиками попыток.
func New(log *slog.Logger, authService Service, attempts Attempts, maxAttempts int, window time.Duration) *Handler {
	return &Handler{
		log:         log,
		authService: authService,
		attempts:    attempts,
		maxAttempts: maxAttempts,
		window:      window,
	}
}

// ServeHTTP godoc
// @Summary Выдача bearer-токена
// @Description Аутентифицирует пользователя по имени и паролю из формы. Возвращает access_token.
// @Tags Auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Имя пользователя"
// @Param password formData string true "Пароль"
// @Success 200 {object} map[string]any "Успешная авторизация"
// @Failure 400 {object} response.ErrorResponse "Некорректная форма"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 429 {object} response.ErrorResponse "Слишком много неудачных попыток"
// @Router /token [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.token"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	username := r.PostFormValue("username")
	rawPassword := r.PostFormValue("password")
	if username == "" || rawPassword == "" {
		log.Error("missing credentials in form")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("username and password are required"))
		return
	}

	failCount, err := h.attempts.FailCount(r.Context(), username)
	if err != nil {
		log.Error("failed to check login attempts", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}
	if failCount >= h.maxAttempts {
		log.Error("login throttled", slog.String("username", username))
		w.WriteHeader(http.StatusTooManyRequests)
		render.JSON(w, r, response.Error("too many failed login attempts"))
		return
	}

	accessToken, err := h.authService.Login(r.Context(), username, rawPassword)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			if err := h.attempts.RegisterFailure(r.Context(), username, h.window); err != nil {
				log.Error("failed to register login failure", sl.Err(err))
			}
			log.Error("login failed", slog.String("username", username))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("incorrect username or password"))
			return
		}
		log.Error("login failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
		return
	}

	if err := h.attempts.ResetFailures(r.Context(), username); err != nil {
		log.Warn("failed to reset login attempts", sl.Err(err))
	}

	log.Info("login success", slog.String("username", username))
	render.JSON(w, r, map[string]any{
		"access_token": accessToken,
		"token_type":   "bearer",
	})
}
