package register

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/magabrotheeeer/taskkeeper/internal/http/response"
	"github.com/magabrotheeeer/taskkeeper/internal/lib/sl"
	"github.com/magabrotheeeer/taskkeeper/internal/models"
	services "github.com/magabrotheeeer/taskkeeper/internal/services/auth"
)

// Request — входные данные для регистрации
type Request struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	FullName string `json:"full_name,omitempty" validate:"omitempty,max=100"`
	Password string `json:"password" validate:"required,min=6"`
}

// Handler обрабатывает HTTP-запросы на создание учётной записи.
type Handler struct {
	log         *slog.Logger
	authService Service
	validate    *validator.Validate
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, username, fullName, password string) (*models.User, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, authService Service) *Handler {
	return &Handler{
		log:         log,
		authService: authService,
		validate:    validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("username", req.Username))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	user, err := h.authService.Register(r.Context(), req.Username, req.FullName, req.Password)
	if err != nil {
		// занятое имя наружу не различается с прочими ошибками регистрации
		if !errors.Is(err, services.ErrUsernameTaken) {
			log.Error("registration failed", sl.Err(err))
		} else {
			log.Error("registration failed: username taken", slog.String("username", req.Username))
		}
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to register user"))
		return
	}

	log.Info("user registered", slog.String("username", user.Username))
	render.JSON(w, r, map[string]any{
		"Status":       "Success",
		"Created_user": user.Info(),
	})
}
