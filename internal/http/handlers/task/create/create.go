// Package create реализует HTTP-обработчик для создания новых задач пользователя.
//
// Handler принимает JSON-запрос с данными задачи, валидирует их, извлекает владельца
// из контекста, вызывает бизнес-логику создания задачи через сервис и возвращает
// перечитанную из хранилища запись в JSON-формате.
//
// В случае ошибок формируются соответствующие HTTP-ответы с описанием проблемы.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/magabrotheeeer/taskkeeper/internal/http/middlewarectx"
	"github.com/magabrotheeeer/taskkeeper/internal/http/response"
	"github.com/magabrotheeeer/taskkeeper/internal/lib/sl"
	"github.com/magabrotheeeer/taskkeeper/internal/models"
)

// Handler управляет HTTP-запросами на создание новых задач.
//
// Использует логгер для записи операций и ошибок,
// сервис бизнес-логики для создания задачи,
// а также валидатор для проверки структуры входных данных.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики для создания задач
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания задачи.
type Service interface {
	Create(ctx context.Context, userUID string, req models.DummyTask) (*models.Task, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать новую задачу
// @Description Создает новую задачу для текущего пользователя. Возвращает созданную запись.
// @Tags Tasks
// @Accept  json
// @Produce  json
// @Param request body models.DummyTask true "Данные новой задачи"
// @Success 200 {object} map[string]any "Успешное создание задачи"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании задачи"
// @Security BearerAuth
// @Router /add-task [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.task.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyTask
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	task, err := h.service.Create(r.Context(), userUID, req)
	if err != nil {
		log.Error("failed to create task", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create task"))
		return
	}

	log.Info("success to create task", slog.Int("id", task.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"task": task,
	}))
}
