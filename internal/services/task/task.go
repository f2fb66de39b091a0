// Package services содержит бизнес-логику для управления задачами пользователя.
// Все операции обязаны принимать идентификатор владельца: голый ID задачи
// никогда не даёт доступа к записи.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/taskkeeper/internal/models"
)

// ErrTaskNotFound возвращается, когда задача не существует или принадлежит
// другому пользователю. Эти случаи намеренно не различаются.
var ErrTaskNotFound = errors.New("task not found")

// deadlineLayout формат даты срока выполнения в JSON-запросах.
const deadlineLayout = "2006-01-02"

// TaskRepository определяет методы для работы с задачами в хранилище.
type TaskRepository interface {
	// CreateTask добавляет новую задачу и возвращает её ID.
	CreateTask(ctx context.Context, task models.Task) (int, error)
	// ReadTask возвращает задачу по ID и владельцу.
	ReadTask(ctx context.Context, userUID string, id int) (*models.Task, error)
	// ListTasks возвращает список задач пользователя с пагинацией.
	ListTasks(ctx context.Context, userUID string, limit, offset int) ([]*models.Task, error)
	// ListTasksByPriority возвращает задачи пользователя с заданным приоритетом.
	ListTasksByPriority(ctx context.Context, userUID, priority string, limit, offset int) ([]*models.Task, error)
	// UpdateTask перезаписывает поля задачи и возвращает новый снимок.
	UpdateTask(ctx context.Context, task models.Task) (*models.Task, error)
	// MarkTaskDone переводит задачу в статус Completed.
	MarkTaskDone(ctx context.Context, userUID string, id int) (*models.Task, error)
	// RemoveTask удаляет задачу и возвращает удалённый снимок.
	RemoveTask(ctx context.Context, userUID string, id int) (*models.Task, error)
	// RemoveCompletedTasks удаляет завершённые задачи пользователя, возвращает число удалённых.
	RemoveCompletedTasks(ctx context.Context, userUID string) (int, error)
}

// TaskService реализует бизнес-логику работы с задачами.
type TaskService struct {
	repo TaskRepository
	log  *slog.Logger
}

// NewTaskService создает новый экземпляр TaskService.
func NewTaskService(repo TaskRepository, log *slog.Logger) *TaskService {
	return &TaskService{
		repo: repo,
		log:  log,
	}
}

// buildTask конвертирует DummyTask в Task, подставляя значения по умолчанию
// и разбирая даты из строк.
func buildTask(userUID string, req models.DummyTask) (models.Task, error) {
	task := models.Task{
		Name:     req.Name,
		Status:   req.Status,
		Priority: req.Priority,
		UserUID:  userUID,
	}
	if task.Name == "" {
		task.Name = models.DefaultTaskName
	}
	if task.Status == "" {
		task.Status = models.StatusPending
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if req.Description != "" {
		task.Description = &req.Description
	}
	if req.Deadline != "" {
		deadline, err := time.Parse(deadlineLayout, req.Deadline)
		if err != nil {
			return models.Task{}, fmt.Errorf("invalid deadline: %w", err)
		}
		task.Deadline = &deadline
	}
	if req.Reminder != "" {
		reminder, err := time.Parse(time.RFC3339, req.Reminder)
		if err != nil {
			return models.Task{}, fmt.Errorf("invalid reminder: %w", err)
		}
		task.Reminder = &reminder
	}
	return task, nil
}

// Create создает новую задачу для пользователя и возвращает перечитанную из
// хранилища запись. Если чтение после вставки промахивается, создание считается
// неудавшимся — задача, существование которой не подтверждено, не возвращается.
func (s *TaskService) Create(ctx context.Context, userUID string, req models.DummyTask) (*models.Task, error) {
	task, err := buildTask(userUID, req)
	if err != nil {
		return nil, err
	}

	id, err := s.repo.CreateTask(ctx, task)
	if err != nil {
		return nil, err
	}
	s.log.Info("created new task", slog.Int("id", id))

	created, err := s.repo.ReadTask(ctx, userUID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task creation could not be confirmed")
		}
		return nil, err
	}
	return created, nil
}

// Read возвращает задачу по ID владельца.
func (s *TaskService) Read(ctx context.Context, userUID string, id int) (*models.Task, error) {
	result, err := s.repo.ReadTask(ctx, userUID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return result, nil
}

// List возвращает задачи пользователя с пагинацией.
// Пустой список — корректный результат, а не ошибка.
func (s *TaskService) List(ctx context.Context, userUID string, limit, offset int) ([]*models.Task, error) {
	return s.repo.ListTasks(ctx, userUID, limit, offset)
}

// ListHighPriority возвращает задачи пользователя с приоритетом High.
func (s *TaskService) ListHighPriority(ctx context.Context, userUID string, limit, offset int) ([]*models.Task, error) {
	return s.repo.ListTasksByPriority(ctx, userUID, models.PriorityHigh, limit, offset)
}

// Update полностью перезаписывает поля задачи и возвращает новый снимок.
// На промахе возвращает ErrTaskNotFound и никогда не создаёт запись.
func (s *TaskService) Update(ctx context.Context, userUID string, id int, req models.DummyTask) (*models.Task, error) {
	task, err := buildTask(userUID, req)
	if err != nil {
		return nil, err
	}
	task.ID = id

	result, err := s.repo.UpdateTask(ctx, task)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	s.log.Info("updated task", slog.Int("id", id))
	return result, nil
}

// MarkDone переводит задачу в статус Completed. Идемпотентна:
// повторный вызов для завершённой задачи возвращает её без ошибки.
func (s *TaskService) MarkDone(ctx context.Context, userUID string, id int) (*models.Task, error) {
	result, err := s.repo.MarkTaskDone(ctx, userUID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	s.log.Info("marked task as done", slog.Int("id", id))
	return result, nil
}

// Remove удаляет задачу и возвращает удалённый снимок.
func (s *TaskService) Remove(ctx context.Context, userUID string, id int) (*models.Task, error) {
	result, err := s.repo.RemoveTask(ctx, userUID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	s.log.Info("removed task", slog.Int("id", id))
	return result, nil
}

// RemoveCompleted удаляет все завершённые задачи пользователя.
// Ноль удалённых строк — это успех.
func (s *TaskService) RemoveCompleted(ctx context.Context, userUID string) (int, error) {
	count, err := s.repo.RemoveCompletedTasks(ctx, userUID)
	if err != nil {
		return 0, err
	}
	s.log.Info("removed completed tasks", slog.Int("count", count))
	return count, nil
}
