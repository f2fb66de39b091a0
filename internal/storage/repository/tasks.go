package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/taskkeeper/internal/models"
)

// taskColumns список колонок задачи в порядке, который ожидает scanTask.
const taskColumns = `id, name, description, deadline, reminder, status, priority, user_uid`

// scanTask читает строку задачи из row с учётом nullable-полей.
func scanTask(row interface{ Scan(dest ...any) error }) (*models.Task, error) {
	var t models.Task
	var description sql.NullString
	var deadline, reminder sql.NullTime
	if err := row.Scan(&t.ID, &t.Name, &description, &deadline, &reminder,
		&t.Status, &t.Priority, &t.UserUID); err != nil {
		return nil, err
	}
	if description.Valid {
		t.Description = &description.String
	}
	if deadline.Valid {
		t.Deadline = &deadline.Time
	}
	if reminder.Valid {
		t.Reminder = &reminder.Time
	}
	return &t, nil
}

// CreateTask вставляет новую задачу и возвращает её ID.
func (s *Storage) CreateTask(ctx context.Context, task models.Task) (int, error) {
	const op = "storage.CreateTask"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO tasks (name, description, deadline, reminder, status, priority, user_uid)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		task.Name, task.Description, task.Deadline, task.Reminder,
		task.Status, task.Priority, task.UserUID).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadTask возвращает задачу по её ID и владельцу.
// Чужая и несуществующая задачи неразличимы: обе дают sql.ErrNoRows.
func (s *Storage) ReadTask(ctx context.Context, userUID string, id int) (*models.Task, error) {
	const op = "storage.ReadTask"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + taskColumns + `
			  FROM tasks
			  WHERE id = $1 AND user_uid = $2`
	result, err := scanTask(s.DB.QueryRowContext(ctx, query, id, userUID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListTasks возвращает список всех задач пользователя с пагинацией.
func (s *Storage) ListTasks(ctx context.Context, userUID string, limit, offset int) ([]*models.Task, error) {
	const op = "storage.ListTasks"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + taskColumns + `
			  FROM tasks
			  WHERE user_uid = $1
			  ORDER BY id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Task
	for rows.Next() {
		item, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListTasksByPriority возвращает задачи пользователя с заданным приоритетом с пагинацией.
func (s *Storage) ListTasksByPriority(ctx context.Context, userUID, priority string, limit, offset int) ([]*models.Task, error) {
	const op = "storage.ListTasksByPriority"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + taskColumns + `
			  FROM tasks
			  WHERE user_uid = $1 AND priority = $2
			  ORDER BY id
			  LIMIT $3 OFFSET $4`
	rows, err := s.DB.QueryContext(ctx, query, userUID, priority, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Task
	for rows.Next() {
		item, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateTask полностью перезаписывает поля задачи по (ID, владелец) в одной транзакции:
// сначала берётся блокирующий снимок строки, затем выполняется единственный UPDATE,
// возвращается новый снимок. На промахе — sql.ErrNoRows, апдейт никогда не создаёт строку.
func (s *Storage) UpdateTask(ctx context.Context, task models.Task) (*models.Task, error) {
	const op = "storage.UpdateTask"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var existingID int
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM tasks WHERE id = $1 AND user_uid = $2 FOR UPDATE`,
		task.ID, task.UserUID).Scan(&existingID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE tasks
			  SET name = $1, description = $2, deadline = $3, reminder = $4,
			      status = $5, priority = $6
			  WHERE id = $7 AND user_uid = $8
			  RETURNING ` + taskColumns
	result, err := scanTask(tx.QueryRowContext(ctx, query,
		task.Name, task.Description, task.Deadline, task.Reminder,
		task.Status, task.Priority, task.ID, task.UserUID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// MarkTaskDone переводит задачу в статус Completed в одной транзакции
// и возвращает новый снимок. Повторный вызов для уже завершённой задачи
// возвращает её без ошибки.
func (s *Storage) MarkTaskDone(ctx context.Context, userUID string, id int) (*models.Task, error) {
	const op = "storage.MarkTaskDone"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var existingID int
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM tasks WHERE id = $1 AND user_uid = $2 FOR UPDATE`,
		id, userUID).Scan(&existingID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE tasks
			  SET status = $1
			  WHERE id = $2 AND user_uid = $3
			  RETURNING ` + taskColumns
	result, err := scanTask(tx.QueryRowContext(ctx, query, models.StatusCompleted, id, userUID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RemoveTask удаляет задачу по (ID, владелец) и возвращает удалённый снимок.
func (s *Storage) RemoveTask(ctx context.Context, userUID string, id int) (*models.Task, error) {
	const op = "storage.RemoveTask"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM tasks
			  WHERE id = $1 AND user_uid = $2
			  RETURNING ` + taskColumns
	result, err := scanTask(s.DB.QueryRowContext(ctx, query, id, userUID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RemoveCompletedTasks удаляет все завершённые задачи пользователя
// и возвращает количество удалённых строк. Ноль — это успех.
func (s *Storage) RemoveCompletedTasks(ctx context.Context, userUID string) (int, error) {
	const op = "storage.RemoveCompletedTasks"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM tasks
			  WHERE user_uid = $1 AND status = $2`
	result, err := s.DB.ExecContext(ctx, query, userUID, models.StatusCompleted)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
