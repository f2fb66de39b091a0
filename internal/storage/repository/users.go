package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/taskkeeper/internal/models"
)

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (username, full_name, password_hash, is_active)
			  VALUES ($1, $2, $3, $4)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Username, user.FullName, user.PasswordHash, user.IsActive).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, full_name, password_hash, is_active, created_at
			  FROM users
			  WHERE username = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, username)

	var fullName sql.NullString
	if err := row.Scan(&u.UID, &u.Username, &fullName, &u.PasswordHash,
		&u.IsActive, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if fullName.Valid {
		u.FullName = &fullName.String
	}
	return u, nil
}

// ActivateUser помечает учётную запись активной. Повторный вызов не меняет ничего.
func (s *Storage) ActivateUser(ctx context.Context, userUID string) error {
	const op = "storage.ActivateUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET is_active = true
			  WHERE uid = $1`
	if _, err := s.DB.ExecContext(ctx, query, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListUsers возвращает список всех пользователей.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, full_name, password_hash, is_active, created_at
			  FROM users
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		var u models.User
		var fullName sql.NullString
		if err = rows.Scan(&u.UID, &u.Username, &fullName, &u.PasswordHash,
			&u.IsActive, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if fullName.Valid {
			u.FullName = &fullName.String
		}
		result = append(result, &u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeleteUserWithTasks удаляет все задачи пользователя и саму учётную запись
// в одной транзакции. Либо удаляется всё, либо учётная запись остаётся нетронутой.
func (s *Storage) DeleteUserWithTasks(ctx context.Context, userUID string) error {
	const op = "storage.DeleteUserWithTasks"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM tasks WHERE user_uid = $1`, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM users WHERE uid = $1`, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, sql.ErrNoRows)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
