// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/taskkeeper/internal/lib/jwt"
	"github.com/magabrotheeeer/taskkeeper/internal/lib/password"
	"github.com/magabrotheeeer/taskkeeper/internal/models"
)

// Ошибки уровня аутентификации и жизненного цикла учётной записи.
var (
	// ErrInvalidCredentials возвращается при неверной паре username/password.
	// Несуществующий пользователь и неверный пароль неразличимы.
	ErrInvalidCredentials = errors.New("incorrect username or password")
	// ErrUnauthorized возвращается при невалидном токене или неизвестном subject.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInactiveAccount возвращается для неактивированной учётной записи.
	ErrInactiveAccount = errors.New("inactive account")
	// ErrUsernameTaken возвращается при регистрации с занятым username.
	ErrUsernameTaken = errors.New("username already taken")
)

// uniqueViolationCode код ошибки PostgreSQL для нарушения уникальности.
const uniqueViolationCode = "23505"

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// ActivateUser помечает учётную запись активной, вызов идемпотентен.
	ActivateUser(ctx context.Context, userUID string) error

	// ListUsers возвращает всех пользователей.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// DeleteUserWithTasks удаляет задачи пользователя и саму учётную запись одной транзакцией.
	DeleteUserWithTasks(ctx context.Context, userUID string) error
}

// AuthService отвечает за регистрацию, авторизацию, валидацию JWT
// и удаление учётной записи вместе с её задачами.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля.
// Учётная запись создаётся неактивной и активируется при первом входе по токену.
func (s *AuthService) Register(ctx context.Context, username, fullName, rawPassword string) (*models.User, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Username:     username,
		PasswordHash: hashed,
		IsActive:     false,
	}
	if fullName != "" {
		user.FullName = &fullName
	}
	uid, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	user.UID = uid
	return &user, nil
}

// Login проверяет пароль пользователя и генерирует JWT.
// Отсутствующий пользователь и неверный пароль дают одну и ту же ошибку,
// чтобы не раскрывать существование имени.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (string, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.jwtMaker.GenerateToken(user.Username)
}

// ResolveUser проверяет JWT, находит пользователя по subject и активирует
// учётную запись при первом успешном входе. Невалидный токен и неизвестный
// subject дают ErrUnauthorized.
func (s *AuthService) ResolveUser(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	user, err := s.users.GetUserByUsername(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		if err := s.users.ActivateUser(ctx, user.UID); err != nil {
			return nil, err
		}
		user.IsActive = true
	}
	return user, nil
}

// RequireActive пропускает только активированные учётные записи.
func (s *AuthService) RequireActive(user *models.User) error {
	if !user.IsActive {
		return ErrInactiveAccount
	}
	return nil
}

// ListUsers возвращает публичные проекции всех пользователей.
func (s *AuthService) ListUsers(ctx context.Context) ([]models.UserInfo, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]models.UserInfo, 0, len(users))
	for _, u := range users {
		result = append(result, u.Info())
	}
	return result, nil
}

// DeleteAccount удаляет все задачи пользователя и саму учётную запись.
// Операция атомарна: при ошибке учётная запись остаётся нетронутой.
func (s *AuthService) DeleteAccount(ctx context.Context, userUID string) error {
	if err := s.users.DeleteUserWithTasks(ctx, userUID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUnauthorized
		}
		return err
	}
	return nil
}
