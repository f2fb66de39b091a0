package services_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	customjwt "github.com/magabrotheeeer/taskkeeper/internal/lib/jwt"
	"github.com/magabrotheeeer/taskkeeper/internal/lib/password"
	"github.com/magabrotheeeer/taskkeeper/internal/models"
	services "github.com/magabrotheeeer/taskkeeper/internal/services/auth"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UserRepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) ActivateUser(ctx context.Context, userUID string) error {
	args := m.Called(ctx, userUID)
	return args.Error(0)
}

func (m *UserRepoMock) ListUsers(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *UserRepoMock) DeleteUserWithTasks(ctx context.Context, userUID string) error {
	args := m.Called(ctx, userUID)
	return args.Error(0)
}

// Мок для jwt.Maker
type JwtMakerMock struct {
	mock.Mock
}

func (m *JwtMakerMock) GenerateToken(username string) (string, error) {
	args := m.Called(username)
	return args.String(0), args.Error(1)
}

func (m *JwtMakerMock) ParseToken(token string) (*customjwt.CustomClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customjwt.CustomClaims), args.Error(1)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name       string
		username   string
		fullName   string
		password   string
		setupMocks func(r *UserRepoMock)
		wantErr    error
		wantUID    string
	}{
		{
			name:     "successful registration",
			username: "testuser",
			fullName: "Test User",
			password: "password123",
			setupMocks: func(r *UserRepoMock) {
				r.On("RegisterUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Username == "testuser" &&
						user.PasswordHash != "" &&
						user.PasswordHash != "password123" &&
						user.FullName != nil && *user.FullName == "Test User" &&
						!user.IsActive
				})).Return("some-uuid-string", nil).Once()
			},
			wantUID: "some-uuid-string",
		},
		{
			name:     "registration without full name",
			username: "minimal",
			password: "password123",
			setupMocks: func(r *UserRepoMock) {
				r.On("RegisterUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Username == "minimal" && user.FullName == nil
				})).Return("uid-2", nil).Once()
			},
			wantUID: "uid-2",
		},
		{
			name:     "duplicate username",
			username: "testuser",
			password: "password123",
			setupMocks: func(r *UserRepoMock) {
				r.On("RegisterUser", mock.Anything, mock.Anything).
					Return("", &pgconn.PgError{Code: "23505"}).Once()
			},
			wantErr: services.ErrUsernameTaken,
		},
		{
			name:     "repository error",
			username: "testuser",
			password: "password123",
			setupMocks: func(r *UserRepoMock) {
				r.On("RegisterUser", mock.Anything, mock.Anything).
					Return("", errors.New("db error")).Once()
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			jwtMock := new(JwtMakerMock)
			svc := services.NewAuthService(repo, jwtMock)

			tt.setupMocks(repo)

			got, err := svc.Register(context.Background(), tt.username, tt.fullName, tt.password)
			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantUID, got.UID)
				assert.False(t, got.IsActive)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	rawPassword := "correctpassword"
	hash, err := password.GetHash(rawPassword)
	require.NoError(t, err)

	tests := []struct {
		name       string
		username   string
		password   string
		setupMocks func(r *UserRepoMock, j *JwtMakerMock)
		wantToken  string
		wantErr    error
	}{
		{
			name:     "successful login",
			username: "testuser",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				r.On("GetUserByUsername", mock.Anything, "testuser").
					Return(&models.User{Username: "testuser", PasswordHash: hash}, nil).Once()
				j.On("GenerateToken", "testuser").Return("signed-token", nil).Once()
			},
			wantToken: "signed-token",
		},
		{
			name:     "unknown username",
			username: "ghost",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				r.On("GetUserByUsername", mock.Anything, "ghost").
					Return(nil, sql.ErrNoRows).Once()
			},
			wantErr: services.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			username: "testuser",
			password: "wrongpassword",
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				r.On("GetUserByUsername", mock.Anything, "testuser").
					Return(&models.User{Username: "testuser", PasswordHash: hash}, nil).Once()
			},
			wantErr: services.ErrInvalidCredentials,
		},
		{
			name:     "repository error",
			username: "testuser",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				r.On("GetUserByUsername", mock.Anything, "testuser").
					Return(nil, errors.New("db down")).Once()
			},
			wantErr: errors.New("db down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			jwtMock := new(JwtMakerMock)
			svc := services.NewAuthService(repo, jwtMock)

			tt.setupMocks(repo, jwtMock)

			token, err := svc.Login(context.Background(), tt.username, tt.password)
			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
			}

			repo.AssertExpectations(t)
			jwtMock.AssertExpectations(t)
		})
	}
}

// Неизвестное имя и неверный пароль обязаны давать одинаковую ошибку.
func TestAuthService_Login_NoUsernameOracle(t *testing.T) {
	hash, err := password.GetHash("realpassword")
	require.NoError(t, err)

	repo := new(UserRepoMock)
	jwtMock := new(JwtMakerMock)
	svc := services.NewAuthService(repo, jwtMock)

	repo.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, sql.ErrNoRows).Once()
	repo.On("GetUserByUsername", mock.Anything, "real").
		Return(&models.User{Username: "real", PasswordHash: hash}, nil).Once()

	_, errGhost := svc.Login(context.Background(), "ghost", "whatever")
	_, errWrongPass := svc.Login(context.Background(), "real", "wrongpass")

	assert.ErrorIs(t, errGhost, services.ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPass, services.ErrInvalidCredentials)
	assert.Equal(t, errGhost.Error(), errWrongPass.Error())
}

func TestAuthService_ResolveUser(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		setupMocks func(r *UserRepoMock, j *JwtMakerMock)
		wantErr    error
		wantActive bool
	}{
		{
			name:  "active user resolves without activation",
			token: "valid-token",
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				j.On("ParseToken", "valid-token").
					Return(&customjwt.CustomClaims{Username: "testuser"}, nil).Once()
				r.On("GetUserByUsername", mock.Anything, "testuser").
					Return(&models.User{UID: "uid-1", Username: "testuser", IsActive: true}, nil).Once()
			},
			wantActive: true,
		},
		{
			name:  "first resolve activates inactive user",
			token: "valid-token",
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				j.On("ParseToken", "valid-token").
					Return(&customjwt.CustomClaims{Username: "testuser"}, nil).Once()
				r.On("GetUserByUsername", mock.Anything, "testuser").
					Return(&models.User{UID: "uid-1", Username: "testuser", IsActive: false}, nil).Once()
				r.On("ActivateUser", mock.Anything, "uid-1").Return(nil).Once()
			},
			wantActive: true,
		},
		{
			name:  "invalid token",
			token: "garbage",
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				j.On("ParseToken", "garbage").Return(nil, customjwt.ErrInvalidToken).Once()
			},
			wantErr: services.ErrUnauthorized,
		},
		{
			name:  "token subject no longer exists",
			token: "valid-token",
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				j.On("ParseToken", "valid-token").
					Return(&customjwt.CustomClaims{Username: "deleted"}, nil).Once()
				r.On("GetUserByUsername", mock.Anything, "deleted").
					Return(nil, sql.ErrNoRows).Once()
			},
			wantErr: services.ErrUnauthorized,
		},
		{
			name:  "activation failure surfaces",
			token: "valid-token",
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				j.On("ParseToken", "valid-token").
					Return(&customjwt.CustomClaims{Username: "testuser"}, nil).Once()
				r.On("GetUserByUsername", mock.Anything, "testuser").
					Return(&models.User{UID: "uid-1", Username: "testuser", IsActive: false}, nil).Once()
				r.On("ActivateUser", mock.Anything, "uid-1").Return(errors.New("db error")).Once()
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			jwtMock := new(JwtMakerMock)
			svc := services.NewAuthService(repo, jwtMock)

			tt.setupMocks(repo, jwtMock)

			user, err := svc.ResolveUser(context.Background(), tt.token)
			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantActive, user.IsActive)
			}

			repo.AssertExpectations(t)
			jwtMock.AssertExpectations(t)
		})
	}
}

func TestAuthService_RequireActive(t *testing.T) {
	svc := services.NewAuthService(new(UserRepoMock), new(JwtMakerMock))

	assert.NoError(t, svc.RequireActive(&models.User{IsActive: true}))
	assert.ErrorIs(t, svc.RequireActive(&models.User{IsActive: false}), services.ErrInactiveAccount)
}

func TestAuthService_ListUsers(t *testing.T) {
	fullName := "Test User"
	repo := new(UserRepoMock)
	svc := services.NewAuthService(repo, new(JwtMakerMock))

	repo.On("ListUsers", mock.Anything).Return([]*models.User{
		{UID: "uid-1", Username: "first", FullName: &fullName, PasswordHash: "secret-hash", IsActive: true},
		{UID: "uid-2", Username: "second", PasswordHash: "other-hash", IsActive: false},
	}, nil).Once()

	infos, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 2)

	assert.Equal(t, "first", infos[0].Username)
	assert.Equal(t, &fullName, infos[0].FullName)
	assert.True(t, infos[0].IsActive)
	assert.Equal(t, "second", infos[1].Username)
	assert.Nil(t, infos[1].FullName)
	assert.False(t, infos[1].IsActive)

	repo.AssertExpectations(t)
}

func TestAuthService_DeleteAccount(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *UserRepoMock)
		wantErr    error
	}{
		{
			name: "successful delete",
			setupMocks: func(r *UserRepoMock) {
				r.On("DeleteUserWithTasks", mock.Anything, "uid-1").Return(nil).Once()
			},
		},
		{
			name: "user already gone",
			setupMocks: func(r *UserRepoMock) {
				r.On("DeleteUserWithTasks", mock.Anything, "uid-1").Return(sql.ErrNoRows).Once()
			},
			wantErr: services.ErrUnauthorized,
		},
		{
			name: "repository error",
			setupMocks: func(r *UserRepoMock) {
				r.On("DeleteUserWithTasks", mock.Anything, "uid-1").Return(errors.New("db error")).Once()
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			svc := services.NewAuthService(repo, new(JwtMakerMock))

			tt.setupMocks(repo)

			err := svc.DeleteAccount(context.Background(), "uid-1")
			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
			}

			repo.AssertExpectations(t)
		})
	}
}
