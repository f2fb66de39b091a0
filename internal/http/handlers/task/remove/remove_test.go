package remove

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/taskkeeper/internal/http/middlewarectx"
	"github.com/magabrotheeeer/taskkeeper/internal/models"
	services "github.com/magabrotheeeer/taskkeeper/internal/services/task"
)

// MockService реализует интерфейс remove.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Remove(ctx context.Context, userUID string, id int) (*models.Task, error) {
	args := m.Called(ctx, userUID, id)
	if res := args.Get(0); res != nil {
		return res.(*models.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestRemoveHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		idParam        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешное удаление возвращает снимок задачи",
			idParam: "5",
			setupMock: func(m *MockService) {
				m.On("Remove", mock.Anything, "uid-1", 5).
					Return(&models.Task{ID: 5, Name: "gone"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"deleted_task"`,
		},
		{
			name:           "некорректный id в URL",
			idParam:        "abc",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid id"`,
		},
		{
			name:    "задача не найдена",
			idParam: "777",
			setupMock: func(m *MockService) {
				m.On("Remove", mock.Anything, "uid-1", 777).
					Return(nil, services.ErrTaskNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"task not found"`,
		},
		{
			name:    "ошибка сервиса",
			idParam: "5",
			setupMock: func(m *MockService) {
				m.On("Remove", mock.Anything, "uid-1", 5).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not delete task"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodDelete, "/delete-task/"+tt.idParam, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.idParam)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middlewarectx.UserUID, "uid-1")
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
