package listhigh

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/taskkeeper/internal/http/middlewarectx"
	"github.com/magabrotheeeer/taskkeeper/internal/models"
)

// MockService реализует интерфейс listhigh.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ListHighPriority(ctx context.Context, userUID string, limit, offset int) ([]*models.Task, error) {
	args := m.Called(ctx, userUID, limit, offset)
	if res := args.Get(0); res != nil {
		return res.([]*models.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestListHighPriorityHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		url            string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "только задачи с приоритетом High",
			url:  "/high-priority-tasks/",
			setupMock: func(m *MockService) {
				m.On("ListHighPriority", mock.Anything, "uid-1", 100, 0).
					Return([]*models.Task{{ID: 3, Name: "urgent", Priority: models.PriorityHigh}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"priority":"High"`,
		},
		{
			name: "пустой список даёт 404",
			url:  "/high-priority-tasks/",
			setupMock: func(m *MockService) {
				m.On("ListHighPriority", mock.Anything, "uid-1", 100, 0).
					Return([]*models.Task{}, nil)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"no tasks found"`,
		},
		{
			name: "пагинация из query-параметров",
			url:  "/high-priority-tasks/?limit=2&skip=4",
			setupMock: func(m *MockService) {
				m.On("ListHighPriority", mock.Anything, "uid-1", 2, 4).
					Return([]*models.Task{{ID: 9, Priority: models.PriorityHigh}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"id":9`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, "uid-1"))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
