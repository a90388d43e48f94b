package softdelete

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/users-administration/internal/lib/apperr"
)

// MockService реализует интерфейс softdelete.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) SoftDelete(ctx context.Context, login, actor string) error {
	args := m.Called(ctx, login, actor)
	return args.Error(0)
}

func TestSoftDeleteHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		url            string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
	}{
		{
			name: "успешный отзыв возвращает 204",
			url:  "/api/users/soft?userBy=admin",
			body: `{"user_login":"alice"}`,
			setupMock: func(m *MockService) {
				m.On("SoftDelete", mock.Anything, "alice", "admin").Return(nil)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "отсутствующий логин цели не проходит проверку формы",
			url:            "/api/users/soft?userBy=admin",
			body:           `{}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "не администратор получает 403",
			url:  "/api/users/soft?userBy=bob",
			body: `{"user_login":"alice"}`,
			setupMock: func(m *MockService) {
				m.On("SoftDelete", mock.Anything, "alice", "bob").
					Return(apperr.Forbidden("admin rights required"))
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "повторный отзыв отображается в 404",
			url:  "/api/users/soft?userBy=admin",
			body: `{"user_login":"alice"}`,
			setupMock: func(m *MockService) {
				m.On("SoftDelete", mock.Anything, "alice", "admin").
					Return(apperr.NotFound("user already revoked"))
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodDelete, tt.url, strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}
