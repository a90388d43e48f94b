package authenticate

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/users-administration/internal/lib/apperr"
	"github.com/magabrotheeeer/users-administration/internal/lib/jwt"
	"github.com/magabrotheeeer/users-administration/internal/models"
)

// MockService реализует интерфейс authenticate.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Authenticate(ctx context.Context, login, password string) (*models.User, error) {
	args := m.Called(ctx, login, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestAuthenticateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	maker := jwt.NewMaker("test-secret-key", time.Hour)

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная аутентификация выдаёт токен",
			body: `{"login":"alice","password":"pw1"}`,
			setupMock: func(m *MockService) {
				m.On("Authenticate", mock.Anything, "alice", "pw1").
					Return(&models.User{Login: "alice", IsAdmin: false}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"token"`,
		},
		{
			name:           "пустой пароль не проходит проверку формы",
			body:           `{"login":"alice"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `required field`,
		},
		{
			name: "неверный пароль отображается в 403",
			body: `{"login":"alice","password":"wrong"}`,
			setupMock: func(m *MockService) {
				m.On("Authenticate", mock.Anything, "alice", "wrong").
					Return(nil, apperr.Forbidden("password mismatch"))
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"status":"Error"`,
		},
		{
			name: "неизвестный логин отображается в 404",
			body: `{"login":"ghost","password":"pw1"}`,
			setupMock: func(m *MockService) {
				m.On("Authenticate", mock.Anything, "ghost", "pw1").
					Return(nil, apperr.NotFound("no such user"))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"status":"Error"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService, maker)

			req := httptest.NewRequest(http.MethodPost, "/api/users/login", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}

func TestAuthenticateHandler_TokenCarriesClaims(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	maker := jwt.NewMaker("test-secret-key", time.Hour)

	mockService := new(MockService)
	mockService.On("Authenticate", mock.Anything, "root", "pw1").
		Return(&models.User{Login: "root", IsAdmin: true}, nil)

	handler := New(logger, mockService, maker)

	req := httptest.NewRequest(http.MethodPost, "/api/users/login",
		strings.NewReader(`{"login":"root","password":"pw1"}`))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	start := strings.Index(body, `"token":"`)
	assert.GreaterOrEqual(t, start, 0)
	rest := body[start+len(`"token":"`):]
	token := rest[:strings.Index(rest, `"`)]

	claims, err := maker.ParseToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "root", claims.Login)
	assert.True(t, claims.IsAdmin)
}
