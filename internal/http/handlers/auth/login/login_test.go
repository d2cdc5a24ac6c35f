package login

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/content-paywall/internal/services/auth"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) LoginUser(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*ServiceMock)
		wantStatusCode int
		wantInBody     string
	}{
		{
			name: "успешный вход",
			requestBody: Request{
				Username: "user1",
				Password: "password123",
			},
			setupMock: func(m *ServiceMock) {
				m.On("LoginUser", mock.Anything, "user1", "password123").
					Return("jwt-token-value", nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantInBody:     "jwt-token-value",
		},
		{
			name:           "невалидный json",
			requestBody:    "{broken",
			setupMock:      func(_ *ServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantInBody:     "invalid request body",
		},
		{
			name: "ошибка валидации - короткий пароль",
			requestBody: Request{
				Username: "user1",
				Password: "123",
			},
			setupMock:      func(_ *ServiceMock) {},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantInBody:     "Password",
		},
		{
			name: "неверные учетные данные",
			requestBody: Request{
				Username: "user1",
				Password: "wrongpassword",
			},
			setupMock: func(m *ServiceMock) {
				m.On("LoginUser", mock.Anything, "user1", "wrongpassword").
					Return("", auth.ErrInvalidCredentials).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
			wantInBody:     "invalid credentials",
		},
		{
			name: "внутренняя ошибка сервиса",
			requestBody: Request{
				Username: "user1",
				Password: "password123",
			},
			setupMock: func(m *ServiceMock) {
				m.On("LoginUser", mock.Anything, "user1", "password123").
					Return("", assert.AnError).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
			wantInBody:     "failed to login",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			tt.setupMock(serviceMock)

			handler := New(newNoopLogger(), serviceMock)

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantInBody)
			serviceMock.AssertExpectations(t)
		})
	}
}
