package register

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

func (m *ServiceMock) RegisterUser(ctx context.Context, username, email, password string) (string, error) {
	args := m.Called(ctx, username, email, password)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*ServiceMock)
		wantStatusCode int
		wantInBody     string
	}{
		{
			name: "успешная регистрация",
			requestBody: Request{
				Username: "user1",
				Password: "password123",
				Email:    "user1@example.com",
			},
			setupMock: func(m *ServiceMock) {
				m.On("RegisterUser", mock.Anything, "user1", "user1@example.com", "password123").
					Return("uid-1", nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantInBody:     "uid-1",
		},
		{
			name:           "невалидный json",
			requestBody:    "not a json",
			setupMock:      func(_ *ServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantInBody:     "invalid request body",
		},
		{
			name: "ошибка валидации - нет пароля",
			requestBody: Request{
				Username: "user1",
				Email:    "user1@example.com",
			},
			setupMock:      func(_ *ServiceMock) {},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantInBody:     "Password",
		},
		{
			name: "ошибка валидации - некорректный email",
			requestBody: Request{
				Username: "user1",
				Password: "password123",
				Email:    "not-an-email",
			},
			setupMock:      func(_ *ServiceMock) {},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantInBody:     "Email",
		},
		{
			name: "имя или email уже заняты",
			requestBody: Request{
				Username: "user1",
				Password: "password123",
				Email:    "user1@example.com",
			},
			setupMock: func(m *ServiceMock) {
				m.On("RegisterUser", mock.Anything, "user1", "user1@example.com", "password123").
					Return("", auth.ErrUserExists).Once()
			},
			wantStatusCode: http.StatusConflict,
			wantInBody:     "already taken",
		},
		{
			name: "внутренняя ошибка сервиса",
			requestBody: Request{
				Username: "user1",
				Password: "password123",
				Email:    "user1@example.com",
			},
			setupMock: func(m *ServiceMock) {
				m.On("RegisterUser", mock.Anything, "user1", "user1@example.com", "password123").
					Return("", assert.AnError).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
			wantInBody:     "failed to register user",
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

			req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantInBody)
			serviceMock.AssertExpectations(t)
		})
	}
}
