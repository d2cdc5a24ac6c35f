package read

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/content-paywall/internal/http/middlewarectx"
	"github.com/magabrotheeeer/content-paywall/internal/models"
	"github.com/magabrotheeeer/content-paywall/internal/services/content"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ReadContent(ctx context.Context, userUID, role string, id int) (*models.Content, error) {
	args := m.Called(ctx, userUID, role, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Content), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newRequest(id string, userUID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/content/"+id, nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if userUID != "" {
		ctx = context.WithValue(ctx, middlewarectx.UserUID, userUID)
		ctx = context.WithValue(ctx, middlewarectx.Role, models.RoleUser)
	}
	return req.WithContext(ctx)
}

func TestReadHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		userUID        string
		setupMock      func(*ServiceMock)
		wantStatusCode int
		wantInBody     string
	}{
		{
			name:    "успех - запись доступна",
			id:      "42",
			userUID: "uid-1",
			setupMock: func(m *ServiceMock) {
				m.On("ReadContent", mock.Anything, "uid-1", models.RoleUser, 42).
					Return(&models.Content{ID: 42, Title: "Платная запись", Kind: models.ContentKindPaid}, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantInBody:     "Платная запись",
		},
		{
			name:           "некорректный id",
			id:             "abc",
			userUID:        "uid-1",
			setupMock:      func(_ *ServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantInBody:     "failed to decode id",
		},
		{
			name:           "нет uid в контексте",
			id:             "42",
			userUID:        "",
			setupMock:      func(_ *ServiceMock) {},
			wantStatusCode: http.StatusUnauthorized,
			wantInBody:     "unauthorized",
		},
		{
			name:    "запись не найдена",
			id:      "99",
			userUID: "uid-1",
			setupMock: func(m *ServiceMock) {
				m.On("ReadContent", mock.Anything, "uid-1", models.RoleUser, 99).
					Return(nil, content.ErrNotFound).Once()
			},
			wantStatusCode: http.StatusNotFound,
			wantInBody:     "content not found",
		},
		{
			name:    "нет доступа к платной записи",
			id:      "42",
			userUID: "uid-2",
			setupMock: func(m *ServiceMock) {
				m.On("ReadContent", mock.Anything, "uid-2", models.RoleUser, 42).
					Return(nil, content.ErrAccessDenied).Once()
			},
			wantStatusCode: http.StatusForbidden,
			wantInBody:     "access denied",
		},
		{
			name:    "внутренняя ошибка",
			id:      "42",
			userUID: "uid-1",
			setupMock: func(m *ServiceMock) {
				m.On("ReadContent", mock.Anything, "uid-1", models.RoleUser, 42).
					Return(nil, assert.AnError).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
			wantInBody:     "could not read content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			tt.setupMock(serviceMock)

			handler := New(newNoopLogger(), serviceMock)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, newRequest(tt.id, tt.userUID))

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantInBody)
			serviceMock.AssertExpectations(t)
		})
	}
}
