package buycontent

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/content-paywall/internal/http/middlewarectx"
	"github.com/magabrotheeeer/content-paywall/internal/models"
	"github.com/magabrotheeeer/content-paywall/internal/services/access"
)

// MockService реализует интерфейс buycontent.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ResolvePurchase(ctx context.Context, userUID string, target models.Target) (*access.Resolution, error) {
	args := m.Called(ctx, userUID, target)
	if res := args.Get(0); res != nil {
		return res.(*access.Resolution), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestBuyContentHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name           string
		id             string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "активное право — 200",
			id:      "5",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("ResolvePurchase", mock.Anything, "uid-1", models.ContentTarget(5)).
					Return(&access.Resolution{Outcome: access.OutcomeAlreadyActive}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"outcome":"already_active"`,
		},
		{
			name:    "подтвержденная оплата — 200",
			id:      "5",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("ResolvePurchase", mock.Anything, "uid-1", models.ContentTarget(5)).
					Return(&access.Resolution{Outcome: access.OutcomeActivated}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"outcome":"activated"`,
		},
		{
			name:    "новый счет — 202 со ссылкой",
			id:      "5",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("ResolvePurchase", mock.Anything, "uid-1", models.ContentTarget(5)).
					Return(&access.Resolution{
						Outcome:     access.OutcomeAwaitingPayment,
						PaymentLink: "https://checkout.example/cs_1",
					}, nil)
			},
			expectedStatus: http.StatusAccepted,
			expectedBody:   `"payment_link":"https://checkout.example/cs_1"`,
		},
		{
			name:    "неподтвержденный счет — 402",
			id:      "5",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("ResolvePurchase", mock.Anything, "uid-1", models.ContentTarget(5)).
					Return(&access.Resolution{
						Outcome:     access.OutcomeStillPending,
						PaymentLink: "https://checkout.example/cs_1",
					}, nil)
			},
			expectedStatus: http.StatusPaymentRequired,
			expectedBody:   `"outcome":"still_pending"`,
		},
		{
			name:    "провайдер недоступен — 503 без ссылки",
			id:      "5",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("ResolvePurchase", mock.Anything, "uid-1", models.ContentTarget(5)).
					Return(&access.Resolution{Outcome: access.OutcomeProviderUnavailable}, nil)
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `"outcome":"provider_unavailable"`,
		},
		{
			name:    "несуществующая запись — 404",
			id:      "99",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("ResolvePurchase", mock.Anything, "uid-1", models.ContentTarget(99)).
					Return(nil, access.ErrContentNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"content not found"`,
		},
		{
			name:    "бесплатная запись — 400",
			id:      "6",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("ResolvePurchase", mock.Anything, "uid-1", models.ContentTarget(6)).
					Return(nil, access.ErrNotPurchasable)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"content is not purchasable"`,
		},
		{
			name:           "без авторизации — 401",
			id:             "5",
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:           "некорректный id — 400",
			id:             "abc",
			userUID:        "uid-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"failed to decode id from url"`,
		},
		{
			name:    "ошибка сервиса — 500",
			id:      "5",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("ResolvePurchase", mock.Anything, "uid-1", models.ContentTarget(5)).
					Return(nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not resolve purchase"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/content/paid/"+tt.id+"/buy", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			if tt.userUID != "" {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, tt.userUID)
			}
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
