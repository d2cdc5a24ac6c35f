// Package list реализует HTTP-обработчик списка прав доступа пользователя:
// флаг подписки на сервис и подписки на отдельные записи.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/content-paywall/internal/http/middlewarectx"
	"github.com/magabrotheeeer/content-paywall/internal/http/response"
	"github.com/magabrotheeeer/content-paywall/internal/lib/sl"
	"github.com/magabrotheeeer/content-paywall/internal/services/access"
)

// Service описывает интерфейс бизнес-логики списка прав доступа.
type Service interface {
	ListGrants(ctx context.Context, userUID string) (*access.Grants, error)
}

// Handler обрабатывает HTTP-запросы на получение прав доступа пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список подписок
// @Description Возвращает права доступа текущего пользователя: подписку на сервис и подписки на записи.
// @Tags Subscriptions
// @Security BearerAuth
// @Produce  json
// @Success 200 {object} map[string]any "Права доступа"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /subscriptions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	grants, err := h.service.ListGrants(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list grants", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list subscriptions"))
		return
	}

	log.Info("grants listed", slog.Int("content_count", len(grants.Content)))
	render.JSON(w, r, response.StatusOKWithData(grants))
}
