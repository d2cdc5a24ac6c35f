// Package buyservice реализует HTTP-обработчик покупки подписки на сервис.
//
// Handler делегирует разрешение покупки бизнес-логике с целью service.
// Отображение исхода на HTTP-статус совпадает с покупкой записи.
package buyservice

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/content-paywall/internal/http/handlers/purchase/buycontent"
	"github.com/magabrotheeeer/content-paywall/internal/http/middlewarectx"
	"github.com/magabrotheeeer/content-paywall/internal/http/response"
	"github.com/magabrotheeeer/content-paywall/internal/lib/sl"
	"github.com/magabrotheeeer/content-paywall/internal/models"
	"github.com/magabrotheeeer/content-paywall/internal/services/access"
)

// Service описывает интерфейс бизнес-логики покупки.
type Service interface {
	ResolvePurchase(ctx context.Context, userUID string, target models.Target) (*access.Resolution, error)
}

// Handler обрабатывает HTTP-запросы на подписку на сервис.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Оформить подписку на сервис
// @Description Разрешает покупку подписки на сервис: 200 при активной подписке или подтвержденной оплате, 202 при новом счете, 402 при неподтвержденном.
// @Tags Purchase
// @Security BearerAuth
// @Produce  json
// @Success 200 {object} map[string]any "Подписка активна"
// @Success 202 {object} map[string]any "Счет выставлен, оплата по ссылке"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 402 {object} map[string]any "Оплата еще не подтверждена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Failure 503 {object} map[string]any "Платежный провайдер недоступен"
// @Router /service/subscribe [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.purchase.buyservice"

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

	res, err := h.service.ResolvePurchase(r.Context(), userUID, models.ServiceTarget())
	if err != nil {
		log.Error("failed to resolve purchase", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not resolve purchase"))
		return
	}

	log.Info("purchase resolved", slog.String("outcome", string(res.Outcome)))
	buycontent.WriteResolution(w, r, res)
}
