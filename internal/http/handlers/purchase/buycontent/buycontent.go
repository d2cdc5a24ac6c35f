// Package buycontent реализует HTTP-обработчик покупки платной записи.
//
// Handler извлекает ID записи из URL и делегирует разрешение покупки
// бизнес-логике. Ответ зависит от исхода: активное право и подтвержденная
// оплата дают 200, новый счет — 202 со ссылкой на оплату, неподтвержденный
// счет — 402 с той же ссылкой.
package buycontent

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

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

// Handler обрабатывает HTTP-запросы на покупку платной записи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Купить доступ к платной записи
// @Description Разрешает покупку: при активном праве или подтвержденной оплате возвращает 200, при новом счете — 202 со ссылкой, при неподтвержденном — 402.
// @Tags Purchase
// @Security BearerAuth
// @Produce  json
// @Param id path int true "ID платной записи"
// @Success 200 {object} map[string]any "Доступ активен"
// @Success 202 {object} map[string]any "Счет выставлен, оплата по ссылке"
// @Failure 400 {object} response.ErrorResponse "Запись не является платной"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 402 {object} map[string]any "Оплата еще не подтверждена"
// @Failure 404 {object} response.ErrorResponse "Запись не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Failure 503 {object} map[string]any "Платежный провайдер недоступен"
// @Router /content/paid/{id}/buy [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.purchase.buycontent"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	res, err := h.service.ResolvePurchase(r.Context(), userUID, models.ContentTarget(id))
	if err != nil {
		switch {
		case errors.Is(err, access.ErrContentNotFound):
			log.Error("content not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("content not found"))
		case errors.Is(err, access.ErrNotPurchasable):
			log.Error("content is not purchasable", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("content is not purchasable"))
		default:
			log.Error("failed to resolve purchase", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not resolve purchase"))
		}
		return
	}

	log.Info("purchase resolved", slog.String("outcome", string(res.Outcome)))
	WriteResolution(w, r, res)
}

// WriteResolution отображает исход покупки на HTTP-статус и пишет JSON-ответ.
// Используется обработчиками покупки записи и подписки на сервис.
func WriteResolution(w http.ResponseWriter, r *http.Request, res *access.Resolution) {
	switch res.Outcome {
	case access.OutcomeAwaitingPayment:
		w.WriteHeader(http.StatusAccepted)
	case access.OutcomeStillPending:
		w.WriteHeader(http.StatusPaymentRequired)
	case access.OutcomeProviderUnavailable:
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	render.JSON(w, r, response.StatusOKWithData(res))
}
