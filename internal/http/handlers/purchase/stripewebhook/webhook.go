// Package stripewebhook реализует HTTP-обработчик webhook-событий Stripe.
//
// Handler проверяет подпись события, разбирает завершенную checkout-сессию
// и делегирует подтверждение платежа бизнес-логике. Повторная доставка
// события безопасна.
package stripewebhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/webhook"

	"github.com/magabrotheeeer/content-paywall/internal/lib/sl"
	"github.com/magabrotheeeer/content-paywall/internal/services/access"
)

// Service описывает интерфейс подтверждения платежа по checkout-сессии.
type Service interface {
	ConfirmSession(ctx context.Context, sessionID string) error
}

// Handler обрабатывает webhook-события Stripe.
type Handler struct {
	log           *slog.Logger
	service       Service
	webhookSecret string
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, secret string) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		webhookSecret: secret,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.purchase.stripewebhook"
	log := h.log.With(slog.String("op", op))

	body, err := io.ReadAll(io.LimitReader(r.Body, 65536))
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	event, err := webhook.ConstructEvent(body, r.Header.Get("Stripe-Signature"), h.webhookSecret)
	if err != nil {
		log.Error("invalid webhook signature", sl.Err(err))
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if event.Type != "checkout.session.completed" {
		log.Info("ignored webhook event", slog.String("type", event.Type))
		w.WriteHeader(http.StatusOK)
		return
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		log.Error("failed to unmarshal checkout session", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := h.service.ConfirmSession(r.Context(), session.ID); err != nil {
		if errors.Is(err, access.ErrPaymentNotFound) {
			// Сессия не из этой инсталляции; событие не переотправляется.
			log.Warn("unknown checkout session", slog.String("session_id", session.ID))
			w.WriteHeader(http.StatusOK)
			return
		}
		log.Error("failed to confirm session", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	log.Info("webhook processed successfully", slog.String("session_id", session.ID))
	w.WriteHeader(http.StatusOK)
}
