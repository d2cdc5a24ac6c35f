// Package paymentprovider реализует клиент платежного провайдера Stripe:
// создание цены, создание checkout-сессии и опрос статуса платежа.
//
// Ключ API передается явно через конфиг при создании клиента, глобальное
// состояние SDK не используется. Любая ошибка сети или провайдера
// оборачивается в ErrUnavailable: для вызывающей стороны это всегда
// повторяемый исход "оплата еще не подтверждена", а не фатальный сбой.
package paymentprovider

import (
	"context"
	"errors"
	"fmt"

	stripe "github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"

	"github.com/magabrotheeeer/content-paywall/internal/config"
)

// ErrUnavailable означает, что провайдер недоступен или вернул ошибку.
var ErrUnavailable = errors.New("payment provider unavailable")

// IntentStatus описывает агрегированный статус платежа у провайдера.
type IntentStatus string

const (
	// IntentPending — оплата еще не завершена.
	IntentPending IntentStatus = "pending"
	// IntentSucceeded — провайдер подтвердил оплату.
	IntentSucceeded IntentStatus = "succeeded"
	// IntentFailed — оплата отменена или отклонена.
	IntentFailed IntentStatus = "failed"
)

// Client инкапсулирует доступ к API Stripe.
type Client struct {
	api        *client.API
	successURL string
	cancelURL  string
}

// NewClient создаёт новый клиент Stripe с ключом из конфига.
func NewClient(cfg config.Stripe) *Client {
	api := &client.API{}
	api.Init(cfg.APIKey, nil)
	return &Client{
		api:        api,
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
	}
}

// CreatePrice создает у провайдера цену на заданную сумму в копейках
// и возвращает её идентификатор.
func (c *Client) CreatePrice(ctx context.Context, amount int64) (string, error) {
	const op = "paymentprovider.CreatePrice"

	params := &stripe.PriceParams{
		Currency:   stripe.String(string(stripe.CurrencyRUB)),
		UnitAmount: stripe.Int64(amount),
		ProductData: &stripe.PriceProductDataParams{
			Name: stripe.String("Payment"),
		},
	}
	params.Context = ctx

	price, err := c.api.Prices.New(params)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, errors.Join(ErrUnavailable, err))
	}
	return price.ID, nil
}

// CreateCheckoutSession создает checkout-сессию для цены и возвращает
// её идентификатор и ссылку на оплату.
func (c *Client) CreateCheckoutSession(ctx context.Context, priceID string) (string, string, error) {
	const op = "paymentprovider.CreateCheckoutSession"

	params := &stripe.CheckoutSessionParams{
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(c.successURL),
		CancelURL:  stripe.String(c.cancelURL),
	}
	params.Context = ctx

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, errors.Join(ErrUnavailable, err))
	}
	return sess.ID, sess.URL, nil
}

// GetIntentStatus опрашивает статус платежа по ID checkout-сессии.
func (c *Client) GetIntentStatus(ctx context.Context, sessionID string) (IntentStatus, error) {
	const op = "paymentprovider.GetIntentStatus"

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("payment_intent")

	sess, err := c.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return IntentPending, fmt.Errorf("%s: %w", op, errors.Join(ErrUnavailable, err))
	}
	if sess.PaymentIntent == nil {
		return IntentPending, nil
	}

	switch sess.PaymentIntent.Status {
	case stripe.PaymentIntentStatusSucceeded:
		return IntentSucceeded, nil
	case stripe.PaymentIntentStatusCanceled:
		return IntentFailed, nil
	default:
		return IntentPending, nil
	}
}
