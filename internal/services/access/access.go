// Package access реализует бизнес-логику покупки доступа: выставление счета
// через платежного провайдера, подтверждение оплаты и идемпотентную выдачу
// права доступа (подписка на запись или на сервис в целом).
package access

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/content-paywall/internal/lib/sl"
	"github.com/magabrotheeeer/content-paywall/internal/metrics"
	"github.com/magabrotheeeer/content-paywall/internal/models"
	"github.com/magabrotheeeer/content-paywall/internal/paymentprovider"
)

// Repository определяет методы хранилища, нужные workflow покупки.
type Repository interface {
	// FindPendingPayment находит неразрешенный платеж по паре (пользователь, цель).
	FindPendingPayment(ctx context.Context, userUID string, target models.Target) (*models.Payment, bool, error)
	// FindPaidPayment находит последний оплаченный платеж по паре (пользователь, цель).
	FindPaidPayment(ctx context.Context, userUID string, target models.Target) (*models.Payment, bool, error)
	// CreatePayment вставляет pending-платеж; created=false при проигранном конкурентном забеге.
	CreatePayment(ctx context.Context, payment models.Payment) (int, bool, error)
	// MarkPaymentPaid переводит платеж в статус paid.
	MarkPaymentPaid(ctx context.Context, id int) (int, error)
	// FindPaymentBySession находит платеж по ID checkout-сессии.
	FindPaymentBySession(ctx context.Context, sessionID string) (*models.Payment, bool, error)
	// ReadContent возвращает запись по ID.
	ReadContent(ctx context.Context, id int) (*models.Content, bool, error)
	// FindActiveContentSubscription проверяет активную подписку на запись.
	FindActiveContentSubscription(ctx context.Context, userUID string, contentID int) (bool, error)
	// CreateContentSubscription идемпотентно создает или активирует подписку на запись.
	CreateContentSubscription(ctx context.Context, userUID string, contentID int) (int, error)
	// FindActiveServiceSubscription проверяет активную подписку на сервис.
	FindActiveServiceSubscription(ctx context.Context, userUID string) (bool, error)
	// CreateServiceSubscription идемпотентно создает или активирует подписку на сервис.
	CreateServiceSubscription(ctx context.Context, userUID string) (int, error)
	// SetUserSubscription выставляет флаг подписки у пользователя.
	SetUserSubscription(ctx context.Context, userUID string, active bool) error
	// ListPayments возвращает платежи пользователя.
	ListPayments(ctx context.Context, userUID string) ([]*models.Payment, error)
	// ListContentSubscriptions возвращает подписки пользователя на записи.
	ListContentSubscriptions(ctx context.Context, userUID string) ([]*models.ContentSubscription, error)
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// ProviderClient определяет интерфейс платежного провайдера.
type ProviderClient interface {
	CreatePrice(ctx context.Context, amount int64) (string, error)
	CreateCheckoutSession(ctx context.Context, priceID string) (string, string, error)
	GetIntentStatus(ctx context.Context, sessionID string) (paymentprovider.IntentStatus, error)
}

// EventPublisher публикует события об активации прав доступа.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// ActivatedEvent — событие об активации права доступа, уходит в очередь
// уведомлений. Email и Username включаются в событие, чтобы notifier
// не ходил в базу основного сервиса.
type ActivatedEvent struct {
	UserUID    string `json:"user_uid"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	TargetKind string `json:"target_kind"`
	ContentID  int    `json:"content_id,omitempty"`
	Amount     int64  `json:"amount"`
}

// Outcome описывает исход разрешения покупки.
type Outcome string

const (
	// OutcomeAlreadyActive — право доступа уже активно, провайдер не опрашивался.
	OutcomeAlreadyActive Outcome = "already_active"
	// OutcomeAwaitingPayment — выставлен новый счет, оплата ожидается по ссылке.
	OutcomeAwaitingPayment Outcome = "awaiting_payment"
	// OutcomeStillPending — счет существует, оплата еще не подтверждена.
	OutcomeStillPending Outcome = "still_pending"
	// OutcomeActivated — оплата подтверждена, право доступа выдано.
	OutcomeActivated Outcome = "activated"
	// OutcomeProviderUnavailable — провайдер недоступен, счет не выставлен.
	OutcomeProviderUnavailable Outcome = "provider_unavailable"
)

// Resolution — результат разрешения покупки.
type Resolution struct {
	Outcome     Outcome `json:"outcome"`
	PaymentLink string  `json:"payment_link,omitempty"`
}

// ErrContentNotFound возвращается при покупке несуществующей записи.
var ErrContentNotFound = fmt.Errorf("content not found")

// ErrNotPurchasable возвращается при попытке купить бесплатную запись.
var ErrNotPurchasable = fmt.Errorf("content is not purchasable")

// ErrPaymentNotFound возвращается, когда checkout-сессия неизвестна.
var ErrPaymentNotFound = fmt.Errorf("payment not found")

// AccessService реализует workflow покупки доступа.
type AccessService struct {
	repo              Repository
	provider          ProviderClient
	events            EventPublisher
	subscriptionPrice int64 // Фиксированная цена подписки на сервис, в копейках
	log               *slog.Logger
}

// New создает новый экземпляр AccessService.
func New(repo Repository, provider ProviderClient, events EventPublisher, subscriptionPrice int64, log *slog.Logger) *AccessService {
	return &AccessService{
		repo:              repo,
		provider:          provider,
		events:            events,
		subscriptionPrice: subscriptionPrice,
		log:               log,
	}
}

// ResolvePurchase разрешает покупку пользователем цели target.
//
// Последовательность:
//  1. активное право доступа — короткое замыкание без обращения к провайдеру;
//  2. нет неразрешенного платежа — выставить счет у провайдера, сохранить
//     pending-платеж, вернуть ссылку на оплату;
//  3. платеж есть — опросить провайдера: succeeded переводит платеж в paid
//     и идемпотентно активирует право доступа, любой другой исход оставляет
//     состояние без изменений.
//
// Повторные вызовы с тем же неразрешенным платежом не создают дубликатов.
func (s *AccessService) ResolvePurchase(ctx context.Context, userUID string, target models.Target) (*Resolution, error) {
	const op = "access.ResolvePurchase"

	active, err := s.hasActiveGrant(ctx, userUID, target)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if active {
		return &Resolution{Outcome: OutcomeAlreadyActive}, nil
	}

	pending, found, err := s.repo.FindPendingPayment(ctx, userUID, target)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		// Право не активно и неразрешенного платежа нет. Если при этом есть
		// оплаченный платеж, выдача права была прервана сбоем после mark-paid:
		// довыдаем право вместо выставления второго счета за ту же цель.
		paid, foundPaid, err := s.repo.FindPaidPayment(ctx, userUID, target)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if foundPaid {
			if err := s.grantAccess(ctx, paid); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			return &Resolution{Outcome: OutcomeActivated}, nil
		}
		return s.initiatePayment(ctx, userUID, target)
	}
	return s.confirmPayment(ctx, pending)
}

// ConfirmSession подтверждает платеж по ID checkout-сессии (webhook-путь).
// Повторная доставка события безопасна: уже разрешенный платеж не трогается.
func (s *AccessService) ConfirmSession(ctx context.Context, sessionID string) error {
	const op = "access.ConfirmSession"

	payment, found, err := s.repo.FindPaymentBySession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return fmt.Errorf("%s: %w", op, ErrPaymentNotFound)
	}
	if payment.Status == models.PaymentStatusPaid {
		// Платеж уже разрешен. Если право при этом не выдано, выдача была
		// прервана сбоем после mark-paid: повторная доставка события ее чинит.
		active, err := s.hasActiveGrant(ctx, payment.UserUID, payment.Target())
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if active {
			return nil
		}
		if err := s.grantAccess(ctx, payment); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}
	if _, err := s.activate(ctx, payment); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListPayments возвращает платежи пользователя.
func (s *AccessService) ListPayments(ctx context.Context, userUID string) ([]*models.Payment, error) {
	return s.repo.ListPayments(ctx, userUID)
}

// Grants — права доступа пользователя: флаг подписки на сервис и подписки на записи.
type Grants struct {
	Service bool                          `json:"service"`
	Content []*models.ContentSubscription `json:"content"`
}

// ListGrants возвращает права доступа пользователя.
func (s *AccessService) ListGrants(ctx context.Context, userUID string) (*Grants, error) {
	const op = "access.ListGrants"

	service, err := s.repo.FindActiveServiceSubscription(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	content, err := s.repo.ListContentSubscriptions(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Grants{Service: service, Content: content}, nil
}

func (s *AccessService) hasActiveGrant(ctx context.Context, userUID string, target models.Target) (bool, error) {
	if target.Kind == models.TargetService {
		return s.repo.FindActiveServiceSubscription(ctx, userUID)
	}
	return s.repo.FindActiveContentSubscription(ctx, userUID, target.ContentID)
}

func (s *AccessService) amountFor(ctx context.Context, target models.Target) (int64, error) {
	if target.Kind == models.TargetService {
		return s.subscriptionPrice, nil
	}
	content, found, err := s.repo.ReadContent(ctx, target.ContentID)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, ErrContentNotFound
	}
	if content.Kind != models.ContentKindPaid {
		return 0, ErrNotPurchasable
	}
	return content.Price, nil
}

func (s *AccessService) initiatePayment(ctx context.Context, userUID string, target models.Target) (*Resolution, error) {
	const op = "access.initiatePayment"

	amount, err := s.amountFor(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	priceID, err := s.provider.CreatePrice(ctx, amount)
	if err != nil {
		s.log.Warn("provider unavailable, purchase not initiated", sl.Err(err))
		metrics.IncPayment("provider_error")
		return &Resolution{Outcome: OutcomeProviderUnavailable}, nil
	}
	sessionID, link, err := s.provider.CreateCheckoutSession(ctx, priceID)
	if err != nil {
		s.log.Warn("provider unavailable, purchase not initiated", sl.Err(err))
		metrics.IncPayment("provider_error")
		return &Resolution{Outcome: OutcomeProviderUnavailable}, nil
	}

	payment := models.Payment{
		UserUID:     userUID,
		TargetKind:  target.Kind,
		ContentID:   target.ContentID,
		Amount:      amount,
		Status:      models.PaymentStatusPending,
		SessionID:   sessionID,
		PaymentLink: link,
	}
	id, created, err := s.repo.CreatePayment(ctx, payment)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !created {
		// Конкурентный запрос успел первым: переиспользуем его счет.
		winner, found, err := s.repo.FindPendingPayment(ctx, userUID, target)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if found {
			return &Resolution{Outcome: OutcomeAwaitingPayment, PaymentLink: winner.PaymentLink}, nil
		}
		return &Resolution{Outcome: OutcomeStillPending}, nil
	}

	metrics.IncPayment("created")
	s.log.Info("created pending payment",
		slog.Int("id", id),
		slog.String("target_kind", string(target.Kind)),
		slog.Int64("amount", amount))
	return &Resolution{Outcome: OutcomeAwaitingPayment, PaymentLink: link}, nil
}

func (s *AccessService) confirmPayment(ctx context.Context, payment *models.Payment) (*Resolution, error) {
	status, err := s.provider.GetIntentStatus(ctx, payment.SessionID)
	if err != nil {
		s.log.Warn("provider status check failed, payment stays pending", sl.Err(err))
		metrics.IncPayment("provider_error")
		return &Resolution{Outcome: OutcomeStillPending, PaymentLink: payment.PaymentLink}, nil
	}
	if status != paymentprovider.IntentSucceeded {
		return &Resolution{Outcome: OutcomeStillPending, PaymentLink: payment.PaymentLink}, nil
	}
	return s.activate(ctx, payment)
}

// activate переводит платеж в paid и идемпотентно выдает право доступа.
// Лишний вызов безопасен: MarkPaymentPaid с уже разрешенным платежом
// меняет ноль строк, а создание подписки работает через upsert.
// Если процесс падает между mark-paid и выдачей права, запись остается
// paid без права; такие записи чинят ConfirmSession и ResolvePurchase.
func (s *AccessService) activate(ctx context.Context, payment *models.Payment) (*Resolution, error) {
	const op = "access.activate"

	if _, err := s.repo.MarkPaymentPaid(ctx, payment.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.grantAccess(ctx, payment); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Resolution{Outcome: OutcomeActivated}, nil
}

// grantAccess идемпотентно выдает право доступа по оплаченному платежу,
// обновляет метрики и публикует событие активации.
func (s *AccessService) grantAccess(ctx context.Context, payment *models.Payment) error {
	const op = "access.grantAccess"

	switch payment.TargetKind {
	case models.TargetService:
		if _, err := s.repo.CreateServiceSubscription(ctx, payment.UserUID); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if err := s.repo.SetUserSubscription(ctx, payment.UserUID, true); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	default:
		if _, err := s.repo.CreateContentSubscription(ctx, payment.UserUID, payment.ContentID); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	metrics.IncPayment("confirmed")
	metrics.IncAccessGrant(string(payment.TargetKind))
	s.log.Info("access grant activated",
		slog.String("user_uid", payment.UserUID),
		slog.String("target_kind", string(payment.TargetKind)))

	if s.events != nil {
		event := ActivatedEvent{
			UserUID:    payment.UserUID,
			TargetKind: string(payment.TargetKind),
			ContentID:  payment.ContentID,
			Amount:     payment.Amount,
		}
		if user, err := s.repo.GetUser(ctx, payment.UserUID); err != nil {
			s.log.Warn("failed to load user for activation event", sl.Err(err))
		} else {
			event.Username = user.Username
			event.Email = user.Email
		}
		if err := s.events.Publish("activated", event); err != nil {
			s.log.Warn("failed to publish activation event", sl.Err(err))
		}
	}

	return nil
}
