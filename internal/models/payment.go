package models

import "time"

// PaymentStatus описывает статус платежа.
type PaymentStatus string

const (
	// PaymentStatusPending — счет выставлен, оплата не подтверждена.
	PaymentStatusPending PaymentStatus = "pending"
	// PaymentStatusPaid — провайдер подтвердил оплату.
	PaymentStatusPaid PaymentStatus = "paid"
)

// TargetKind различает цели платежа: конкретная платная запись или подписка на сервис.
type TargetKind string

const (
	// TargetContent — покупка доступа к платной записи.
	TargetContent TargetKind = "content"
	// TargetService — подписка на услуги сервиса.
	TargetService TargetKind = "service"
)

// Target описывает объект покупки. Для подписки на сервис ContentID равен нулю.
type Target struct {
	Kind      TargetKind
	ContentID int
}

// ContentTarget возвращает цель платежа для платной записи.
func ContentTarget(contentID int) Target {
	return Target{Kind: TargetContent, ContentID: contentID}
}

// ServiceTarget возвращает цель платежа для подписки на сервис.
func ServiceTarget() Target {
	return Target{Kind: TargetService}
}

// Payment представляет платеж пользователя за доступ к записи или подписку на сервис.
// Инвариант хранилища: не более одного платежа в статусе pending
// на пару (пользователь, цель).
type Payment struct {
	ID          int           `json:"id"`
	UserUID     string        `json:"user_uid"`     // Пользователь, выставивший счет
	TargetKind  TargetKind    `json:"target_kind"`  // Цель платежа, content или service
	ContentID   int           `json:"content_id"`   // ID записи, 0 для подписки на сервис
	Amount      int64         `json:"amount"`       // Сумма к оплате в копейках
	Status      PaymentStatus `json:"status"`       // Статус оплаты, pending или paid
	SessionID   string        `json:"session_id"`   // ID checkout-сессии провайдера
	PaymentLink string        `json:"payment_link"` // Ссылка на оплату
	CreatedAt   time.Time     `json:"created_at"`   // Дата создания счета
}

// Target возвращает цель платежа.
func (p *Payment) Target() Target {
	return Target{Kind: p.TargetKind, ContentID: p.ContentID}
}
