package models

import "time"

// ContentKind различает бесплатные и платные записи.
type ContentKind string

const (
	// ContentKindFree — бесплатная запись, доступна всем.
	ContentKindFree ContentKind = "free"
	// ContentKindPaid — платная запись, доступ после покупки.
	ContentKindPaid ContentKind = "paid"
)

// Content представляет запись пользователя, бесплатную или платную.
// Поле Price заполняется только для платных записей (в копейках).
type Content struct {
	ID        int         `json:"id"`
	OwnerUID  string      `json:"owner_uid"`            // Владелец записи
	Kind      ContentKind `json:"kind"`                 // Вид записи, free или paid
	Title     string      `json:"title"`                // Название записи
	Body      string      `json:"body,omitempty"`       // Текст записи
	VideoLink string      `json:"video_link,omitempty"` // Ссылка на видео-материал
	Price     int64       `json:"price,omitempty"`      // Цена доступа в копейках, 0 для бесплатных
	CreatedAt time.Time   `json:"created_at"`
}

// DummyContent используется для приёма данных записи из JSON-запроса,
// прежде чем конвертировать их в Content.
type DummyContent struct {
	Kind      string `json:"kind" validate:"required,oneof=free paid"` // Вид записи
	Title     string `json:"title" validate:"required,max=150"`        // Название записи
	Body      string `json:"body" validate:"max=2000"`                 // Текст записи
	VideoLink string `json:"video_link" validate:"omitempty,url"`      // Ссылка на видео
	Price     int64  `json:"price" validate:"omitempty,gt=0"`          // Цена в копейках, только для paid
}

// DummyUpdateContent используется для приёма данных из JSON-запроса
// на обновление записи. Вид записи неизменяем и в запросе не передается.
type DummyUpdateContent struct {
	Title     string `json:"title" validate:"required,max=150"`   // Название записи
	Body      string `json:"body" validate:"max=2000"`            // Текст записи
	VideoLink string `json:"video_link" validate:"omitempty,url"` // Ссылка на видео
	Price     int64  `json:"price" validate:"omitempty,gt=0"`     // Цена в копейках, только для paid
}
