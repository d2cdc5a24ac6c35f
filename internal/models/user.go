// Package models содержит доменные структуры сервиса платного контента:
// пользователей, записи (бесплатные и платные), платежи и подписки.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Роли пользователей.
const (
	RoleUser  = "user"
	RoleModer = "moder"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string    `json:"uid"`           // Уникальный идентификатор пользователя
	Email        string    `json:"email"`         // Электронная почта
	Username     string    `json:"username"`      // Имя пользователя (уникальное)
	PasswordHash string    `json:"-"`             // Хэш пароля пользователя
	Role         string    `json:"role"`          // Роль пользователя, user или moder
	Subscription bool      `json:"subscription"`  // Наличие активной подписки на сервис
	CreatedAt    time.Time `json:"created_at"`    // Дата регистрации
}

// DummyUpdateUser используется для приёма данных из JSON-запроса
// на обновление профиля пользователя.
type DummyUpdateUser struct {
	Email string `json:"email" validate:"required,email"` // Электронная почта
}
