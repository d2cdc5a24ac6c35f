package models

// ContentSubscription представляет право доступа пользователя к платной записи.
// Создается строго после подтверждения платежа за эту запись.
type ContentSubscription struct {
	ID        int    `json:"id"`
	UserUID   string `json:"user_uid"`  // Покупатель
	ContentID int    `json:"content_id"` // Оплаченная запись
	IsActive  bool   `json:"is_active"` // Статус активности подписки
}

// ServiceSubscription представляет подписку пользователя на услуги сервиса.
// Активная подписка дает право публиковать платные записи.
type ServiceSubscription struct {
	ID       int    `json:"id"`
	UserUID  string `json:"user_uid"`  // Подписчик
	IsActive bool   `json:"is_active"` // Статус активности подписки
}
