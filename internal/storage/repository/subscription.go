package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/content-paywall/internal/models"
)

// FindActiveContentSubscription проверяет наличие активной подписки
// пользователя на платную запись.
func (s *Storage) FindActiveContentSubscription(ctx context.Context, userUID string, contentID int) (bool, error) {
	const op = "storage.FindActiveContentSubscription"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT is_active FROM content_subscriptions
			  WHERE user_uid = $1 AND content_id = $2`
	var isActive bool
	err := s.DB.QueryRowContext(ctx, query, userUID, contentID).Scan(&isActive)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return isActive, nil
}

// CreateContentSubscription идемпотентно создает или активирует подписку
// пользователя на платную запись и возвращает её ID.
func (s *Storage) CreateContentSubscription(ctx context.Context, userUID string, contentID int) (int, error) {
	const op = "storage.CreateContentSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO content_subscriptions (user_uid, content_id, is_active)
			  VALUES ($1, $2, TRUE)
			  ON CONFLICT (user_uid, content_id) DO UPDATE SET is_active = TRUE
			  RETURNING id`
	var id int
	if err := s.DB.QueryRowContext(ctx, query, userUID, contentID).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// FindActiveServiceSubscription проверяет наличие активной подписки
// пользователя на услуги сервиса.
func (s *Storage) FindActiveServiceSubscription(ctx context.Context, userUID string) (bool, error) {
	const op = "storage.FindActiveServiceSubscription"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT is_active FROM service_subscriptions WHERE user_uid = $1`
	var isActive bool
	err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&isActive)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return isActive, nil
}

// CreateServiceSubscription идемпотентно создает или активирует подписку
// пользователя на услуги сервиса и возвращает её ID.
func (s *Storage) CreateServiceSubscription(ctx context.Context, userUID string) (int, error) {
	const op = "storage.CreateServiceSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO service_subscriptions (user_uid, is_active)
			  VALUES ($1, TRUE)
			  ON CONFLICT (user_uid) DO UPDATE SET is_active = TRUE
			  RETURNING id`
	var id int
	if err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// ListContentSubscriptions возвращает подписки пользователя на платные записи.
func (s *Storage) ListContentSubscriptions(ctx context.Context, userUID string) ([]*models.ContentSubscription, error) {
	const op = "storage.ListContentSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, content_id, is_active
			  FROM content_subscriptions
			  WHERE user_uid = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.ContentSubscription
	for rows.Next() {
		var cs models.ContentSubscription
		if err := rows.Scan(&cs.ID, &cs.UserUID, &cs.ContentID, &cs.IsActive); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &cs)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
