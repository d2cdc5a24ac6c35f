package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/content-paywall/internal/models"
)

// FindPendingPayment находит неразрешенный платеж пользователя по цели.
// Второй результат false, если такого платежа нет.
func (s *Storage) FindPendingPayment(ctx context.Context, userUID string, target models.Target) (*models.Payment, bool, error) {
	const op = "storage.FindPendingPayment"
	select {
	case <-ctx.Done():
		return nil, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, target_kind, content_id, amount, status, session_id, payment_link, created_at
			  FROM payments
			  WHERE user_uid = $1 AND target_kind = $2 AND content_id = $3 AND status = 'pending'`
	row := s.DB.QueryRowContext(ctx, query, userUID, target.Kind, target.ContentID)

	var p models.Payment
	if err := row.Scan(&p.ID, &p.UserUID, &p.TargetKind, &p.ContentID, &p.Amount,
		&p.Status, &p.SessionID, &p.PaymentLink, &p.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return &p, true, nil
}

// CreatePayment вставляет новый платеж в статусе pending и возвращает его ID.
// Единственность pending-платежа на пару (пользователь, цель) обеспечивает
// частичный уникальный индекс payments_pending_unique: при конкурентной вставке
// второй запрос не создает дубликат, created=false, и вызывающая сторона
// перечитывает запись победителя через FindPendingPayment.
func (s *Storage) CreatePayment(ctx context.Context, payment models.Payment) (int, bool, error) {
	const op = "storage.CreatePayment"
	select {
	case <-ctx.Done():
		return 0, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payments (user_uid, target_kind, content_id, amount, status, session_id, payment_link)
			  VALUES ($1, $2, $3, $4, 'pending', $5, $6)
			  ON CONFLICT (user_uid, target_kind, content_id) WHERE status = 'pending' DO NOTHING
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		payment.UserUID, payment.TargetKind, payment.ContentID, payment.Amount,
		payment.SessionID, payment.PaymentLink).Scan(&newID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("%s: %w", op, err)
	}
	return newID, true, nil
}

// MarkPaymentPaid переводит платеж в статус paid.
// Возвращает количество изменённых строк: 0 означает, что платеж
// уже был разрешен другим запросом.
func (s *Storage) MarkPaymentPaid(ctx context.Context, id int) (int, error) {
	const op = "storage.MarkPaymentPaid"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payments SET status = 'paid' WHERE id = $1 AND status = 'pending'`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// FindPaidPayment находит последний оплаченный платеж пользователя по цели.
// Второй результат false, если такого платежа нет.
func (s *Storage) FindPaidPayment(ctx context.Context, userUID string, target models.Target) (*models.Payment, bool, error) {
	const op = "storage.FindPaidPayment"
	select {
	case <-ctx.Done():
		return nil, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, target_kind, content_id, amount, status, session_id, payment_link, created_at
			  FROM payments
			  WHERE user_uid = $1 AND target_kind = $2 AND content_id = $3 AND status = 'paid'
			  ORDER BY created_at DESC
			  LIMIT 1`
	row := s.DB.QueryRowContext(ctx, query, userUID, target.Kind, target.ContentID)

	var p models.Payment
	if err := row.Scan(&p.ID, &p.UserUID, &p.TargetKind, &p.ContentID, &p.Amount,
		&p.Status, &p.SessionID, &p.PaymentLink, &p.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return &p, true, nil
}

// FindPaymentBySession находит платеж по ID checkout-сессии провайдера.
// Второй результат false, если платежа нет.
func (s *Storage) FindPaymentBySession(ctx context.Context, sessionID string) (*models.Payment, bool, error) {
	const op = "storage.FindPaymentBySession"
	select {
	case <-ctx.Done():
		return nil, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, target_kind, content_id, amount, status, session_id, payment_link, created_at
			  FROM payments
			  WHERE session_id = $1`
	row := s.DB.QueryRowContext(ctx, query, sessionID)

	var p models.Payment
	if err := row.Scan(&p.ID, &p.UserUID, &p.TargetKind, &p.ContentID, &p.Amount,
		&p.Status, &p.SessionID, &p.PaymentLink, &p.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return &p, true, nil
}

// ListPayments возвращает список платежей пользователя.
func (s *Storage) ListPayments(ctx context.Context, userUID string) ([]*models.Payment, error) {
	const op = "storage.ListPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, target_kind, content_id, amount, status, session_id, payment_link, created_at
			  FROM payments
			  WHERE user_uid = $1
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.UserUID, &p.TargetKind, &p.ContentID, &p.Amount,
			&p.Status, &p.SessionID, &p.PaymentLink, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
