package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/content-paywall/internal/models"
)

// CreateContent вставляет новую запись и возвращает её ID.
func (s *Storage) CreateContent(ctx context.Context, content models.Content) (int, error) {
	const op = "storage.CreateContent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO content (owner_uid, kind, title, body, video_link, price)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		content.OwnerUID, content.Kind, content.Title, content.Body,
		content.VideoLink, content.Price).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadContent возвращает запись по её ID. Второй результат false, если записи нет.
func (s *Storage) ReadContent(ctx context.Context, id int) (*models.Content, bool, error) {
	const op = "storage.ReadContent"
	select {
	case <-ctx.Done():
		return nil, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, owner_uid, kind, title, body, video_link, price, created_at
			  FROM content WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Content
	var body, videoLink sql.NullString
	if err := row.Scan(&result.ID, &result.OwnerUID, &result.Kind, &result.Title,
		&body, &videoLink, &result.Price, &result.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	result.Body = body.String
	result.VideoLink = videoLink.String
	return &result, true, nil
}

// UpdateContent обновляет запись по её ID и возвращает количество изменённых строк.
func (s *Storage) UpdateContent(ctx context.Context, content models.Content, id int) (int, error) {
	const op = "storage.UpdateContent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE content
			  SET title = $1, body = $2, video_link = $3, price = $4
			  WHERE id = $5`
	result, err := s.DB.ExecContext(ctx, query,
		content.Title, content.Body, content.VideoLink, content.Price, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveContent удаляет запись по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveContent(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveContent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM content WHERE id = $1`
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

// ListContent возвращает список записей заданного вида с пагинацией.
func (s *Storage) ListContent(ctx context.Context, kind models.ContentKind, limit, offset int) ([]*models.Content, error) {
	const op = "storage.ListContent"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, owner_uid, kind, title, body, video_link, price, created_at
			  FROM content
			  WHERE kind = $1
			  ORDER BY id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, kind, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Content
	for rows.Next() {
		var c models.Content
		var body, videoLink sql.NullString
		if err := rows.Scan(&c.ID, &c.OwnerUID, &c.Kind, &c.Title,
			&body, &videoLink, &c.Price, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		c.Body = body.String
		c.VideoLink = videoLink.String
		result = append(result, &c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
