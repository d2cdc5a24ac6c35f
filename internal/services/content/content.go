// Package content реализует бизнес-логику работы с записями: CRUD с проверкой
// прав доступа и кэшированием чтений в Redis. Платные записи может создавать
// только пользователь с активной подпиской на сервис; читать платную запись
// могут владелец, покупатель с активной подпиской на запись и модератор.
package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/content-paywall/internal/lib/sl"
	"github.com/magabrotheeeer/content-paywall/internal/models"
)

// Repository определяет методы хранилища для работы с записями.
type Repository interface {
	CreateContent(ctx context.Context, content models.Content) (int, error)
	ReadContent(ctx context.Context, id int) (*models.Content, bool, error)
	UpdateContent(ctx context.Context, content models.Content, id int) (int, error)
	RemoveContent(ctx context.Context, id int) (int, error)
	ListContent(ctx context.Context, kind models.ContentKind, limit, offset int) ([]*models.Content, error)
	FindActiveContentSubscription(ctx context.Context, userUID string, contentID int) (bool, error)
	FindActiveServiceSubscription(ctx context.Context, userUID string) (bool, error)
}

// ContentCache определяет интерфейс кэша записей.
type ContentCache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// ErrNotFound возвращается, когда запись не существует.
var ErrNotFound = errors.New("content not found")

// ErrAccessDenied возвращается при недостатке прав на операцию.
var ErrAccessDenied = errors.New("access denied")

const cacheTTL = 5 * time.Minute

// ContentService реализует операции над записями.
type ContentService struct {
	repo  Repository
	cache ContentCache
	log   *slog.Logger
}

// New создает новый экземпляр ContentService.
func New(repo Repository, cache ContentCache, log *slog.Logger) *ContentService {
	return &ContentService{repo: repo, cache: cache, log: log}
}

func cacheKey(id int) string {
	return fmt.Sprintf("content:%d", id)
}

// CreateContent создает запись от имени пользователя userUID.
// Платную запись может создать только пользователь с активной подпиской
// на сервис; модератору подписка не требуется.
func (s *ContentService) CreateContent(ctx context.Context, userUID, role string, dummy models.DummyContent) (int, error) {
	const op = "content.CreateContent"

	if dummy.Kind == string(models.ContentKindPaid) && role != models.RoleModer {
		active, err := s.repo.FindActiveServiceSubscription(ctx, userUID)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		if !active {
			return 0, fmt.Errorf("%s: %w", op, ErrAccessDenied)
		}
	}

	content := models.Content{
		OwnerUID:  userUID,
		Kind:      models.ContentKind(dummy.Kind),
		Title:     dummy.Title,
		Body:      dummy.Body,
		VideoLink: dummy.VideoLink,
		Price:     dummy.Price,
	}
	if content.Kind == models.ContentKindFree {
		content.Price = 0
	}

	id, err := s.repo.CreateContent(ctx, content)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// ReadContent возвращает запись по ID с проверкой прав на платный контент.
func (s *ContentService) ReadContent(ctx context.Context, userUID, role string, id int) (*models.Content, error) {
	const op = "content.ReadContent"

	content, err := s.readCached(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if content.Kind == models.ContentKindPaid {
		allowed, err := s.canViewPaid(ctx, userUID, role, content)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !allowed {
			return nil, fmt.Errorf("%s: %w", op, ErrAccessDenied)
		}
	}
	return content, nil
}

// UpdateContent обновляет запись. Разрешено владельцу и модератору.
// Вид записи неизменяем: бесплатная запись не становится платной и наоборот,
// цена выводится из вида существующей записи.
func (s *ContentService) UpdateContent(ctx context.Context, userUID, role string, id int, dummy models.DummyUpdateContent) error {
	const op = "content.UpdateContent"

	existing, found, err := s.repo.ReadContent(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if existing.OwnerUID != userUID && role != models.RoleModer {
		return fmt.Errorf("%s: %w", op, ErrAccessDenied)
	}

	content := models.Content{
		Kind:      existing.Kind,
		Title:     dummy.Title,
		Body:      dummy.Body,
		VideoLink: dummy.VideoLink,
		Price:     dummy.Price,
	}
	switch {
	case content.Kind == models.ContentKindFree:
		content.Price = 0
	case content.Price == 0:
		// Цена платной записи не обнуляется, если в запросе ее нет.
		content.Price = existing.Price
	}

	n, err := s.repo.UpdateContent(ctx, content, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("failed to invalidate content cache", sl.Err(err))
	}
	return nil
}

// RemoveContent удаляет запись. Разрешено владельцу и модератору.
func (s *ContentService) RemoveContent(ctx context.Context, userUID, role string, id int) error {
	const op = "content.RemoveContent"

	existing, found, err := s.repo.ReadContent(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if existing.OwnerUID != userUID && role != models.RoleModer {
		return fmt.Errorf("%s: %w", op, ErrAccessDenied)
	}

	n, err := s.repo.RemoveContent(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("failed to invalidate content cache", sl.Err(err))
	}
	return nil
}

// ListContent возвращает страницу записей заданного вида. В списке платных
// записей тело и ссылка на видео не раскрываются.
func (s *ContentService) ListContent(ctx context.Context, kind models.ContentKind, limit, offset int) ([]*models.Content, error) {
	const op = "content.ListContent"

	items, err := s.repo.ListContent(ctx, kind, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if kind == models.ContentKindPaid {
		for _, item := range items {
			item.Body = ""
			item.VideoLink = ""
		}
	}
	return items, nil
}

// readCached читает запись сквозь кэш.
func (s *ContentService) readCached(ctx context.Context, id int) (*models.Content, error) {
	var cached models.Content
	found, err := s.cache.Get(cacheKey(id), &cached)
	if err != nil {
		s.log.Warn("failed to read content cache", sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	content, ok, err := s.repo.ReadContent(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	if err := s.cache.Set(cacheKey(id), content, cacheTTL); err != nil {
		s.log.Warn("failed to write content cache", sl.Err(err))
	}
	return content, nil
}

// canViewPaid проверяет право на просмотр платной записи.
func (s *ContentService) canViewPaid(ctx context.Context, userUID, role string, content *models.Content) (bool, error) {
	if role == models.RoleModer || content.OwnerUID == userUID {
		return true, nil
	}
	return s.repo.FindActiveContentSubscription(ctx, userUID, content.ID)
}
