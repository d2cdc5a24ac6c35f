// Package list реализует HTTP-обработчик списка записей.
//
// Handler отдает страницу бесплатных или платных записей. Для платных
// записей возвращаются только метаданные: тело и ссылка на видео скрыты
// до покупки.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/content-paywall/internal/http/response"
	"github.com/magabrotheeeer/content-paywall/internal/lib/sl"
	"github.com/magabrotheeeer/content-paywall/internal/models"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Service описывает интерфейс бизнес-логики списка записей.
type Service interface {
	ListContent(ctx context.Context, kind models.ContentKind, limit, offset int) ([]*models.Content, error)
}

// Handler обрабатывает HTTP-запросы на получение списка записей.
type Handler struct {
	log     *slog.Logger
	service Service
	kind    models.ContentKind
}

// New создает новый экземпляр Handler для записей вида kind.
func New(log *slog.Logger, service Service, kind models.ContentKind) *Handler {
	return &Handler{log: log, service: service, kind: kind}
}

// ServeHTTP godoc
// @Summary Список записей
// @Description Возвращает страницу бесплатных или платных записей. Платные записи отдаются без тела и ссылки на видео.
// @Tags Content
// @Produce  json
// @Param limit query int false "Размер страницы, по умолчанию 20"
// @Param offset query int false "Смещение страницы"
// @Success 200 {object} map[string]any "Список записей"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /content/free [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	items, err := h.service.ListContent(r.Context(), h.kind, limit, offset)
	if err != nil {
		log.Error("failed to list content", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list content"))
		return
	}

	log.Info("content listed", slog.String("kind", string(h.kind)), slog.Int("count", len(items)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"items": items,
	}))
}
