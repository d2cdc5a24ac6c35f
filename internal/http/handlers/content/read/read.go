// Package read реализует HTTP-обработчик получения записи по ID.
//
// Handler извлекает ID из URL, uid и роль пользователя из контекста
// и делегирует чтение бизнес-логике. Платная запись без права доступа
// возвращает 403.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/content-paywall/internal/http/middlewarectx"
	"github.com/magabrotheeeer/content-paywall/internal/http/response"
	"github.com/magabrotheeeer/content-paywall/internal/lib/sl"
	"github.com/magabrotheeeer/content-paywall/internal/models"
	"github.com/magabrotheeeer/content-paywall/internal/services/content"
)

// Service описывает интерфейс бизнес-логики чтения записи.
type Service interface {
	ReadContent(ctx context.Context, userUID, role string, id int) (*models.Content, error)
}

// Handler обрабатывает HTTP-запросы на получение записи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить запись
// @Description Возвращает запись по ID. Платная запись доступна владельцу, покупателю и модератору.
// @Tags Content
// @Security BearerAuth
// @Produce  json
// @Param id path int true "ID записи"
// @Success 200 {object} map[string]any "Данные записи"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Нет доступа к платной записи"
// @Failure 404 {object} response.ErrorResponse "Запись не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /content/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}
	role, _ := r.Context().Value(middlewarectx.Role).(string)

	res, err := h.service.ReadContent(r.Context(), userUID, role, id)
	if err != nil {
		switch {
		case errors.Is(err, content.ErrNotFound):
			log.Error("content not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("content not found"))
		case errors.Is(err, content.ErrAccessDenied):
			log.Error("access to paid content denied", sl.Err(err))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied"))
		default:
			log.Error("failed to read content", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not read content"))
		}
		return
	}

	log.Info("content read", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"content": res,
	}))
}
