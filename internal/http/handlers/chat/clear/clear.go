// Package clear реализует HTTP-обработчик очистки истории переписки.
package clear

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/relief-anchor/internal/http/middlewarectx"
	"github.com/magabrotheeeer/relief-anchor/internal/http/response"
	"github.com/magabrotheeeer/relief-anchor/internal/lib/sl"
)

// Handler обрабатывает HTTP-запросы на очистку истории переписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс очистки истории переписки.
type Service interface {
	ClearChat(ctx context.Context, ownerID string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Очистить историю переписки
// @Description Удаляет все сообщения переписки текущего профиля. Запись о правах не затрагивается.
// @Tags Chat
// @Produce  json
// @Success 200 {object} response.Response "История очищена"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /chat/history [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.chat.clear"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	owner, ok := r.Context().Value(middlewarectx.Owner).(string)
	if !ok || owner == "" {
		log.Error("owner not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.ClearChat(r.Context(), owner); err != nil {
		log.Error("failed to clear chat history", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not clear chat history"))
		return
	}

	log.Info("chat history cleared", slog.String("owner", owner))
	render.JSON(w, r, response.OKWithData(nil))
}
