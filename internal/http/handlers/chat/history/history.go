// Package history реализует HTTP-обработчик чтения истории переписки.
package history

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/relief-anchor/internal/http/middlewarectx"
	"github.com/magabrotheeeer/relief-anchor/internal/http/response"
	"github.com/magabrotheeeer/relief-anchor/internal/lib/sl"
	"github.com/magabrotheeeer/relief-anchor/internal/models"
)

// Handler обрабатывает HTTP-запросы на чтение истории переписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс истории переписки.
type Service interface {
	ChatHistory(ctx context.Context, ownerID string) ([]models.ChatMessage, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary История переписки
// @Description Возвращает сообщения переписки с компаньоном в хронологическом порядке.
// @Tags Chat
// @Produce  json
// @Success 200 {object} map[string]any "Сообщения переписки"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /chat/history [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.chat.history"

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

	messages, err := h.service.ChatHistory(r.Context(), owner)
	if err != nil {
		log.Error("failed to read chat history", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read chat history"))
		return
	}

	log.Info("chat history read", slog.String("owner", owner), slog.Int("count", len(messages)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"messages": messages,
	}))
}
