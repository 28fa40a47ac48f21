// Package clear реализует HTTP-обработчик стирания приватных данных профиля.
//
// Удаляются настроения, дневник и переписка; запись о правах переживает
// очистку, иначе вместе с данными пропал бы оплаченный премиум.
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

// Handler обрабатывает HTTP-запросы на стирание приватных данных.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс стирания приватных данных.
type Service interface {
	ClearPrivateData(ctx context.Context, ownerID string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Стереть приватные данные
// @Description Удаляет настроения, записи дневника и переписку текущего профиля. Запись о правах сохраняется.
// @Tags Privacy
// @Produce  json
// @Success 200 {object} response.Response "Данные стёрты"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /private-data [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.privacy.clear"

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

	if err := h.service.ClearPrivateData(r.Context(), owner); err != nil {
		log.Error("failed to clear private data", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not clear private data"))
		return
	}

	log.Info("private data cleared", slog.String("owner", owner))
	render.JSON(w, r, response.OKWithData(nil))
}
