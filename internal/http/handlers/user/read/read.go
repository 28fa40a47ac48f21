// Package read реализует HTTP-обработчик чтения записи о правах профиля.
//
// Каждое чтение проходит полную проверку в сервисе: сверку контрольной суммы,
// проверку истечения премиума и суточный сброс счётчика сообщений, поэтому
// ответ всегда содержит уже починенную и переподписанную запись.
package read

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

// Handler обрабатывает HTTP-запросы на чтение записи профиля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс доступа к записи о правах.
type Service interface {
	GetRecord(ctx context.Context, ownerID string) (*models.EntitlementRecord, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить запись профиля
// @Description Возвращает проверенную запись о правах текущего профиля вместе с прайсом и телефоном доверия его региона.
// @Tags User
// @Produce  json
// @Success 200 {object} map[string]any "Запись профиля"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /user [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.read"

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

	record, err := h.service.GetRecord(r.Context(), owner)
	if err != nil {
		log.Error("failed to read record", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read user record"))
		return
	}

	log.Info("record read", slog.String("owner", record.OwnerID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user":     record,
		"pricing":  models.PricingFor(record.Region),
		"helpline": models.HelplineFor(record.Region),
	}))
}
