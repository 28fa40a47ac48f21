// Package list реализует HTTP-обработчик чтения дневника настроений.
package list

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

// Handler обрабатывает HTTP-запросы на чтение дневника настроений.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс дневника настроений.
type Service interface {
	Moods(ctx context.Context, ownerID string) ([]models.MoodLog, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Дневник настроений
// @Description Возвращает записи настроения в хронологическом порядке.
// @Tags Wellness
// @Produce  json
// @Success 200 {object} map[string]any "Записи настроения"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /moods [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.mood.list"

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

	moods, err := h.service.Moods(r.Context(), owner)
	if err != nil {
		log.Error("failed to list moods", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list moods"))
		return
	}

	log.Info("moods listed", slog.String("owner", owner), slog.Int("count", len(moods)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"moods": moods,
	}))
}
