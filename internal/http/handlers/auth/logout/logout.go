// Package logout реализует HTTP-обработчик закрытия сессии профиля.
// Записи самочувствия и запись о правах при выходе не трогаются.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/relief-anchor/internal/http/response"
	"github.com/magabrotheeeer/relief-anchor/internal/lib/sl"
)

// Handler обрабатывает HTTP-запросы на выход из профиля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики сессий.
type Service interface {
	Logout(ctx context.Context) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Выход из профиля
// @Description Закрывает активную сессию. Данные профиля остаются в хранилище.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Сессия закрыта"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := h.service.Logout(r.Context()); err != nil {
		log.Error("logout failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not close session"))
		return
	}

	log.Info("logout success")
	render.JSON(w, r, response.OKWithData(nil))
}
