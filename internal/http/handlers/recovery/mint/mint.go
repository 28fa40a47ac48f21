// Package mint реализует HTTP-обработчик выдачи токена восстановления.
//
// Токен выписывается только для премиум-записи с датой истечения и кодирует
// владельца, дату и план вместе с контрольной суммой. Пользователь хранит
// его сам: токен — единственный способ перенести премиум на другое устройство.
package mint

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/relief-anchor/internal/http/middlewarectx"
	"github.com/magabrotheeeer/relief-anchor/internal/http/response"
	"github.com/magabrotheeeer/relief-anchor/internal/lib/sl"
	"github.com/magabrotheeeer/relief-anchor/internal/services/recovery"
)

// Handler обрабатывает HTTP-запросы на выдачу токена восстановления.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс выдачи токенов восстановления.
type Service interface {
	Mint(ctx context.Context, ownerID string) (string, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить токен восстановления
// @Description Выдаёт портируемый токен восстановления премиума. Доступно только премиум-профилю.
// @Tags Recovery
// @Produce  json
// @Success 200 {object} map[string]any "Токен восстановления"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Профиль без премиума"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /user/recovery-token [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recovery.mint"

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

	token, err := h.service.Mint(r.Context(), owner)
	if err != nil {
		if errors.Is(err, recovery.ErrNotPremium) {
			log.Info("mint refused for free record", slog.String("owner", owner))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("recovery token is available for premium only"))
			return
		}
		log.Error("failed to mint token", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not mint recovery token"))
		return
	}

	log.Info("token minted", slog.String("owner", owner), sl.Masked("token", token))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"recovery_token": token,
	}))
}
