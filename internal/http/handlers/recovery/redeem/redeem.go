// Package redeem реализует HTTP-обработчик погашения токена восстановления.
//
// Принятый токен переносит премиум на текущий профиль, даже если токен был
// выписан другому владельцу. Каждый исход — принятие, отказ по причине,
// кросс-профильный перенос — считается в метриках.
package redeem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/relief-anchor/internal/http/middlewarectx"
	"github.com/magabrotheeeer/relief-anchor/internal/http/response"
	"github.com/magabrotheeeer/relief-anchor/internal/lib/sl"
	"github.com/magabrotheeeer/relief-anchor/internal/metrics"
	"github.com/magabrotheeeer/relief-anchor/internal/models"
	"github.com/magabrotheeeer/relief-anchor/internal/services/recovery"
)

// Handler обрабатывает HTTP-запросы на погашение токена восстановления.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс погашения токенов восстановления.
type Service interface {
	Redeem(ctx context.Context, tokenText, activeOwnerID string) (*recovery.Redemption, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Восстановить премиум по токену
// @Description Проверяет токен восстановления и применяет его премиум к текущему профилю.
// @Tags Recovery
// @Accept  json
// @Produce  json
// @Param request body models.DummyRestore true "Токен восстановления"
// @Success 200 {object} map[string]any "Премиум восстановлен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 410 {object} response.ErrorResponse "Премиум из токена истёк"
// @Failure 422 {object} response.ErrorResponse "Токен повреждён или подделан"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /user/restore [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recovery.redeem"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyRestore
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	owner, ok := r.Context().Value(middlewarectx.Owner).(string)
	if !ok || owner == "" {
		log.Error("owner not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	redemption, err := h.service.Redeem(r.Context(), req.Token, owner)
	if err != nil {
		switch {
		case errors.Is(err, recovery.ErrMalformedToken):
			metrics.RestoreRejected.WithLabelValues("malformed").Inc()
			log.Info("malformed token rejected", slog.String("owner", owner))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("recovery token is malformed"))
		case errors.Is(err, recovery.ErrBadSignature):
			metrics.RestoreRejected.WithLabelValues("signature").Inc()
			log.Info("forged token rejected", slog.String("owner", owner))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("recovery token signature mismatch"))
		case errors.Is(err, recovery.ErrExpiredToken):
			metrics.RestoreRejected.WithLabelValues("expired").Inc()
			log.Info("expired token rejected", slog.String("owner", owner))
			msg := "recovery token has expired"
			var expired *recovery.ExpiredTokenError
			if errors.As(err, &expired) {
				msg = fmt.Sprintf("recovery token expired on %s", expired.Until)
			}
			w.WriteHeader(http.StatusGone)
			render.JSON(w, r, response.Error(msg))
		default:
			log.Error("failed to redeem token", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not redeem recovery token"))
		}
		return
	}

	metrics.RestoreAccepted.Inc()
	if redemption.CrossProfile {
		metrics.CrossProfileRestores.Inc()
		log.Warn("premium transferred between profiles",
			slog.String("minted_for", redemption.MintedFor),
			slog.String("owner", owner))
	}

	log.Info("premium restored", slog.String("owner", owner))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user":          redemption.Record,
		"cross_profile": redemption.CrossProfile,
	}))
}
