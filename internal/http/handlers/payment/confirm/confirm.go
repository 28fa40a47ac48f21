// Package confirm реализует HTTP-обработчик подтверждения оплаты премиума.
//
// Это единственное место, где запись профиля становится платной: по плану
// вычисляется включительная дата истечения, идентификатор платежа сохраняется
// для поддержки, сигнатура пересчитывается сервисом записей.
package confirm

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/relief-anchor/internal/http/middlewarectx"
	"github.com/magabrotheeeer/relief-anchor/internal/http/response"
	"github.com/magabrotheeeer/relief-anchor/internal/lib/caldate"
	"github.com/magabrotheeeer/relief-anchor/internal/lib/sl"
	"github.com/magabrotheeeer/relief-anchor/internal/models"
)

// Handler обрабатывает HTTP-запросы на подтверждение оплаты.
type Handler struct {
	log      *slog.Logger
	service  Service
	clock    caldate.Clock
	validate *validator.Validate
}

// Service описывает интерфейс обновления записи о правах.
type Service interface {
	UpdateRecord(ctx context.Context, ownerID string, update models.RecordUpdate) (*models.EntitlementRecord, error)
}

// New создает новый Handler с переданными логгером, сервисом и часами.
func New(log *slog.Logger, service Service, clock caldate.Clock) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		clock:    clock,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Подтвердить оплату
// @Description Включает премиум на профиле по оплаченному плану: MONTHLY на месяц, YEARLY на год от сегодняшней даты.
// @Tags Payment
// @Accept  json
// @Produce  json
// @Param request body models.DummyConfirm true "Идентификатор платежа и план"
// @Success 200 {object} map[string]any "Обновлённая запись"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /payment/confirm [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.confirm"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyConfirm
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

	months := 1
	plan := models.PlanType(req.Plan)
	if plan == models.PlanYearly {
		months = 12
	}
	until := caldate.ShiftMonths(h.clock, months)

	premium := true
	record, err := h.service.UpdateRecord(r.Context(), owner, models.RecordUpdate{
		IsPremium:        &premium,
		PremiumUntil:     &until,
		PlanType:         &plan,
		PaymentReference: &req.PaymentID,
	})
	if err != nil {
		log.Error("failed to activate premium", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not activate premium"))
		return
	}

	log.Info("premium activated",
		slog.String("owner", owner),
		slog.String("until", until),
		sl.Masked("payment_id", req.PaymentID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user": record,
	}))
}
