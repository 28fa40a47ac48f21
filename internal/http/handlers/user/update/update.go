// Package update реализует HTTP-обработчик частичного обновления профиля.
//
// Пользователю доступны только смена региона и явный отказ от премиума.
// Платные поля выставляет исключительно подтверждение оплаты, а сигнатуру
// запись пересчитывает сама — ни то ни другое через PATCH не принимается.
package update

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
	"github.com/magabrotheeeer/relief-anchor/internal/lib/sl"
	"github.com/magabrotheeeer/relief-anchor/internal/models"
)

// Handler обрабатывает HTTP-запросы на обновление профиля.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс обновления записи о правах.
type Service interface {
	UpdateRecord(ctx context.Context, ownerID string, update models.RecordUpdate) (*models.EntitlementRecord, error)
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
// @Summary Обновить профиль
// @Description Меняет регион профиля и/или отключает премиум. Прочие поля записи через этот запрос недоступны.
// @Tags User
// @Accept  json
// @Produce  json
// @Param request body models.DummyUserUpdate true "Изменяемые поля"
// @Success 200 {object} map[string]any "Обновлённая запись"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /user [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyUserUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	owner, ok := r.Context().Value(middlewarectx.Owner).(string)
	if !ok || owner == "" {
		log.Error("owner not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	var upd models.RecordUpdate
	if req.Region != nil {
		region := models.Region(*req.Region)
		upd.Region = &region
	}
	if req.Cancel {
		premium := false
		upd.IsPremium = &premium
	}

	record, err := h.service.UpdateRecord(r.Context(), owner, upd)
	if err != nil {
		log.Error("failed to update record", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update user record"))
		return
	}

	log.Info("record updated", slog.String("owner", record.OwnerID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user": record,
	}))
}
