// Package create реализует HTTP-обработчик добавления записи микродневника.
package create

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

// Handler обрабатывает HTTP-запросы на добавление записи микродневника.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс микродневника.
type Service interface {
	AddJournalEntry(ctx context.Context, ownerID, text string) (*models.JournalEntry, error)
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
// @Summary Добавить запись дневника
// @Description Добавляет текстовую запись микродневника текущего профиля.
// @Tags Wellness
// @Accept  json
// @Produce  json
// @Param request body models.DummyJournal true "Текст записи"
// @Success 200 {object} map[string]any "Созданная запись"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /journal [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.journal.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyJournal
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

	entry, err := h.service.AddJournalEntry(r.Context(), owner, req.Text)
	if err != nil {
		log.Error("failed to add journal entry", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not add journal entry"))
		return
	}

	log.Info("journal entry added", slog.String("owner", owner))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"entry": entry,
	}))
}
