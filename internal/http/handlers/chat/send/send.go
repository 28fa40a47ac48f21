// Package send реализует HTTP-обработчик отправки сообщения компаньону.
//
// Бесплатный тариф ограничен суточным числом сообщений: исчерпанный лимит
// возвращается как 429, а не как ошибка сервера.
package send

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/relief-anchor/internal/http/middlewarectx"
	"github.com/magabrotheeeer/relief-anchor/internal/http/response"
	"github.com/magabrotheeeer/relief-anchor/internal/lib/sl"
	"github.com/magabrotheeeer/relief-anchor/internal/models"
	"github.com/magabrotheeeer/relief-anchor/internal/services/entitlement"
)

// Handler обрабатывает HTTP-запросы на отправку сообщения.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс переписки с компаньоном.
type Service interface {
	SendMessage(ctx context.Context, ownerID, text string) (*models.ChatMessage, error)
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
// @Summary Отправить сообщение компаньону
// @Description Отправляет сообщение и возвращает ответ компаньона. Бесплатный тариф ограничен пятью сообщениями в сутки.
// @Tags Chat
// @Accept  json
// @Produce  json
// @Param request body models.DummyChat true "Сообщение пользователя"
// @Success 200 {object} map[string]any "Ответ компаньона"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 429 {object} response.ErrorResponse "Суточный лимит исчерпан"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /chat [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.chat.send"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyChat
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

	message, err := h.service.SendMessage(r.Context(), owner, req.Message)
	if err != nil {
		if errors.Is(err, entitlement.ErrDailyLimitReached) {
			log.Info("daily message limit reached", slog.String("owner", owner))
			w.WriteHeader(http.StatusTooManyRequests)
			render.JSON(w, r, response.Error("daily message limit reached"))
			return
		}
		log.Error("failed to send message", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not send message"))
		return
	}

	log.Info("message sent", slog.String("owner", owner))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": message,
	}))
}
