// Package login реализует HTTP-обработчик для открытия сессии профиля.
//
// В нём выполняется декодирование JSON, валидация почты, делегирование входа
// сервису сессий и выпуск JWT. Вход всегда успешен для корректной почты:
// профиль создаётся лениво при первом обращении, пароля в приложении нет.
package login

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/relief-anchor/internal/http/response"
	jwtlib "github.com/magabrotheeeer/relief-anchor/internal/lib/jwt"
	"github.com/magabrotheeeer/relief-anchor/internal/lib/sl"
	"github.com/magabrotheeeer/relief-anchor/internal/models"
)

// Handler обрабатывает HTTP-запросы на вход в профиль.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис сессий
	maker    jwtlib.Maker        // Генератор токенов сессии
	validate *validator.Validate // Валидатор для проверки входных данных
}

// Service описывает интерфейс бизнес-логики сессий.
type Service interface {
	Login(ctx context.Context, ownerID string) (*models.EntitlementRecord, error)
}

// New создает новый Handler с переданными логгером, сервисом и генератором токенов.
func New(log *slog.Logger, service Service, maker jwtlib.Maker) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		maker:    maker,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход в профиль
// @Description Открывает сессию для профиля по почте. Запись о правах создаётся при первом входе. Возвращает JWT и запись профиля.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.DummyLogin true "Почта профиля"
// @Success 200 {object} map[string]any "Успешный вход"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyLogin
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

	record, err := h.service.Login(r.Context(), req.Email)
	if err != nil {
		log.Error("login failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not open session"))
		return
	}

	token, err := h.maker.GenerateToken(record.OwnerID)
	if err != nil {
		log.Error("failed to generate token", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not open session"))
		return
	}

	log.Info("login success", slog.String("owner", record.OwnerID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"token": token,
		"user":  record,
	}))
}
