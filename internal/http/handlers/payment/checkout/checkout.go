// Package checkout реализует HTTP-обработчик создания заказа на оплату премиума.
//
// Сумма и валюта берутся из прайса региона записи, клиенту они не доверяются.
// Сам платёж проходит на стороне провайдера; запись профиля меняется только
// после подтверждения.
package checkout

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
	"github.com/magabrotheeeer/relief-anchor/internal/paymentprovider"
)

// Handler обрабатывает HTTP-запросы на создание заказа оплаты.
type Handler struct {
	log          *slog.Logger
	entitlements Entitlements
	orders       Orders
}

// Entitlements описывает интерфейс доступа к записи о правах.
type Entitlements interface {
	GetRecord(ctx context.Context, ownerID string) (*models.EntitlementRecord, error)
}

// Orders описывает интерфейс платёжного провайдера.
type Orders interface {
	CreateOrder(ctx context.Context, region models.Region, receipt string) (*paymentprovider.Order, error)
}

// New создает новый Handler с переданными логгером, записями и провайдером.
func New(log *slog.Logger, entitlements Entitlements, orders Orders) *Handler {
	return &Handler{
		log:          log,
		entitlements: entitlements,
		orders:       orders,
	}
}

// ServeHTTP godoc
// @Summary Создать заказ на оплату
// @Description Создает у провайдера заказ на оплату премиума по прайсу региона профиля.
// @Tags Payment
// @Produce  json
// @Success 200 {object} map[string]any "Созданный заказ"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка провайдера или сервера"
// @Router /payment/checkout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.checkout"

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

	record, err := h.entitlements.GetRecord(r.Context(), owner)
	if err != nil {
		log.Error("failed to read record", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create payment order"))
		return
	}

	order, err := h.orders.CreateOrder(r.Context(), record.Region, record.OwnerID)
	if err != nil {
		log.Error("failed to create order", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create payment order"))
		return
	}

	log.Info("order created", slog.String("owner", owner), sl.Masked("order_id", order.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"order":   order,
		"pricing": models.PricingFor(record.Region),
	}))
}
