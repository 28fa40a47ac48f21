// Package reliefanchor предоставляет маршруты приложения.
package reliefanchor

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/relief-anchor/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/relief-anchor/internal/http/handlers/auth/logout"
	chatclear "github.com/magabrotheeeer/relief-anchor/internal/http/handlers/chat/clear"
	"github.com/magabrotheeeer/relief-anchor/internal/http/handlers/chat/history"
	"github.com/magabrotheeeer/relief-anchor/internal/http/handlers/chat/send"
	"github.com/magabrotheeeer/relief-anchor/internal/http/handlers/health"
	journalcreate "github.com/magabrotheeeer/relief-anchor/internal/http/handlers/journal/create"
	journallist "github.com/magabrotheeeer/relief-anchor/internal/http/handlers/journal/list"
	moodcreate "github.com/magabrotheeeer/relief-anchor/internal/http/handlers/mood/create"
	moodlist "github.com/magabrotheeeer/relief-anchor/internal/http/handlers/mood/list"
	"github.com/magabrotheeeer/relief-anchor/internal/http/handlers/payment/checkout"
	"github.com/magabrotheeeer/relief-anchor/internal/http/handlers/payment/confirm"
	privacyclear "github.com/magabrotheeeer/relief-anchor/internal/http/handlers/privacy/clear"
	"github.com/magabrotheeeer/relief-anchor/internal/http/handlers/recovery/mint"
	"github.com/magabrotheeeer/relief-anchor/internal/http/handlers/recovery/redeem"
	"github.com/magabrotheeeer/relief-anchor/internal/http/handlers/user/read"
	"github.com/magabrotheeeer/relief-anchor/internal/http/handlers/user/update"
	"github.com/magabrotheeeer/relief-anchor/internal/http/middlewarectx"
	"github.com/magabrotheeeer/relief-anchor/internal/lib/caldate"
	jwtlib "github.com/magabrotheeeer/relief-anchor/internal/lib/jwt"
	"github.com/magabrotheeeer/relief-anchor/internal/paymentprovider"
	chatservice "github.com/magabrotheeeer/relief-anchor/internal/services/chat"
	"github.com/magabrotheeeer/relief-anchor/internal/services/entitlement"
	"github.com/magabrotheeeer/relief-anchor/internal/services/recovery"
	"github.com/magabrotheeeer/relief-anchor/internal/services/session"
	"github.com/magabrotheeeer/relief-anchor/internal/services/wellness"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, maker jwtlib.Maker, clock caldate.Clock,
	sessions *session.Service, entitlements *entitlement.Service, wellnessService *wellness.Service,
	recoveryService *recovery.Service, chatService *chatservice.Service, orders *paymentprovider.Client) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/login", login.New(logger, sessions, maker).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(maker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/logout", logout.New(logger, sessions).ServeHTTP)
			r.Get("/user", read.New(logger, entitlements).ServeHTTP)
			r.Patch("/user", update.New(logger, entitlements).ServeHTTP)
			r.Get("/user/recovery-token", mint.New(logger, recoveryService).ServeHTTP)
			r.Post("/user/restore", redeem.New(logger, recoveryService).ServeHTTP)
			r.Post("/chat", send.New(logger, chatService).ServeHTTP)
			r.Get("/chat/history", history.New(logger, wellnessService).ServeHTTP)
			r.Delete("/chat/history", chatclear.New(logger, wellnessService).ServeHTTP)
			r.Post("/moods", moodcreate.New(logger, wellnessService).ServeHTTP)
			r.Get("/moods", moodlist.New(logger, wellnessService).ServeHTTP)
			r.Post("/journal", journalcreate.New(logger, wellnessService).ServeHTTP)
			r.Get("/journal", journallist.New(logger, wellnessService).ServeHTTP)
			r.Post("/payment/checkout", checkout.New(logger, entitlements, orders).ServeHTTP)
			r.Post("/payment/confirm", confirm.New(logger, entitlements, clock).ServeHTTP)
			r.Delete("/private-data", privacyclear.New(logger, wellnessService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
