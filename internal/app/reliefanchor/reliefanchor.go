// Package reliefanchor собирает приложение целиком: хранилище, блокировку,
// сервисы и HTTP-сервер. По умолчанию всё работает на одном устройстве
// с файлом sqlite и блокировкой в памяти; postgres и redis подключаются
// конфигом для self-hosted развёртываний с несколькими экземплярами.
package reliefanchor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/relief-anchor/internal/config"
	"github.com/magabrotheeeer/relief-anchor/internal/lib/caldate"
	jwtlib "github.com/magabrotheeeer/relief-anchor/internal/lib/jwt"
	"github.com/magabrotheeeer/relief-anchor/internal/lock"
	"github.com/magabrotheeeer/relief-anchor/internal/metrics"
	"github.com/magabrotheeeer/relief-anchor/internal/paymentprovider"
	"github.com/magabrotheeeer/relief-anchor/internal/services/chat"
	"github.com/magabrotheeeer/relief-anchor/internal/services/entitlement"
	"github.com/magabrotheeeer/relief-anchor/internal/services/recovery"
	"github.com/magabrotheeeer/relief-anchor/internal/services/session"
	"github.com/magabrotheeeer/relief-anchor/internal/services/wellness"
	"github.com/magabrotheeeer/relief-anchor/internal/storage"
	"github.com/magabrotheeeer/relief-anchor/internal/storage/postgresql"
	"github.com/magabrotheeeer/relief-anchor/internal/storage/sqlite"
)

// App HTTP-приложение со всеми зависимостями.
type App struct {
	server     *http.Server
	logger     *slog.Logger
	closeStore func()
}

// New собирает приложение по конфигу.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "reliefanchor.New"

	var store storage.Store
	var closeStore func()
	switch cfg.Driver {
	case "postgres":
		db, err := postgresql.New(cfg.ConnectionString)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		store = db
		closeStore = func() { _ = db.Close(context.Background()) }
	case "sqlite":
		db, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		store = db
		closeStore = func() { _ = db.Close() }
	default:
		return nil, fmt.Errorf("%s: unknown storage driver %q", op, cfg.Driver)
	}

	var locker lock.Locker
	if cfg.Addr != "" {
		redisLocker, err := lock.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			closeStore()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		locker = redisLocker
	} else {
		locker = lock.NewLocalLocker()
	}

	clock := caldate.SystemClock{}
	onRepair := func(ev entitlement.RepairEvent) {
		metrics.RecordRepairs.WithLabelValues(string(ev.Kind)).Inc()
	}

	entitlements := entitlement.New(store, locker, clock, logger, onRepair)
	wellnessService := wellness.New(store, clock, logger)
	recoveryService := recovery.New(entitlements, clock, logger)
	sessions := session.New(store, entitlements, logger)

	responder := chat.NewGPTResponder(cfg.APIKey, cfg.Model)
	chatService := chat.New(responder, entitlements, wellnessService, logger)

	orders := paymentprovider.NewClient(cfg.KeyID, cfg.KeySecret)
	maker := jwtlib.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, maker, clock,
		sessions, entitlements, wellnessService, recoveryService, chatService, orders)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:     srv,
		logger:     logger,
		closeStore: closeStore,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.closeStore()
		return err
	}
}
