// Package contentpaywall собирает основное приложение: хранилище, кэш,
// платежный провайдер, очередь уведомлений, бизнес-логику и HTTP-сервер.
package contentpaywall

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/content-paywall/internal/cache"
	"github.com/magabrotheeeer/content-paywall/internal/config"
	"github.com/magabrotheeeer/content-paywall/internal/lib/jwt"
	"github.com/magabrotheeeer/content-paywall/internal/metrics"
	"github.com/magabrotheeeer/content-paywall/internal/migrations"
	"github.com/magabrotheeeer/content-paywall/internal/paymentprovider"
	"github.com/magabrotheeeer/content-paywall/internal/rabbitmq"
	accessservice "github.com/magabrotheeeer/content-paywall/internal/services/access"
	authservice "github.com/magabrotheeeer/content-paywall/internal/services/auth"
	contentservice "github.com/magabrotheeeer/content-paywall/internal/services/content"
	"github.com/magabrotheeeer/content-paywall/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и ресурсы основного приложения.
type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *repository.Storage
	rabbitConn *amqp.Connection
}

// New создает основное приложение: подключает базу, выполняет миграции,
// инициализирует Redis, RabbitMQ, платежного провайдера и сервисы.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	rabbitConn, err := rabbitmq.Connect(cfg.RabbitConnectionString, 5, 3*time.Second)
	if err != nil {
		return nil, err
	}
	rabbitCh, err := rabbitmq.SetupChannel(rabbitConn)
	if err != nil {
		return nil, err
	}
	publisher := rabbitmq.NewNotificationPublisher(rabbitCh)

	metrics.MustRegister()

	providerClient := paymentprovider.NewClient(cfg.Stripe)
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.New(db, jwtMaker)
	contentService := contentservice.New(db, cacheRedis, logger)
	accessService := accessservice.New(db, providerClient, publisher, cfg.SubscriptionPrice, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db, authService, contentService, accessService, cfg.WebhookSecret)

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
		db:         db,
		rabbitConn: rabbitConn,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
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
		if closeErr := a.rabbitConn.Close(); closeErr != nil {
			a.logger.Error("failed to close rabbitmq connection", slog.Any("error", closeErr))
		}
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", slog.Any("error", closeErr))
		}
		return err
	}
}
