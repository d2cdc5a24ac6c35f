// Package notifier собирает приложение рассылки уведомлений: подключение
// к RabbitMQ, SMTP транспорт и потребитель очереди активаций.
package notifier

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/content-paywall/internal/config"
	"github.com/magabrotheeeer/content-paywall/internal/lib/smtp"
	"github.com/magabrotheeeer/content-paywall/internal/rabbitmq"
	notifierservice "github.com/magabrotheeeer/content-paywall/internal/services/notifier"
)

// App инкапсулирует ресурсы приложения уведомлений.
type App struct {
	conn    *amqp.Connection
	ch      *amqp.Channel
	service *notifierservice.NotifierService
	logger  *slog.Logger
}

// New создает приложение уведомлений.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitConnectionString, 5, 3*time.Second)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)
	service := notifierservice.New(transport, logger)

	return &App{
		conn:    conn,
		ch:      ch,
		service: service,
		logger:  logger,
	}, nil
}

// Run запускает потребителя очереди активаций и ждет отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.ActivatedQueue, a.service.SendActivatedNotice)
	if err != nil {
		a.logger.Error("failed to start activated queue consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("notifier service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}
	return nil
}
