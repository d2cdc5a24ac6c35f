// Package notifier реализует рассылку писем об активации прав доступа.
// Сервис потребляет события из очереди уведомлений и отправляет письмо
// покупателю через SMTP транспорт.
package notifier

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/content-paywall/internal/lib/sl"
	"github.com/magabrotheeeer/content-paywall/internal/lib/smtp"
	"github.com/magabrotheeeer/content-paywall/internal/services/access"
)

// NotifierService отправляет почтовые уведомления об активации доступа.
type NotifierService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// New создает новый экземпляр NotifierService.
func New(transport smtp.TransportInterface, log *slog.Logger) *NotifierService {
	return &NotifierService{transport: transport, log: log}
}

// SendActivatedNotice разбирает событие активации и отправляет письмо покупателю.
func (s *NotifierService) SendActivatedNotice(body []byte) error {
	var event access.ActivatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	if event.Email == "" {
		// Без адреса письмо не отправить; событие не возвращается в очередь.
		s.log.Warn("activation event without email, skipping",
			slog.String("user_uid", event.UserUID))
		return nil
	}

	to := []string{event.Email}
	var subject, bodyText string
	switch event.TargetKind {
	case "service":
		subject = "Подписка на сервис активирована"
		bodyText = fmt.Sprintf("Здравствуйте, %s!\n\nВаша подписка на сервис активирована. Теперь вам доступна публикация платных записей.\n\nСумма платежа: %.2f руб.",
			event.Username, float64(event.Amount)/100)
	default:
		subject = "Доступ к записи открыт"
		bodyText = fmt.Sprintf("Здравствуйте, %s!\n\nОплата прошла успешно, доступ к записи №%d открыт.\n\nСумма платежа: %.2f руб.",
			event.Username, event.ContentID, float64(event.Amount)/100)
	}

	return s.sendEmail(to, subject, bodyText)
}

func (s *NotifierService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.From(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.From()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.From(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}
	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
