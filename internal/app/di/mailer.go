package di

import (
	"fmt"
	"log/slog"

	"booking_backend/internal/platform/config"
	infrahttp "booking_backend/internal/platform/http"
	"booking_backend/internal/platform/mailer"
)

// NewMailSender builds the Sender selected by cfg.Transport.
// The returned close func releases broker resources and is never nil.
func NewMailSender(cfg config.Mail, logger *slog.Logger) (mailer.Sender, func(), error) {
	noop := func() {}

	switch cfg.Transport {
	case config.MailTransportMailgun:
		if !cfg.MailgunConfigured() {
			return nil, noop, fmt.Errorf("mail transport %q requires MAILGUN_DOMAIN, MAILGUN_API_KEY and MAILGUN_SENDER", cfg.Transport)
		}
		client := infrahttp.NewHTTPClient(cfg.SendTimeout)
		return mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender, cfg.MailgunAPIBase, client), noop, nil
	case config.MailTransportQueue:
		q, err := mailer.DialQueue(cfg.RabbitMQURL, cfg.RabbitMQQueue)
		if err != nil {
			return nil, noop, err
		}
		return q, q.Close, nil
	case config.MailTransportLog, "":
		return mailer.NewLogSender(logger), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown mail transport %q", cfg.Transport)
	}
}
