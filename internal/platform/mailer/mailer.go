// Package mailer delivers transactional email: directly through Mailgun, via a
// RabbitMQ queue drained by cmd/mailworker, or to the log in development.
package mailer

import (
	"context"
	"log/slog"
)

// Sender delivers one message. html may be empty.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// LogSender writes messages to the structured log instead of delivering them.
// Used when no mail transport is configured.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender returns a LogSender writing to logger, or slog.Default() when nil.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, to, subject, text, _ string) error {
	s.logger.InfoContext(ctx, "email not sent (no transport configured)",
		"to", to,
		"subject", subject,
		"body", text,
	)
	return nil
}
