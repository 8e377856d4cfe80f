package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	amqp "github.com/rabbitmq/amqp091-go"

	"booking_backend/internal/platform/config"
	infrahttp "booking_backend/internal/platform/http"
	"booking_backend/internal/platform/logger"
	"booking_backend/internal/platform/mailer"
)

// prefetch bounds unacked deliveries per worker.
const prefetch = 16

func main() {
	if err := run(); err != nil {
		slog.Error("mail worker stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.Setup(cfg.AppName+"-mailworker", cfg.Env, cfg.LogLevel)

	if cfg.Mail.RabbitMQURL == "" || cfg.Mail.RabbitMQQueue == "" {
		return errors.New("RabbitMQ not configured")
	}

	var sender mailer.Sender
	if cfg.Mail.MailgunConfigured() {
		sender = mailer.NewMailgun(cfg.Mail.MailgunDomain, cfg.Mail.MailgunAPIKey, cfg.Mail.MailgunSender,
			cfg.Mail.MailgunAPIBase, infrahttp.NewHTTPClient(cfg.Mail.SendTimeout))
	} else {
		log.Warn("Mailgun not configured; queued emails will only be logged")
		sender = mailer.NewLogSender(log)
	}

	conn, err := amqp.Dial(cfg.Mail.RabbitMQURL)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(prefetch, 0, false); err != nil {
		return err
	}
	if err := mailer.DeclareQueue(ch, cfg.Mail.RabbitMQQueue); err != nil {
		return err
	}

	deliveries, err := ch.Consume(cfg.Mail.RabbitMQQueue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("mail worker listening", "queue", cfg.Mail.RabbitMQQueue)
	mailer.NewWorker(sender, cfg.Mail.SendTimeout).Run(ctx, deliveries)
	log.Info("mail worker exited")
	return nil
}
