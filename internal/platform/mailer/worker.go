package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrBadJob marks a message that can never be delivered and should be dropped.
var ErrBadJob = errors.New("malformed email job")

// Worker drains EmailJobs from RabbitMQ and hands them to a Sender.
type Worker struct {
	sender  Sender
	timeout time.Duration
}

// NewWorker creates a Worker. Each delivery is bounded by timeout.
func NewWorker(sender Sender, timeout time.Duration) *Worker {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Worker{sender: sender, timeout: timeout}
}

// Handle decodes and sends one job body.
// Errors wrapping ErrBadJob are permanent; others may succeed on retry.
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: %v", ErrBadJob, err)
	}
	if err := job.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrBadJob, err)
	}

	c, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	return w.sender.Send(c, job.To, job.Subject, job.Text, job.HTML)
}

// acknowledger is the subset of amqp.Delivery used to settle a message.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// settle acks successful deliveries, drops bad jobs and requeues transient failures.
func (w *Worker) settle(ctx context.Context, msg acknowledger, body []byte) {
	err := w.Handle(ctx, body)
	switch {
	case err == nil:
		_ = msg.Ack(false)
	case errors.Is(err, ErrBadJob):
		slog.Warn("dropping email job", "error", err)
		_ = msg.Nack(false, false)
	default:
		slog.Error("email send failed, requeueing", "error", err)
		_ = msg.Nack(false, true)
	}
}

// Run consumes deliveries until ctx is cancelled or the channel closes.
func (w *Worker) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-deliveries:
			if !ok {
				return
			}
			w.settle(ctx, &msg, msg.Body)
		}
	}
}
