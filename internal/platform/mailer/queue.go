package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Content is rendered before publishing, so the worker only delivers it.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text,omitempty"`
	HTML    string `json:"html,omitempty"`
}

// Validate reports whether the job can be delivered.
func (j EmailJob) Validate() error {
	if j.To == "" {
		return errors.New("email job has no recipient")
	}
	if j.Text == "" && j.HTML == "" {
		return errors.New("email job has no body")
	}
	return nil
}

// publisher is the subset of *amqp.Channel used for publishing.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// QueueSender implements Sender by enqueueing an EmailJob for cmd/mailworker.
type QueueSender struct {
	conn  *amqp.Connection
	ch    publisher
	queue string
	now   func() time.Time
}

// DialQueue connects to RabbitMQ and declares the durable email queue.
func DialQueue(url, queue string) (*QueueSender, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if err := DeclareQueue(ch, queue); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &QueueSender{conn: conn, ch: ch, queue: queue, now: time.Now}, nil
}

// DeclareQueue declares the durable queue shared by publisher and worker.
func DeclareQueue(ch *amqp.Channel, queue string) error {
	_, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("queue declare %s: %w", queue, err)
	}
	return nil
}

// Send publishes the message as a persistent EmailJob.
func (q *QueueSender) Send(ctx context.Context, to, subject, text, html string) error {
	job := EmailJob{To: to, Subject: subject, Text: text, HTML: html}
	if err := job.Validate(); err != nil {
		return err
	}

	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal email job: %w", err)
	}

	err = q.ch.PublishWithContext(ctx,
		"",      // default exchange
		q.queue, // routing key = queue
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    q.now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish email job: %w", err)
	}
	return nil
}

// Close releases the channel and connection.
func (q *QueueSender) Close() {
	if q == nil {
		return
	}
	if ch, ok := q.ch.(*amqp.Channel); ok && ch != nil {
		_ = ch.Close()
	}
	if q.conn != nil {
		_ = q.conn.Close()
	}
}
