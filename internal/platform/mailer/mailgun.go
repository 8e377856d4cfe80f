package mailer

import (
	"context"
	"fmt"
	"net/http"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

const mailgunTimeout = 10 * time.Second

// Mailgun sends email through the Mailgun HTTP API.
type Mailgun struct {
	client *mg.MailgunImpl
	sender string
}

// NewMailgun creates a Mailgun sender. apiBase may be empty for the default US region.
// httpClient may be nil to keep the library default.
func NewMailgun(domain, apiKey, sender, apiBase string, httpClient *http.Client) *Mailgun {
	client := mg.NewMailgun(domain, apiKey)
	if apiBase != "" {
		client.SetAPIBase(apiBase)
	}
	if httpClient != nil {
		client.SetClient(httpClient)
	}
	return &Mailgun{client: client, sender: sender}
}

// Send sends an email via Mailgun. html is optional; if provided it will be used as HTML body.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	msg := m.client.NewMessage(m.sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}

	c, cancel := context.WithTimeout(ctx, mailgunTimeout)
	defer cancel()

	if _, _, err := m.client.Send(c, msg); err != nil {
		return fmt.Errorf("mailgun send: %w", err)
	}
	return nil
}
