package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	htmltpl "html/template"
	texttpl "text/template"
	"time"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	verifyHTML = htmltpl.Must(htmltpl.ParseFS(templateFS, "templates/verify_email.html.tmpl"))
	verifyText = texttpl.Must(texttpl.ParseFS(templateFS, "templates/verify_email.txt.tmpl"))
)

type verifyEmailData struct {
	AppName   string
	FirstName string
	Code      string
	ExpiresIn string
}

// VerificationSender renders the verification email and passes it to a Sender.
type VerificationSender struct {
	sender  Sender
	appName string
}

// NewVerificationSender creates a VerificationSender branded with appName.
func NewVerificationSender(sender Sender, appName string) *VerificationSender {
	return &VerificationSender{sender: sender, appName: appName}
}

// SendVerificationCode emails code to the new account holder.
func (v *VerificationSender) SendVerificationCode(ctx context.Context, to, firstName, code string, ttl time.Duration) error {
	data := verifyEmailData{
		AppName:   v.appName,
		FirstName: firstName,
		Code:      code,
		ExpiresIn: humanizeDuration(ttl),
	}

	var html, text bytes.Buffer
	if err := verifyHTML.Execute(&html, data); err != nil {
		return fmt.Errorf("render verification html: %w", err)
	}
	if err := verifyText.Execute(&text, data); err != nil {
		return fmt.Errorf("render verification text: %w", err)
	}

	subject := fmt.Sprintf("%s - Verify Your Email", v.appName)
	return v.sender.Send(ctx, to, subject, text.String(), html.String())
}

// humanizeDuration renders whole hours or minutes, e.g. "24 hours".
func humanizeDuration(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute:
		return plural(int(d/time.Minute), "minute")
	default:
		return plural(int(d/time.Second), "second")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
