// Package email sends transactional mail over SMTP.
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"feedbacknexus/internal/config"
	"feedbacknexus/internal/middleware"
	"feedbacknexus/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const verificationTemplate = `<!DOCTYPE html>
<html>
  <body style="font-family: Helvetica, Arial, sans-serif; color: #222;">
    <h2>Hello {{.Username}},</h2>
    <p>Thanks for signing up for Feedback Nexus. Use the code below to verify your email address:</p>
    <p style="font-size: 24px; font-weight: bold; letter-spacing: 4px;">{{.Code}}</p>
    <p>The code expires in one hour. If you did not create an account, you can ignore this email.</p>
  </body>
</html>`

// Mailer sends verification emails. When the SMTP settings are incomplete it
// disables itself and sends become no-ops, so local development works
// without a relay.
type Mailer struct {
	host     string
	port     string
	username string
	password string
	from     string
	enabled  bool

	verifyTmpl *template.Template
}

// NewMailer builds a Mailer from the SMTP configuration.
func NewMailer(cfg *config.Config) *Mailer {
	enabled := cfg.SMTPHost != "" && cfg.SMTPPort != "" && cfg.SMTPUser != "" && cfg.SMTPPass != "" && cfg.SMTPFrom != ""
	if !enabled {
		middleware.Logger.Warn("Mailer disabled: missing SMTP configuration")
	}

	return &Mailer{
		host:       cfg.SMTPHost,
		port:       cfg.SMTPPort,
		username:   cfg.SMTPUser,
		password:   cfg.SMTPPass,
		from:       cfg.SMTPFrom,
		enabled:    enabled,
		verifyTmpl: template.Must(template.New("verification").Parse(verificationTemplate)),
	}
}

// Enabled reports whether the mailer has a working SMTP configuration.
func (m *Mailer) Enabled() bool {
	return m.enabled
}

// SendVerificationEmail delivers the one-time verification code. Delivery
// happens on a background goroutine; signup latency does not wait on the
// relay.
func (m *Mailer) SendVerificationEmail(to, username, code string) {
	if !m.enabled {
		return
	}

	var buf bytes.Buffer
	if err := m.verifyTmpl.Execute(&buf, map[string]string{
		"Username": username,
		"Code":     code,
	}); err != nil {
		middleware.Logger.Error("Failed to render verification email", "error", err)
		return
	}

	go m.send(to, "Feedback Nexus verification code", buf.String())
}

func (m *Mailer) send(to, subject, body string) {
	span, _ := observability.NewSpan(context.Background(), "email.send",
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.AddAttributes(
		attribute.String("email.subject", subject),
		attribute.String("smtp.host", m.host),
	)

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	msg := []byte(fmt.Sprintf(
		"To: %s\r\nFrom: Feedback Nexus <%s>\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		to, m.from, subject, body,
	))

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, msg); err != nil {
		span.SetError(err)
		middleware.Logger.Error("Failed to send email", "to", to, "subject", subject, "error", err)
		return
	}
	middleware.Logger.Info("Email sent", "to", to, "subject", subject)
}
