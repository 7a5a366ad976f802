package infra

import (
	"fmt"
	"net/smtp"

	"github.com/naimlawani01/facturerapide-api/internal/config"

	"github.com/jordan-wright/email"
	"github.com/rs/zerolog/log"
)

// Mailer wraps SMTP configuration for sending emails with PDF attachments.
// Delivery is strictly best-effort: a missing configuration or an SMTP error
// degrades to "not sent" (false) — it never propagates as an operation
// failure. A circuit breaker fast-fails sends while the relay is down.
type Mailer struct {
	host     string
	port     int
	user     string
	password string
	from     string
	addr     string
	breaker  *CircuitBreaker
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.EmailFrom,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		breaker:  NewCircuitBreaker(DefaultCBConfig()),
	}
}

// IsConfigured reports whether SMTP credentials are present.
func (m *Mailer) IsConfigured() bool {
	return m.user != "" && m.password != ""
}

// BreakerState exposes the SMTP circuit breaker state for the health endpoint.
func (m *Mailer) BreakerState() CBState {
	return m.breaker.State()
}

// Send delivers an email, optionally attaching a PDF. Returns true only when
// the relay accepted the message.
func (m *Mailer) Send(to, subject, textBody, htmlBody, pdfPath string) bool {
	if !m.IsConfigured() {
		log.Warn().Str("to", to).Msg("mailer: SMTP not configured — message not sent")
		return false
	}

	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(textBody)
	if htmlBody != "" {
		e.HTML = []byte(htmlBody)
	}

	if pdfPath != "" {
		if _, err := e.AttachFile(pdfPath); err != nil {
			log.Error().Err(err).Str("pdf", pdfPath).Msg("mailer: attach PDF")
			return false
		}
	}

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	err := m.breaker.Execute(func() error {
		return e.Send(m.addr, auth)
	})
	if err != nil {
		log.Error().Err(err).Str("to", to).Msg("mailer: send failed")
		return false
	}
	return true
}
