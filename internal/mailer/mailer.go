package mailer

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"naarad-gateway/internal/config"
)

// Sender is the delivery transport boundary.
type Sender interface {
	Send(to, subject, body string) error
}

// ErrMissingCredentials reports a configuration problem. It is never
// downgraded to a failed-delivery status.
var ErrMissingCredentials = errors.New("SMTP_USER and SMTP_PASSWORD must be set")

// Mailer sends plain-text mail over SMTP with STARTTLS. Field values override
// the environment-derived config they were built from.
type Mailer struct {
	Server   string
	Port     int
	User     string
	Password string
	From     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		Server:   cfg.SMTPServer,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.EmailFrom,
	}
}

func (m *Mailer) Send(to, subject, body string) error {
	if m.User == "" || m.Password == "" {
		return ErrMissingCredentials
	}

	from := m.From
	if from == "" {
		from = m.User
	}

	addr := fmt.Sprintf("%s:%d", m.Server, m.Port)
	auth := smtp.PlainAuth("", m.User, m.Password, m.Server)
	return smtp.SendMail(addr, auth, from, []string{to}, buildMessage(from, to, subject, body))
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
