package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer delivers notification mail. Delivery failure is reported to the
// caller; whether it is raised or swallowed is the caller's policy.
type Mailer interface {
	Send(to []string, subject, body string) error
	Enabled() bool
}

// SMTPMailer sends mail through a plain-auth SMTP relay
type SMTPMailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	enabled  bool
}

// NewSMTPMailer builds a mailer from SMTP settings. The mailer is
// disabled (Send becomes a no-op) when any setting is missing, so a dev
// instance without a relay still accepts posts.
func NewSMTPMailer(host, port, username, password, from string) *SMTPMailer {
	enabled := host != "" && port != "" && username != "" && password != "" && from != ""
	return &SMTPMailer{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
		enabled:  enabled,
	}
}

// Enabled reports whether the relay is configured
func (m *SMTPMailer) Enabled() bool {
	return m.enabled
}

// Send delivers one message to the given recipients
func (m *SMTPMailer) Send(to []string, subject, body string) error {
	if !m.enabled || len(to) == 0 {
		return nil
	}

	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
	addr := fmt.Sprintf("%s:%s", m.Host, m.Port)

	msg := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-version: 1.0;\r\nContent-Type: text/plain; charset=\"UTF-8\";\r\n\r\n%s",
		strings.Join(to, ","), m.From, subject, body))

	if err := smtp.SendMail(addr, auth, m.From, to, msg); err != nil {
		return fmt.Errorf("send mail to %v: %w", to, err)
	}
	return nil
}
