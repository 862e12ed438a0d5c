// Package mail delivers confirmation codes, either directly through a
// Mailer or through a RabbitMQ queue drained by the serve command.
package mail

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// Message is a plain-text email.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Mailer sends a single message.
type Mailer interface {
	Send(msg Message) error
}

// ConfirmationMessage renders the confirmation code email.
func ConfirmationMessage(from, to, code string) Message {
	return Message{
		From:    from,
		To:      to,
		Subject: "YaMDB confirmation code",
		Body: "You requested a confirmation code for a YaMDB token.\n\n" +
			"Keep it secret.\n" +
			"Your confirmation code: " + code,
	}
}

// LogMailer writes messages to the standard logger instead of sending them.
type LogMailer struct{}

func (LogMailer) Send(msg Message) error {
	log.Printf("Mail to %s from %s: %s\n%s", msg.To, msg.From, msg.Subject, msg.Body)
	return nil
}

// SMTPConfig holds the outgoing mail server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// SMTPMailer sends messages through an SMTP relay.
type SMTPMailer struct {
	cfg      SMTPConfig
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPMailer creates a new SMTPMailer. Authentication is used only when
// a username is configured.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, sendMail: smtp.SendMail}
}

func (m *SMTPMailer) Send(msg Message) error {
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	if err := m.sendMail(addr, auth, msg.From, []string{msg.To}, render(msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", msg.To, err)
	}
	return nil
}

func render(msg Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + msg.From + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return []byte(b.String())
}
