package mail

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
	"knockknock/internal/platform/config"
)

type SMTPSender struct {
	host     string
	port     int
	username string
	password string
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
	}
}

func (s *SMTPSender) Send(ctx context.Context, to, from, subject, body string) (string, error) {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	if err := d.DialAndSend(m); err != nil {
		return "", fmt.Errorf("smtp send failed: %w", err)
	}

	// SMTP has no provider message id to hand back; synthesize one so
	// the outreach row still carries a delivery reference.
	return "smtp_" + uuid.New().String(), nil
}
