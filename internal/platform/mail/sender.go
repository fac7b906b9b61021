package mail

import (
	"context"

	"github.com/rs/zerolog/log"
	"knockknock/internal/platform/config"
)

// MockMessageID is the sentinel provider id the console sender reports.
// The pipeline uses it to store outreach rows as mock_sent instead of
// sent.
const MockMessageID = "mock_sent"

// Sender delivers one email. On success it returns the provider-assigned
// message id; on failure the error describes the delivery problem and the
// id is empty.
type Sender interface {
	Send(ctx context.Context, to, from, subject, body string) (string, error)
}

// NewSender picks the SMTP sender when configured, otherwise the console
// fallback.
func NewSender(cfg config.EmailConfig) Sender {
	if cfg.Provider == "smtp" && cfg.SMTP.Host != "" {
		return NewSMTPSender(cfg.SMTP)
	}
	return &ConsoleSender{}
}

// ConsoleSender logs the message instead of delivering it. It always
// succeeds and reports the mock sentinel id.
type ConsoleSender struct{}

func (s *ConsoleSender) Send(ctx context.Context, to, from, subject, body string) (string, error) {
	log.Info().
		Str("to", to).
		Str("from", from).
		Str("subject", subject).
		Str("body", body).
		Msg("console email fallback")
	return MockMessageID, nil
}
