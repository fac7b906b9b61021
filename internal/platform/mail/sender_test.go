package mail

import (
	"context"
	"testing"

	"knockknock/internal/platform/config"
)

func TestConsoleSender_ReportsMockSentinel(t *testing.T) {
	sender := &ConsoleSender{}

	id, err := sender.Send(context.Background(), "jane@example.com", "bob@example.com", "subject", "body")
	if err != nil {
		t.Fatalf("Console sender must never fail: %v", err)
	}
	if id != MockMessageID {
		t.Errorf("Expected sentinel %q, got %q", MockMessageID, id)
	}
}

func TestNewSender_Selection(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.EmailConfig
		wantConsole bool
	}{
		{"console provider", config.EmailConfig{Provider: "console"}, true},
		{"smtp without host", config.EmailConfig{Provider: "smtp"}, true},
		{
			"smtp configured",
			config.EmailConfig{Provider: "smtp", SMTP: config.SMTPConfig{Host: "smtp.example.com", Port: 587}},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := NewSender(tt.cfg)
			_, isConsole := sender.(*ConsoleSender)
			if isConsole != tt.wantConsole {
				t.Errorf("NewSender(%+v) console=%v, want %v", tt.cfg, isConsole, tt.wantConsole)
			}
		})
	}
}
