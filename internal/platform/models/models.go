package models

import (
	"encoding/json"
	"time"
)

// Tenant is a business the system routes leads to and sends outreach for.
// Rows are created by seeding or admin tooling; the ingestion pipeline
// only reads them.
type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	FromEmail string    `json:"from_email"`
	Timezone  string    `json:"timezone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AccountMapping binds an external Angi account id to a tenant. At most
// one active mapping exists per account id (unique constraint).
type AccountMapping struct {
	ID          string `json:"id"`
	ALAccountID string `json:"al_account_id"`
	TenantID    string `json:"tenant_id"`
	Active      bool   `json:"active"`
}

// Lead is one ingested webhook event, created exactly once per
// correlation id and never mutated afterward.
type Lead struct {
	ID            string    `json:"id"`
	Source        string    `json:"source"`
	CorrelationID string    `json:"correlation_id"`
	ALAccountID   string    `json:"al_account_id,omitempty"`
	TenantID      string    `json:"tenant_id"`
	FirstName     string    `json:"first_name,omitempty"`
	LastName      string    `json:"last_name,omitempty"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Category      string    `json:"category,omitempty"`
	Urgency       string    `json:"urgency,omitempty"`
	Description   string    `json:"description,omitempty"`
	City          string    `json:"city,omitempty"`
	State         string    `json:"state,omitempty"`
	PostalCode    string    `json:"postal_code,omitempty"`
	RawPayload    string    `json:"raw_payload,omitempty"`
	ReceivedAt    time.Time `json:"received_at"`
}

// Outreach message delivery statuses.
const (
	OutreachStatusSent     = "sent"
	OutreachStatusMockSent = "mock_sent"
	OutreachStatusFailed   = "failed"
)

// OutreachMessage records one outbound email attempt for a lead.
type OutreachMessage struct {
	ID                string     `json:"id"`
	LeadID            string     `json:"lead_id"`
	TenantID          string     `json:"tenant_id"`
	Channel           string     `json:"channel"`
	ToAddress         string     `json:"to_address"`
	FromAddress       string     `json:"from_address"`
	Subject           string     `json:"subject"`
	Body              string     `json:"body"`
	Status            string     `json:"status"`
	ProviderMessageID string     `json:"provider_message_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	SentAt            *time.Time `json:"sent_at,omitempty"`
}

// Pipeline event types, in emission order for a new lead.
const (
	EventReceived        = "received"
	EventMapped          = "mapped"
	EventMappedToDefault = "mapped_to_default"
	EventEmailQueued     = "email_queued"
	EventEmailSent       = "email_sent"
	EventEmailFailed     = "email_failed"
)

// LeadEvent is an append-only audit record of a pipeline milestone.
// Seq is assigned by the database and fixes the order events were
// written in, independent of timestamp granularity.
type LeadEvent struct {
	ID        string    `json:"id"`
	Seq       int64     `json:"seq"`
	LeadID    string    `json:"lead_id"`
	TenantID  string    `json:"tenant_id"`
	EventType string    `json:"event_type"`
	EventTS   time.Time `json:"event_ts"`
	Meta      string    `json:"meta,omitempty"`
}

// MetaString serializes event metadata to TEXT for storage. Empty map or
// nil yields an empty string.
func MetaString(meta map[string]string) string {
	if len(meta) == 0 {
		return ""
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return ""
	}
	return string(b)
}
