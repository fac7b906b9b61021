package ingest

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"knockknock/internal/platform/mail"
	"knockknock/internal/platform/repositories"
	"knockknock/internal/platform/textgen"
)

const testSchema = `
CREATE TABLE tenants (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	from_email TEXT NOT NULL,
	timezone TEXT,
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE account_mappings (
	id TEXT PRIMARY KEY,
	al_account_id TEXT NOT NULL UNIQUE,
	tenant_id TEXT NOT NULL REFERENCES tenants(id),
	active BOOLEAN NOT NULL DEFAULT 1
);
CREATE TABLE leads (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL DEFAULT 'angi',
	correlation_id TEXT NOT NULL UNIQUE,
	al_account_id TEXT,
	tenant_id TEXT NOT NULL REFERENCES tenants(id),
	first_name TEXT,
	last_name TEXT,
	email TEXT,
	phone TEXT,
	category TEXT,
	urgency TEXT,
	description TEXT,
	city TEXT,
	state TEXT,
	postal_code TEXT,
	raw_payload TEXT,
	received_at TIMESTAMP NOT NULL
);
CREATE TABLE outreach_messages (
	id TEXT PRIMARY KEY,
	lead_id TEXT NOT NULL REFERENCES leads(id),
	tenant_id TEXT NOT NULL REFERENCES tenants(id),
	channel TEXT NOT NULL DEFAULT 'email',
	to_address TEXT NOT NULL,
	from_address TEXT NOT NULL,
	subject TEXT NOT NULL,
	body TEXT NOT NULL,
	status TEXT NOT NULL,
	provider_message_id TEXT,
	created_at TIMESTAMP NOT NULL,
	sent_at TIMESTAMP
);
CREATE TABLE lead_events (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	lead_id TEXT NOT NULL REFERENCES leads(id),
	tenant_id TEXT NOT NULL REFERENCES tenants(id),
	event_type TEXT NOT NULL,
	event_ts TIMESTAMP NOT NULL,
	meta TEXT
);
`

func setupTestDB(t *testing.T, dsn string) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	if dsn == ":memory:" {
		// A second pooled connection would see an empty database.
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedTenants(t *testing.T, db *sql.DB) (bobID string) {
	t.Helper()

	now := time.Now().UTC()
	bobID = "tenant_" + uuid.New().String()

	tenants := []struct{ id, name, from string }{
		{"tenant_default", "tenant_default", "noreply@knockknock.example.com"},
		{bobID, "tenant_bob_plumbing", "bob@example.com"},
	}
	for _, tn := range tenants {
		if _, err := db.Exec(`INSERT INTO tenants (id, name, from_email, created_at) VALUES ($1, $2, $3, $4)`,
			tn.id, tn.name, tn.from, now); err != nil {
			t.Fatalf("Failed to seed tenant: %v", err)
		}
	}
	if _, err := db.Exec(`INSERT INTO account_mappings (id, al_account_id, tenant_id, active) VALUES ($1, $2, $3, $4)`,
		"map_"+uuid.New().String(), "123456", bobID, true); err != nil {
		t.Fatalf("Failed to seed mapping: %v", err)
	}
	return bobID
}

type sentMail struct {
	to, from, subject, body string
}

// fakeSender records sends. With fail set it always reports a delivery
// error; with mock set it reports the console sentinel id.
type fakeSender struct {
	sent []sentMail
	fail bool
	mock bool
}

func (s *fakeSender) Send(ctx context.Context, to, from, subject, body string) (string, error) {
	s.sent = append(s.sent, sentMail{to, from, subject, body})
	if s.fail {
		return "", errors.New("smtp connection refused")
	}
	if s.mock {
		return mail.MockMessageID, nil
	}
	return "prov-123", nil
}

func newTestService(db *sql.DB, sender mail.Sender, gen textgen.Generator) *Service {
	tenantRepo := repositories.NewTenantRepository(db)
	mappingRepo := repositories.NewAccountMappingRepository(db)
	leadRepo := repositories.NewLeadRepository(db)
	eventRepo := repositories.NewLeadEventRepository(db)
	outreachRepo := repositories.NewOutreachRepository(db)

	return NewService(leadRepo, eventRepo, outreachRepo,
		NewResolver(tenantRepo, mappingRepo),
		NewComposer(gen),
		sender)
}

func testPayload(correlationID string) *LeadPayload {
	return &LeadPayload{
		CorrelationID: correlationID,
		ALAccountID:   "123456",
		Email:         "jane@example.com",
		PhoneNumber:   "555-0100",
		FirstName:     "Jane",
		LastName:      "Doe",
		Category:      "Plumbing",
		Urgency:       "high",
		Description:   "Leaky faucet in the kitchen",
		PostalAddress: &PostalAddress{City: "Austin", State: "TX", PostalCode: "78701"},
	}
}

func eventTypes(t *testing.T, db *sql.DB, leadID string) []string {
	t.Helper()

	events, err := repositories.NewLeadEventRepository(db).ListByLead(leadID)
	if err != nil {
		t.Fatalf("Failed to list events: %v", err)
	}
	types := make([]string, len(events))
	for i, ev := range events {
		types[i] = ev.EventType
	}
	return types
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}
