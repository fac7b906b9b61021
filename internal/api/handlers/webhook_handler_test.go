package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"knockknock/internal/api/middleware"
	"knockknock/internal/engine/ingest"
	"knockknock/internal/platform/mail"
	"knockknock/internal/platform/repositories"
	"knockknock/internal/platform/textgen"
)

const testAPIKey = "secret-webhook-key"

func setupHandler(t *testing.T) (http.HandlerFunc, *sql.DB) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	schema := `
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
		tenant_id TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT 1
	);
	CREATE TABLE leads (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL DEFAULT 'angi',
		correlation_id TEXT NOT NULL UNIQUE,
		al_account_id TEXT,
		tenant_id TEXT NOT NULL,
		first_name TEXT, last_name TEXT, email TEXT, phone TEXT,
		category TEXT, urgency TEXT, description TEXT,
		city TEXT, state TEXT, postal_code TEXT,
		raw_payload TEXT,
		received_at TIMESTAMP NOT NULL
	);
	CREATE TABLE outreach_messages (
		id TEXT PRIMARY KEY,
		lead_id TEXT NOT NULL, tenant_id TEXT NOT NULL,
		channel TEXT NOT NULL DEFAULT 'email',
		to_address TEXT NOT NULL, from_address TEXT NOT NULL,
		subject TEXT NOT NULL, body TEXT NOT NULL,
		status TEXT NOT NULL, provider_message_id TEXT,
		created_at TIMESTAMP NOT NULL, sent_at TIMESTAMP
	);
	CREATE TABLE lead_events (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		lead_id TEXT NOT NULL, tenant_id TEXT NOT NULL,
		event_type TEXT NOT NULL, event_ts TIMESTAMP NOT NULL,
		meta TEXT
	);
	`
	_, err = db.Exec(schema)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO tenants (id, name, from_email, created_at) VALUES ($1, $2, $3, $4)`,
		"tenant_default", "tenant_default", "noreply@example.com", time.Now().UTC())
	require.NoError(t, err)

	tenantRepo := repositories.NewTenantRepository(db)
	mappingRepo := repositories.NewAccountMappingRepository(db)
	leadRepo := repositories.NewLeadRepository(db)
	eventRepo := repositories.NewLeadEventRepository(db)
	outreachRepo := repositories.NewOutreachRepository(db)

	service := ingest.NewService(leadRepo, eventRepo, outreachRepo,
		ingest.NewResolver(tenantRepo, mappingRepo),
		ingest.NewComposer(textgen.Disabled{}),
		&mail.ConsoleSender{})

	handler := NewWebhookHandler(service)
	apiKeyMid := middleware.NewAPIKeyMiddleware(testAPIKey)
	return apiKeyMid.Handle(handler.HandleLead), db
}

func postLead(handler http.HandlerFunc, apiKey, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/webhooks/angi/leads", strings.NewReader(body))
	if apiKey != "" {
		req.Header.Set("X-API-KEY", apiKey)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestWebhook_RejectsMissingAPIKey(t *testing.T) {
	handler, _ := setupHandler(t)

	rr := postLead(handler, "", `{"CorrelationId":"lead-001"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = postLead(handler, "wrong-key", `{"CorrelationId":"lead-001"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestWebhook_RejectsInvalidJSON(t *testing.T) {
	handler, _ := setupHandler(t)

	rr := postLead(handler, testAPIKey, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestWebhook_RejectsMissingCorrelationID(t *testing.T) {
	handler, db := setupHandler(t)

	rr := postLead(handler, testAPIKey, `{"Email":"jane@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM leads`).Scan(&n))
	assert.Equal(t, 0, n, "invalid payloads must not reach the pipeline")
}

func TestWebhook_AcknowledgesNewLead(t *testing.T) {
	handler, db := setupHandler(t)

	rr := postLead(handler, testAPIKey, `{"CorrelationId":"lead-001","Email":"jane@example.com","FirstName":"Jane"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "<success>ok</success>", rr.Body.String())

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM leads`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestWebhook_AcknowledgesDuplicate(t *testing.T) {
	handler, db := setupHandler(t)

	body := `{"CorrelationId":"lead-002"}`
	first := postLead(handler, testAPIKey, body)
	require.Equal(t, http.StatusOK, first.Code)

	second := postLead(handler, testAPIKey, body)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "<success>ok</success>", second.Body.String())

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM leads`).Scan(&n))
	assert.Equal(t, 1, n, "duplicate submission must not create a second lead")
}

func TestWebhook_InternalErrorOnMissingDefaultTenant(t *testing.T) {
	handler, db := setupHandler(t)

	_, err := db.Exec(`DELETE FROM tenants`)
	require.NoError(t, err)

	rr := postLead(handler, testAPIKey, `{"CorrelationId":"lead-003"}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
