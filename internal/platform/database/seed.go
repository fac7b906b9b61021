package database

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultTenantName is the tenant leads fall back to when no active
// account mapping matches. Seeding must create it before the webhook is
// ever invoked.
const DefaultTenantName = "tenant_default"

// SeedDemoData creates the default tenant, two demo tenants, and their
// account mappings. It is a no-op when any tenant already exists.
func SeedDemoData(db *sql.DB) error {
	var existing string
	err := db.QueryRow(`SELECT id FROM tenants LIMIT 1`).Scan(&existing)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return err
	}

	now := time.Now().UTC()
	bobID := "tenant_" + uuid.New().String()
	aliceID := "tenant_" + uuid.New().String()

	tenants := []struct {
		id, name, fromEmail, timezone string
	}{
		{DefaultTenantName, DefaultTenantName, "noreply@knockknock.example.com", "America/New_York"},
		{bobID, "tenant_bob_plumbing", "bob@example.com", "America/New_York"},
		{aliceID, "tenant_alice_hvac", "alice@example.com", "America/New_York"},
	}
	for _, t := range tenants {
		_, err := db.Exec(`
			INSERT INTO tenants (id, name, from_email, timezone, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, t.id, t.name, t.fromEmail, t.timezone, now)
		if err != nil {
			return err
		}
	}

	mappings := []struct {
		alAccountID, tenantID string
	}{
		{"123456", bobID},
		{"999999", aliceID},
	}
	for _, m := range mappings {
		_, err := db.Exec(`
			INSERT INTO account_mappings (id, al_account_id, tenant_id, active)
			VALUES ($1, $2, $3, $4)
		`, "map_"+uuid.New().String(), m.alAccountID, m.tenantID, true)
		if err != nil {
			return err
		}
	}

	log.Info().Msg("seeded demo tenants and account mappings")
	return nil
}
