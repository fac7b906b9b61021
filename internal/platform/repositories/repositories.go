package repositories

import (
	"database/sql"

	"knockknock/internal/platform/models"
)

// nullString maps empty strings to NULL so optional lead fields stay
// NULL in storage rather than empty text.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type TenantRepository struct {
	db *sql.DB
}

func NewTenantRepository(db *sql.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

func (r *TenantRepository) GetByID(id string) (*models.Tenant, error) {
	return r.scanTenant(r.db.QueryRow(`
		SELECT id, name, from_email, timezone, created_at
		FROM tenants WHERE id = $1
	`, id))
}

func (r *TenantRepository) GetByName(name string) (*models.Tenant, error) {
	return r.scanTenant(r.db.QueryRow(`
		SELECT id, name, from_email, timezone, created_at
		FROM tenants WHERE name = $1
	`, name))
}

func (r *TenantRepository) scanTenant(row *sql.Row) (*models.Tenant, error) {
	tenant := &models.Tenant{}
	var timezone sql.NullString

	err := row.Scan(&tenant.ID, &tenant.Name, &tenant.FromEmail, &timezone, &tenant.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if timezone.Valid {
		tenant.Timezone = timezone.String
	}
	return tenant, nil
}

type AccountMappingRepository struct {
	db *sql.DB
}

func NewAccountMappingRepository(db *sql.DB) *AccountMappingRepository {
	return &AccountMappingRepository{db: db}
}

// GetActive returns the active mapping for an external account id, or
// nil when none exists.
func (r *AccountMappingRepository) GetActive(alAccountID string) (*models.AccountMapping, error) {
	mapping := &models.AccountMapping{}
	err := r.db.QueryRow(`
		SELECT id, al_account_id, tenant_id, active
		FROM account_mappings WHERE al_account_id = $1 AND active = $2
	`, alAccountID, true).Scan(&mapping.ID, &mapping.ALAccountID, &mapping.TenantID, &mapping.Active)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return mapping, nil
}
