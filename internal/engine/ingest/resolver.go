package ingest

import (
	"errors"

	"knockknock/internal/platform/database"
	"knockknock/internal/platform/models"
	"knockknock/internal/platform/repositories"
)

// ErrDefaultTenantMissing means the seeded fallback tenant row does not
// exist. That is an operational misconfiguration, not a request problem,
// and aborts the pipeline before anything is persisted.
var ErrDefaultTenantMissing = errors.New("default tenant not found; run demo seeding first")

type Resolver struct {
	tenants  *repositories.TenantRepository
	mappings *repositories.AccountMappingRepository
}

func NewResolver(tenants *repositories.TenantRepository, mappings *repositories.AccountMappingRepository) *Resolver {
	return &Resolver{tenants: tenants, mappings: mappings}
}

// Resolve maps an external account id to its tenant. When the id is
// absent, or no active mapping exists for it, the default tenant is
// returned with usedDefault set so the caller can record the fallback.
func (r *Resolver) Resolve(alAccountID string) (tenant *models.Tenant, usedDefault bool, err error) {
	if alAccountID != "" {
		mapping, err := r.mappings.GetActive(alAccountID)
		if err != nil {
			return nil, false, err
		}
		if mapping != nil {
			tenant, err := r.tenants.GetByID(mapping.TenantID)
			if err != nil {
				return nil, false, err
			}
			if tenant != nil {
				return tenant, false, nil
			}
		}
	}

	def, err := r.tenants.GetByName(database.DefaultTenantName)
	if err != nil {
		return nil, false, err
	}
	if def == nil {
		return nil, false, ErrDefaultTenantMissing
	}
	return def, true, nil
}
