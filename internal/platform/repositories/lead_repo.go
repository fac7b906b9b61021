package repositories

import (
	"database/sql"
	"errors"

	"knockknock/internal/platform/database"
	"knockknock/internal/platform/models"
)

// ErrDuplicateLead reports that a lead with the same correlation id is
// already persisted. A concurrent duplicate insert surfaces as this
// error rather than a raw constraint violation.
var ErrDuplicateLead = errors.New("lead with correlation id already exists")

type LeadRepository struct {
	db *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) BeginTx() (*sql.Tx, error) {
	return r.db.Begin()
}

func (r *LeadRepository) GetByCorrelationID(correlationID string) (*models.Lead, error) {
	row := r.db.QueryRow(`
		SELECT id, source, correlation_id, al_account_id, tenant_id,
		       first_name, last_name, email, phone, category, urgency, description,
		       city, state, postal_code, raw_payload, received_at
		FROM leads WHERE correlation_id = $1
	`, correlationID)
	return scanLead(row)
}

// CreateTx inserts the lead inside tx. A uniqueness violation on
// correlation_id is returned as ErrDuplicateLead; any other constraint
// failure propagates unchanged.
func (r *LeadRepository) CreateTx(tx *sql.Tx, lead *models.Lead) error {
	_, err := tx.Exec(`
		INSERT INTO leads (id, source, correlation_id, al_account_id, tenant_id,
			first_name, last_name, email, phone, category, urgency, description,
			city, state, postal_code, raw_payload, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`, lead.ID, lead.Source, lead.CorrelationID, nullString(lead.ALAccountID), lead.TenantID,
		nullString(lead.FirstName), nullString(lead.LastName), nullString(lead.Email),
		nullString(lead.Phone), nullString(lead.Category), nullString(lead.Urgency),
		nullString(lead.Description), nullString(lead.City), nullString(lead.State),
		nullString(lead.PostalCode), nullString(lead.RawPayload), lead.ReceivedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicateLead
		}
		return err
	}
	return nil
}

func scanLead(row *sql.Row) (*models.Lead, error) {
	lead := &models.Lead{}
	var alAccountID, firstName, lastName, email, phone sql.NullString
	var category, urgency, description, city, state, postalCode, rawPayload sql.NullString

	err := row.Scan(&lead.ID, &lead.Source, &lead.CorrelationID, &alAccountID, &lead.TenantID,
		&firstName, &lastName, &email, &phone, &category, &urgency, &description,
		&city, &state, &postalCode, &rawPayload, &lead.ReceivedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	lead.ALAccountID = alAccountID.String
	lead.FirstName = firstName.String
	lead.LastName = lastName.String
	lead.Email = email.String
	lead.Phone = phone.String
	lead.Category = category.String
	lead.Urgency = urgency.String
	lead.Description = description.String
	lead.City = city.String
	lead.State = state.String
	lead.PostalCode = postalCode.String
	lead.RawPayload = rawPayload.String

	return lead, nil
}
