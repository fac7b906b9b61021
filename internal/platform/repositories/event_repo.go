package repositories

import (
	"database/sql"

	"knockknock/internal/platform/models"
)

type LeadEventRepository struct {
	db *sql.DB
}

func NewLeadEventRepository(db *sql.DB) *LeadEventRepository {
	return &LeadEventRepository{db: db}
}

func (r *LeadEventRepository) Append(event *models.LeadEvent) error {
	_, err := r.db.Exec(`
		INSERT INTO lead_events (id, lead_id, tenant_id, event_type, event_ts, meta)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, event.ID, event.LeadID, event.TenantID, event.EventType, event.EventTS, nullString(event.Meta))
	return err
}

func (r *LeadEventRepository) AppendTx(tx *sql.Tx, event *models.LeadEvent) error {
	_, err := tx.Exec(`
		INSERT INTO lead_events (id, lead_id, tenant_id, event_type, event_ts, meta)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, event.ID, event.LeadID, event.TenantID, event.EventType, event.EventTS, nullString(event.Meta))
	return err
}

// ListByLead returns a lead's audit trail in write order.
func (r *LeadEventRepository) ListByLead(leadID string) ([]*models.LeadEvent, error) {
	rows, err := r.db.Query(`
		SELECT seq, id, lead_id, tenant_id, event_type, event_ts, meta
		FROM lead_events WHERE lead_id = $1 ORDER BY seq
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*models.LeadEvent
	for rows.Next() {
		event := &models.LeadEvent{}
		var meta sql.NullString

		if err := rows.Scan(&event.Seq, &event.ID, &event.LeadID, &event.TenantID,
			&event.EventType, &event.EventTS, &meta); err != nil {
			return nil, err
		}
		event.Meta = meta.String
		events = append(events, event)
	}
	return events, rows.Err()
}
