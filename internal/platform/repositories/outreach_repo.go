package repositories

import (
	"database/sql"

	"knockknock/internal/platform/models"
)

type OutreachRepository struct {
	db *sql.DB
}

func NewOutreachRepository(db *sql.DB) *OutreachRepository {
	return &OutreachRepository{db: db}
}

func (r *OutreachRepository) Create(msg *models.OutreachMessage) error {
	_, err := r.db.Exec(`
		INSERT INTO outreach_messages (id, lead_id, tenant_id, channel, to_address,
			from_address, subject, body, status, provider_message_id, created_at, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, msg.ID, msg.LeadID, msg.TenantID, msg.Channel, msg.ToAddress,
		msg.FromAddress, msg.Subject, msg.Body, msg.Status,
		nullString(msg.ProviderMessageID), msg.CreatedAt, msg.SentAt)
	return err
}

func (r *OutreachRepository) ListByLead(leadID string) ([]*models.OutreachMessage, error) {
	rows, err := r.db.Query(`
		SELECT id, lead_id, tenant_id, channel, to_address, from_address,
		       subject, body, status, provider_message_id, created_at, sent_at
		FROM outreach_messages WHERE lead_id = $1 ORDER BY created_at
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*models.OutreachMessage
	for rows.Next() {
		msg := &models.OutreachMessage{}
		var providerMessageID sql.NullString
		var sentAt sql.NullTime

		if err := rows.Scan(&msg.ID, &msg.LeadID, &msg.TenantID, &msg.Channel, &msg.ToAddress,
			&msg.FromAddress, &msg.Subject, &msg.Body, &msg.Status,
			&providerMessageID, &msg.CreatedAt, &sentAt); err != nil {
			return nil, err
		}
		msg.ProviderMessageID = providerMessageID.String
		if sentAt.Valid {
			t := sentAt.Time
			msg.SentAt = &t
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
