// Package ingest implements the lead ingestion pipeline: dedupe by
// correlation id, resolve the owning tenant, persist the lead, compose
// and send the outreach email, and record audit events at each step.
package ingest

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"knockknock/internal/platform/mail"
	"knockknock/internal/platform/models"
	"knockknock/internal/platform/repositories"
)

// Result is the business outcome of one webhook invocation. Duplicate
// submissions and delivery failures are results, not errors; Process
// returns an error only for unrecoverable infrastructure conditions.
type Result struct {
	Duplicate   bool
	LeadID      string
	EmailStatus string
	EmailError  string
}

type Service struct {
	leads    *repositories.LeadRepository
	events   *repositories.LeadEventRepository
	outreach *repositories.OutreachRepository
	resolver *Resolver
	composer *Composer
	sender   mail.Sender
}

func NewService(
	leads *repositories.LeadRepository,
	events *repositories.LeadEventRepository,
	outreach *repositories.OutreachRepository,
	resolver *Resolver,
	composer *Composer,
	sender mail.Sender,
) *Service {
	return &Service{
		leads:    leads,
		events:   events,
		outreach: outreach,
		resolver: resolver,
		composer: composer,
		sender:   sender,
	}
}

// Process runs the full pipeline for one webhook payload. rawBody is the
// request body as received, kept on the lead for audit and replay.
//
// Ordering guarantee: the lead and its received/mapped events are
// durably committed before any email is composed or sent. The event
// trail for a new lead is always
// received, mapped, [mapped_to_default], email_queued, email_sent|email_failed.
func (s *Service) Process(ctx context.Context, payload *LeadPayload, rawBody string) (*Result, error) {
	// Fast-path dedupe. At-least-once webhook delivery makes replays
	// routine, so an already-seen correlation id is a success.
	existing, err := s.leads.GetByCorrelationID(payload.CorrelationID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &Result{Duplicate: true, LeadID: existing.ID}, nil
	}

	tenant, usedDefault, err := s.resolver.Resolve(payload.ALAccountID)
	if err != nil {
		return nil, err
	}
	if usedDefault && payload.ALAccountID != "" {
		log.Info().
			Str("al_account_id", payload.ALAccountID).
			Msg("no active account mapping, using default tenant")
	}

	lead := leadFromPayload(payload, tenant.ID, rawBody)

	// Lead row and its first events commit together: either the lead
	// exists with its received/mapped trail or nothing was written.
	tx, err := s.leads.BeginTx()
	if err != nil {
		return nil, err
	}
	if err := s.leads.CreateTx(tx, lead); err != nil {
		tx.Rollback()
		if errors.Is(err, repositories.ErrDuplicateLead) {
			// Lost the insert race to a concurrent duplicate request.
			return &Result{Duplicate: true}, nil
		}
		return nil, err
	}
	if err := s.appendTx(tx, lead, models.EventReceived, nil); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := s.appendTx(tx, lead, models.EventMapped, nil); err != nil {
		tx.Rollback()
		return nil, err
	}
	if usedDefault {
		meta := map[string]string{"al_account_id": payload.ALAccountID}
		if err := s.appendTx(tx, lead, models.EventMappedToDefault, meta); err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	subject, body := s.composer.Compose(ctx, tenant.Name, lead)

	toAddress := lead.Email
	if toAddress == "" {
		toAddress = "unknown@example.com"
	}
	fromAddress := tenant.FromEmail

	if err := s.append(lead, models.EventEmailQueued, nil); err != nil {
		return nil, err
	}

	providerMessageID, sendErr := s.sender.Send(ctx, toAddress, fromAddress, subject, body)

	status := models.OutreachStatusSent
	var sentAt *time.Time
	if sendErr != nil {
		status = models.OutreachStatusFailed
	} else {
		if providerMessageID == mail.MockMessageID {
			status = models.OutreachStatusMockSent
		}
		now := time.Now().UTC()
		sentAt = &now
	}

	msg := &models.OutreachMessage{
		ID:                "msg_" + uuid.New().String(),
		LeadID:            lead.ID,
		TenantID:          tenant.ID,
		Channel:           "email",
		ToAddress:         toAddress,
		FromAddress:       fromAddress,
		Subject:           subject,
		Body:              body,
		Status:            status,
		ProviderMessageID: providerMessageID,
		CreatedAt:         time.Now().UTC(),
		SentAt:            sentAt,
	}
	if err := s.outreach.Create(msg); err != nil {
		return nil, err
	}

	result := &Result{LeadID: lead.ID, EmailStatus: status}
	if sendErr != nil {
		result.EmailError = sendErr.Error()
		log.Warn().Err(sendErr).Str("lead_id", lead.ID).Msg("outreach email delivery failed")
		if err := s.append(lead, models.EventEmailFailed, map[string]string{"error": sendErr.Error()}); err != nil {
			return nil, err
		}
		return result, nil
	}

	if err := s.append(lead, models.EventEmailSent, map[string]string{"provider_message_id": providerMessageID}); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) appendTx(tx *sql.Tx, lead *models.Lead, eventType string, meta map[string]string) error {
	return s.events.AppendTx(tx, newEvent(lead, eventType, meta))
}

func (s *Service) append(lead *models.Lead, eventType string, meta map[string]string) error {
	return s.events.Append(newEvent(lead, eventType, meta))
}

func newEvent(lead *models.Lead, eventType string, meta map[string]string) *models.LeadEvent {
	return &models.LeadEvent{
		ID:        "evt_" + uuid.New().String(),
		LeadID:    lead.ID,
		TenantID:  lead.TenantID,
		EventType: eventType,
		EventTS:   time.Now().UTC(),
		Meta:      models.MetaString(meta),
	}
}

func leadFromPayload(payload *LeadPayload, tenantID, rawBody string) *models.Lead {
	lead := &models.Lead{
		ID:            "lead_" + uuid.New().String(),
		Source:        "angi",
		CorrelationID: payload.CorrelationID,
		ALAccountID:   payload.ALAccountID,
		TenantID:      tenantID,
		FirstName:     payload.FirstName,
		LastName:      payload.LastName,
		Email:         payload.Email,
		Phone:         payload.PhoneNumber,
		Category:      payload.Category,
		Urgency:       payload.Urgency,
		Description:   payload.Description,
		RawPayload:    rawBody,
		ReceivedAt:    time.Now().UTC(),
	}
	if addr := payload.PostalAddress; addr != nil {
		lead.City = addr.City
		lead.State = addr.State
		lead.PostalCode = addr.PostalCode
	}
	return lead
}
