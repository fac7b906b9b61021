package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
	"knockknock/internal/engine/ingest"
	"knockknock/internal/pkg/errors"
)

// successBody is the fixed acknowledgment the lead source expects. Any
// outcome past validation answers with this and a 200 so the provider
// never enters a retry storm over internal soft failures.
const successBody = "<success>ok</success>"

type WebhookHandler struct {
	service *ingest.Service
}

func NewWebhookHandler(service *ingest.Service) *WebhookHandler {
	return &WebhookHandler{service: service}
}

func (h *WebhookHandler) HandleLead(w http.ResponseWriter, r *http.Request) {
	rawBody, err := io.ReadAll(r.Body)
	if err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Failed to read request body", nil)
		return
	}

	var payload ingest.LeadPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid JSON", nil)
		return
	}
	if payload.CorrelationID == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "CorrelationId is required", nil)
		return
	}

	result, err := h.service.Process(r.Context(), &payload, string(rawBody))
	if err != nil {
		// Infrastructure or configuration failure. This is for
		// operators, not the webhook caller.
		log.Error().Err(err).Str("correlation_id", payload.CorrelationID).Msg("lead ingestion failed")
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Internal error", nil)
		return
	}

	switch {
	case result.Duplicate:
		log.Info().Str("correlation_id", payload.CorrelationID).Msg("duplicate lead, skipping")
	case result.EmailError != "":
		log.Warn().
			Str("correlation_id", payload.CorrelationID).
			Str("lead_id", result.LeadID).
			Str("error", result.EmailError).
			Msg("lead ingested, outreach email failed")
	default:
		log.Info().
			Str("correlation_id", payload.CorrelationID).
			Str("lead_id", result.LeadID).
			Str("email_status", result.EmailStatus).
			Msg("lead ingested")
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(successBody))
}
