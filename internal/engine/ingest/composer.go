package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"knockknock/internal/platform/models"
	"knockknock/internal/platform/textgen"
)

// Composer produces the outreach subject and body. It tries the
// generative backend first and falls back to a deterministic template.
// Compose never fails: a generator error only means the template is
// used.
type Composer struct {
	generator textgen.Generator
}

func NewComposer(generator textgen.Generator) *Composer {
	return &Composer{generator: generator}
}

func (c *Composer) Compose(ctx context.Context, tenantName string, lead *models.Lead) (subject, body string) {
	name := greetingName(lead.FirstName, lead.LastName)

	draft, err := c.generator.Draft(ctx, textgen.Request{
		TenantName:  tenantName,
		FirstName:   lead.FirstName,
		LastName:    lead.LastName,
		Category:    lead.Category,
		Description: lead.Description,
		City:        lead.City,
		State:       lead.State,
	})
	if err != nil {
		log.Debug().Err(err).Str("lead_id", lead.ID).Msg("text generation failed, using template")
	}
	if draft != "" {
		return fmt.Sprintf("Hi %s – %s following up", name, tenantName), draft
	}

	return templateEmail(tenantName, name, lead.Category, lead.Description)
}

// templateEmail is the deterministic fallback: identical inputs always
// produce identical output.
func templateEmail(tenantName, name, category, description string) (subject, body string) {
	subject = fmt.Sprintf("Quick follow-up from %s", tenantName)

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nThanks for your interest. We received your request", name)
	if category != "" {
		fmt.Fprintf(&b, " for %s", category)
	}
	b.WriteString(" and would like to help.")
	if description != "" {
		b.WriteString("\n\nWe'll review your details and get back to you soon.")
	}
	fmt.Fprintf(&b, "\n\nBest,\n%s", tenantName)

	return subject, b.String()
}

func greetingName(first, last string) string {
	name := strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
	if name == "" {
		return "there"
	}
	return name
}
