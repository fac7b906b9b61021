// Package textgen drafts outreach email bodies with an optional
// generative backend. Callers must treat an empty draft as "no usable
// content" and fall back to their own template.
package textgen

import "context"

// Request carries the tenant and lead fields the generator may use.
type Request struct {
	TenantName  string
	FirstName   string
	LastName    string
	Category    string
	Description string
	City        string
	State       string
}

// Generator drafts an email body. An empty string with a nil error means
// the generator is disabled or produced nothing usable.
type Generator interface {
	Draft(ctx context.Context, req Request) (string, error)
}

// Disabled is the no-op generator wired when text generation is turned
// off or unconfigured.
type Disabled struct{}

func (Disabled) Draft(ctx context.Context, req Request) (string, error) {
	return "", nil
}
