package middleware

import (
	"crypto/subtle"
	"net/http"

	"knockknock/internal/pkg/errors"
)

// APIKeyMiddleware guards the webhook with the pre-shared key the lead
// source sends in X-API-KEY. An unconfigured key rejects everything:
// failing closed beats accepting unauthenticated leads.
type APIKeyMiddleware struct {
	apiKey string
}

func NewAPIKeyMiddleware(apiKey string) *APIKeyMiddleware {
	return &APIKeyMiddleware{apiKey: apiKey}
}

func (m *APIKeyMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("X-API-KEY")
		if m.apiKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(m.apiKey)) != 1 {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Invalid or missing API key", nil)
			return
		}
		next(w, r)
	}
}
