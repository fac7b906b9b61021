package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"knockknock/internal/platform/config"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
)

// OpenAIGenerator drafts bodies via the chat completions API.
type OpenAIGenerator struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewGenerator returns the OpenAI generator when enabled and keyed,
// otherwise Disabled.
func NewGenerator(cfg config.TextGenConfig) Generator {
	if !cfg.Enabled || cfg.APIKey == "" {
		return Disabled{}
	}
	return NewOpenAIGenerator(cfg)
}

func NewOpenAIGenerator(cfg config.TextGenConfig) *OpenAIGenerator {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &OpenAIGenerator{
		apiKey:  cfg.APIKey,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *OpenAIGenerator) Draft(ctx context.Context, req Request) (string, error) {
	name := joinName(req.FirstName, req.LastName)

	prompt := fmt.Sprintf(
		"Write a brief, professional outreach email (2-3 sentences) from %s to a lead named %s.\n"+
			"Category: %s\nDescription: %s\nLocation: %s %s. "+
			"Do not use placeholders; write a real short email body only, no subject line.",
		req.TenantName, name, orNA(req.Category), orNA(req.Description), req.City, req.State)

	body := map[string]interface{}{
		"model": g.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"max_tokens": 200,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", g.baseURL+"/chat/completions", bytes.NewBuffer(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("text generation failed: HTTP %d - %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}
	if len(result.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

func joinName(first, last string) string {
	name := strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
	if name == "" {
		return "there"
	}
	return name
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
