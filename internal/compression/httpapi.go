package compression

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/sessiontrim/internal/logging"
)

const (
	defaultBaseURL   = "https://api.anthropic.com"
	anthropicVersion = "2023-06-01"
	maxOutputTokens  = 4096
)

// HTTPProvider talks to the hosted Anthropic Messages API directly.
type HTTPProvider struct {
	apiKey  string
	baseURL string
	config  Config
	client  *http.Client
	log     *logging.Logger
}

// anthropicRequest represents an Anthropic API request.
type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

// anthropicMessage represents a message in the Anthropic API format.
type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// anthropicResponse represents an Anthropic API response.
type anthropicResponse struct {
	ID      string             `json:"id"`
	Type    string             `json:"type"`
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
	Model   string             `json:"model"`
	Error   *anthropicError    `json:"error,omitempty"`
}

// anthropicContent represents content in the response.
type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// anthropicError represents an error from the API.
type anthropicError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewHTTPProvider creates a provider backed by the hosted HTTP API.
// Per-call timeouts come from the caller's context, so the underlying
// client carries none of its own.
func NewHTTPProvider(cfg Config, log *logging.Logger) (*HTTPProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required for the http provider")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &HTTPProvider{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		config:  cfg,
		client:  &http.Client{},
		log:     log.Named("http-provider"),
	}, nil
}

// Compress rewrites text through the Messages API.
func (p *HTTPProvider) Compress(ctx context.Context, text string, level Level, useLargeModel bool) (string, error) {
	model := pickModel(p.config, useLargeModel)
	reqBody := anthropicRequest{
		Model:     model,
		MaxTokens: maxOutputTokens,
		Messages: []anthropicMessage{
			{Role: "user", Content: buildPrompt(text, level)},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/messages", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	p.log.Debug("compression request", zap.String("model", model), zap.Int("input_chars", len(text)))

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("API error: %s - %s", apiResp.Error.Type, apiResp.Error.Message)
	}
	if len(apiResp.Content) == 0 {
		return "", ErrEmptyResponse
	}

	out := strings.TrimSpace(apiResp.Content[0].Text)
	if out == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}

var _ Provider = (*HTTPProvider)(nil)
