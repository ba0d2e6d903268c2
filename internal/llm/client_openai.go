package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"docsum/internal/logging"
)

// OpenAIClient implements Client against any OpenAI-compatible
// chat/completions endpoint.
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// OpenAIConfig holds configuration for the OpenAI-compatible client.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// DefaultOpenAIConfig returns sensible defaults.
func DefaultOpenAIConfig(apiKey string) OpenAIConfig {
	return OpenAIConfig{
		APIKey:  apiKey,
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o-mini",
		Timeout: 120 * time.Second,
	}
}

// NewOpenAIClient creates a new client with default config.
func NewOpenAIClient(apiKey string) *OpenAIClient {
	return NewOpenAIClientWithConfig(DefaultOpenAIConfig(apiKey))
}

// NewOpenAIClientWithConfig creates a new client with custom config.
func NewOpenAIClientWithConfig(config OpenAIConfig) *OpenAIClient {
	return &OpenAIClient{
		apiKey:  config.APIKey,
		baseURL: config.BaseURL,
		model:   config.Model,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// SetModel changes the model used for completions.
func (c *OpenAIClient) SetModel(model string) {
	c.model = model
}

// Complete sends one completion request and normalizes the outcome.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	if c.apiKey == "" {
		return "", &ServiceError{Message: "API key not configured"}
	}

	body := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		TopP:        req.TopP,
	}
	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", &ServiceError{Message: fmt.Sprintf("failed to marshal request: %v", err)}
	}

	logging.APIDebug("[OpenAI] Complete: model=%s prompt_len=%d max_tokens=%d", c.model, len(req.Prompt), req.MaxTokens)

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", &ServiceError{Message: fmt.Sprintf("failed to create request: %v", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logging.APIWarn("[OpenAI] transport failure: %v", err)
		return "", classifyTransportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classifyTransportError(err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", throttleFromResponse(resp, respBody)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &ServiceError{Message: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, respBody)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &ServiceError{Message: fmt.Sprintf("failed to parse response: %v", err)}
	}
	if parsed.Error != nil {
		return "", &ServiceError{Message: parsed.Error.Message}
	}
	if len(parsed.Choices) == 0 {
		return "", &ServiceError{Message: "no completion returned"}
	}

	return normalizeCompletion(parsed.Choices[0].Message.Content)
}

// throttleFromResponse builds the rate-limit error for a 429, preferring
// the Retry-After header over the message body.
func throttleFromResponse(resp *http.Response, body []byte) error {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if secs, err := strconv.Atoi(header); err == nil && secs > 0 {
			return &RateLimitError{
				RetryAfter: time.Duration(secs) * time.Second,
				Message:    string(body),
			}
		}
	}
	return normalizeThrottleMessage(string(body))
}
