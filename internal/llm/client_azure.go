package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"docsum/internal/logging"
)

// AzureClient implements Client against an Azure OpenAI deployment. Azure
// routes by deployment name and api-version rather than by model field,
// and authenticates with an api-key header.
type AzureClient struct {
	apiKey     string
	endpoint   string
	deployment string
	apiVersion string
	httpClient *http.Client
}

// AzureConfig holds configuration for the Azure OpenAI client.
type AzureConfig struct {
	APIKey     string
	Endpoint   string // e.g. https://myresource.openai.azure.com
	Deployment string
	APIVersion string
	Timeout    time.Duration
}

// DefaultAzureConfig returns sensible defaults.
func DefaultAzureConfig(apiKey, endpoint, deployment string) AzureConfig {
	return AzureConfig{
		APIKey:     apiKey,
		Endpoint:   endpoint,
		Deployment: deployment,
		APIVersion: "2024-05-01-preview",
		Timeout:    120 * time.Second,
	}
}

// NewAzureClient creates a new Azure OpenAI client.
func NewAzureClient(config AzureConfig) *AzureClient {
	apiVersion := config.APIVersion
	if apiVersion == "" {
		apiVersion = "2024-05-01-preview"
	}
	return &AzureClient{
		apiKey:     config.APIKey,
		endpoint:   config.Endpoint,
		deployment: config.Deployment,
		apiVersion: apiVersion,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Complete sends one completion request and normalizes the outcome. Some
// Azure deployments report token-rate throttling inside an HTTP 200 body,
// which the normalization scan on the returned text catches.
func (c *AzureClient) Complete(ctx context.Context, req Request) (string, error) {
	if c.apiKey == "" {
		return "", &ServiceError{Message: "API key not configured"}
	}
	if c.endpoint == "" || c.deployment == "" {
		return "", &ServiceError{Message: "Azure endpoint and deployment required"}
	}

	body := chatRequest{
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		TopP:        req.TopP,
	}
	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", &ServiceError{Message: fmt.Sprintf("failed to marshal request: %v", err)}
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		c.endpoint, c.deployment, c.apiVersion)

	logging.APIDebug("[Azure] Complete: deployment=%s prompt_len=%d max_tokens=%d", c.deployment, len(req.Prompt), req.MaxTokens)

	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonData))
	if err != nil {
		return "", &ServiceError{Message: fmt.Sprintf("failed to create request: %v", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logging.APIWarn("[Azure] transport failure: %v", err)
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
