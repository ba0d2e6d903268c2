package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"docsum/internal/logging"
)

// GeminiClient implements Client using the Google GenAI SDK.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

// Complete sends one completion request and normalizes the outcome.
func (c *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	logging.APIDebug("[Gemini] Complete: model=%s prompt_len=%d max_tokens=%d", c.model, len(req.Prompt), req.MaxTokens)

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(req.Temperature)),
		TopP:            genai.Ptr(float32(req.TopP)),
		MaxOutputTokens: int32(req.MaxTokens),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), config)
	if err != nil {
		return "", classifyGeminiError(err)
	}

	// An empty completion is not an error; the engine skips the chunk.
	return normalizeCompletion(result.Text())
}

// classifyGeminiError maps GenAI SDK errors onto the taxonomy. Quota
// exhaustion surfaces as a 429 / RESOURCE_EXHAUSTED status in the error
// message.
func classifyGeminiError(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "429") || strings.Contains(msg, "RESOURCE_EXHAUSTED") {
		return normalizeThrottleMessage(msg)
	}
	return classifyTransportError(err)
}
