// Package llm provides completion client adapters for the summarization
// backends. Adapters normalize every failure mode - including rate limits
// that some backends hide inside ordinary-looking response text - into the
// typed errors in errors.go before results reach the caller.
package llm

import "context"

// Request holds the options for one completion call.
type Request struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
	TopP        float64
}

// Client is the summarization backend boundary. Implementations return the
// completion text, or one of *RateLimitError, *TimeoutError, *ServiceError.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Provider identifies a backend implementation.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderAzure  Provider = "azure"
	ProviderGemini Provider = "gemini"
)

// chatMessage is the wire format shared by the OpenAI-compatible backends.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the chat/completions request body.
type chatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	TopP        float64       `json:"top_p,omitempty"`
}

// chatResponse is the chat/completions response body.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}
