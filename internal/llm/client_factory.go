package llm

import (
	"context"
	"fmt"
	"os"
	"time"
)

// ProviderConfig holds the resolved provider and credentials.
type ProviderConfig struct {
	Provider   Provider
	APIKey     string
	Model      string
	BaseURL    string // OpenAI-compatible endpoints
	Endpoint   string // Azure resource endpoint
	Deployment string // Azure deployment name
	Timeout    time.Duration
}

// DetectProvider resolves a provider from environment variables.
// Priority: AZURE_OPENAI_API_KEY > OPENAI_API_KEY > GEMINI_API_KEY.
func DetectProvider() (*ProviderConfig, error) {
	if key := os.Getenv("AZURE_OPENAI_API_KEY"); key != "" {
		return &ProviderConfig{
			Provider:   ProviderAzure,
			APIKey:     key,
			Endpoint:   os.Getenv("AZURE_OPENAI_ENDPOINT"),
			Deployment: os.Getenv("AZURE_OPENAI_DEPLOYMENT_NAME"),
		}, nil
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return &ProviderConfig{Provider: ProviderOpenAI, APIKey: key}, nil
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return &ProviderConfig{Provider: ProviderGemini, APIKey: key}, nil
	}
	return nil, fmt.Errorf("no API key found; set one of: AZURE_OPENAI_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY")
}

// NewClientFromConfig creates a completion client from a provider config.
func NewClientFromConfig(ctx context.Context, cfg *ProviderConfig) (Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	switch cfg.Provider {
	case ProviderOpenAI:
		oc := DefaultOpenAIConfig(cfg.APIKey)
		oc.Timeout = timeout
		if cfg.Model != "" {
			oc.Model = cfg.Model
		}
		if cfg.BaseURL != "" {
			oc.BaseURL = cfg.BaseURL
		}
		return NewOpenAIClientWithConfig(oc), nil

	case ProviderAzure:
		ac := DefaultAzureConfig(cfg.APIKey, cfg.Endpoint, cfg.Deployment)
		ac.Timeout = timeout
		return NewAzureClient(ac), nil

	case ProviderGemini:
		return NewGeminiClient(ctx, cfg.APIKey, cfg.Model)

	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}
