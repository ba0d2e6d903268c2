// Package config loads docsum configuration from a YAML file with
// environment-variable overrides. Missing file means defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all docsum configuration.
type Config struct {
	// LLM backend configuration
	LLM LLMConfig `yaml:"llm"`

	// Context window bounds
	Window WindowConfig `yaml:"window"`

	// Retry/backoff policy
	Retry RetryConfig `yaml:"retry"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the completion backend.
type LLMConfig struct {
	Provider   string `yaml:"provider"` // openai, azure, gemini
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
	BaseURL    string `yaml:"base_url"`
	Endpoint   string `yaml:"endpoint"`   // Azure resource endpoint
	Deployment string `yaml:"deployment"` // Azure deployment name
	Timeout    string `yaml:"timeout"`
}

// WindowConfig configures the carried-forward context window.
type WindowConfig struct {
	MaxParagraphs       int `yaml:"max_paragraphs"`
	RequestBudgetTokens int `yaml:"request_budget_tokens"`
}

// RetryConfig configures the retry/backoff controller.
type RetryConfig struct {
	MaxAttempts  int    `yaml:"max_attempts"`
	TimeoutDelay string `yaml:"timeout_delay"`
}

// LoggingConfig configures debug logging.
type LoggingConfig struct {
	Debug bool   `yaml:"debug"`
	Dir   string `yaml:"dir"`
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: "",
			Timeout:  "120s",
		},
		Window: WindowConfig{
			MaxParagraphs:       3,
			RequestBudgetTokens: 8000,
		},
		Retry: RetryConfig{
			MaxAttempts:  5,
			TimeoutDelay: "5s",
		},
		Logging: LoggingConfig{
			Debug: false,
			Dir:   "logs",
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file returns the
// defaults; a present but malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides lets environment variables win over file values.
// Credentials are expected from the environment in most deployments.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("DOCSUM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("DOCSUM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("DOCSUM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("AZURE_OPENAI_ENDPOINT"); v != "" {
		c.LLM.Endpoint = v
	}
	if v := os.Getenv("AZURE_OPENAI_DEPLOYMENT_NAME"); v != "" {
		c.LLM.Deployment = v
	}
	switch c.LLM.Provider {
	case "azure":
		if v := os.Getenv("AZURE_OPENAI_API_KEY"); v != "" {
			c.LLM.APIKey = v
		}
	case "openai":
		if v := os.Getenv("OPENAI_API_KEY"); v != "" {
			c.LLM.APIKey = v
		}
	case "gemini":
		if v := os.Getenv("GEMINI_API_KEY"); v != "" {
			c.LLM.APIKey = v
		}
	}
}

// GetTimeout parses the backend timeout, falling back to 120s.
func (c *Config) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil || d <= 0 {
		return 120 * time.Second
	}
	return d
}

// GetTimeoutDelay parses the fixed retry delay for timeouts, falling back
// to 5s.
func (c *Config) GetTimeoutDelay() time.Duration {
	d, err := time.ParseDuration(c.Retry.TimeoutDelay)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}
