package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenAIClient(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenAIClientWithConfig(OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Model:   "gpt-4o-mini",
		Timeout: 5 * time.Second,
	})
}

func TestOpenAIClient_Complete(t *testing.T) {
	var got chatRequest
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"  the summary  "}}]}`))
	})

	text, err := client.Complete(context.Background(), Request{
		Prompt:      "Summarize this.",
		MaxTokens:   512,
		Temperature: 0.4,
		TopP:        0.4,
	})
	require.NoError(t, err)
	assert.Equal(t, "the summary", text)

	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "Summarize this.", got.Messages[0].Content)
	assert.Equal(t, 512, got.MaxTokens)
	assert.InDelta(t, 0.4, got.Temperature, 1e-9)
}

func TestOpenAIClient_429PrefersRetryAfterHeader(t *testing.T) {
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "17")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"retry after 99 seconds"}}`))
	})

	_, err := client.Complete(context.Background(), Request{Prompt: "x"})
	var rle *RateLimitError
	require.True(t, errors.As(err, &rle))
	assert.Equal(t, 17*time.Second, rle.RetryAfter)
}

func TestOpenAIClient_429FallsBackToBody(t *testing.T) {
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`exceeded token rate limit, retry after 8 seconds`))
	})

	_, err := client.Complete(context.Background(), Request{Prompt: "x"})
	var rle *RateLimitError
	require.True(t, errors.As(err, &rle))
	assert.Equal(t, 8*time.Second, rle.RetryAfter)
}

func TestOpenAIClient_429WithoutDelayIsNotRetryable(t *testing.T) {
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`slow down`))
	})

	_, err := client.Complete(context.Background(), Request{Prompt: "x"})
	var se *ServiceError
	assert.True(t, errors.As(err, &se))
}

func TestOpenAIClient_ThrottleEmbeddedIn200Body(t *testing.T) {
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"Requests exceeded token rate limit. Please retry after 26 seconds."}}]}`))
	})

	_, err := client.Complete(context.Background(), Request{Prompt: "x"})
	var rle *RateLimitError
	require.True(t, errors.As(err, &rle))
	assert.Equal(t, 26*time.Second, rle.RetryAfter)
}

func TestOpenAIClient_ServerErrorIsServiceError(t *testing.T) {
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`upstream exploded`))
	})

	_, err := client.Complete(context.Background(), Request{Prompt: "x"})
	var se *ServiceError
	require.True(t, errors.As(err, &se))
	assert.Contains(t, se.Message, "HTTP 500")
}

func TestOpenAIClient_MissingAPIKey(t *testing.T) {
	client := NewOpenAIClient("")
	_, err := client.Complete(context.Background(), Request{Prompt: "x"})
	var se *ServiceError
	assert.True(t, errors.As(err, &se))
}
