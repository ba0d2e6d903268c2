package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"docsum/internal/llm"
)

// TestMain ensures no goroutines leak across the package's tests.
func TestMain(m *testing.M) {
	// go.opencensus.io (linked transitively via the genai client) starts a
	// permanent worker goroutine in its package init; it is not a leak from
	// this package's tests.
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

// scriptedClient returns canned responses (or errors) in order, recording
// every prompt it sees.
type scriptedClient struct {
	responses []scriptedResponse
	prompts   []string
	requests  []llm.Request
	calls     int
}

type scriptedResponse struct {
	text string
	err  error
}

func (c *scriptedClient) Complete(ctx context.Context, req llm.Request) (string, error) {
	c.prompts = append(c.prompts, req.Prompt)
	c.requests = append(c.requests, req)
	if c.calls >= len(c.responses) {
		return "", &llm.ServiceError{Message: "script exhausted"}
	}
	r := c.responses[c.calls]
	c.calls++
	return r.text, r.err
}

// clientFunc adapts a function to llm.Client for tests that need to
// observe engine state at call time.
type clientFunc func(ctx context.Context, req llm.Request) (string, error)

func (f clientFunc) Complete(ctx context.Context, req llm.Request) (string, error) {
	return f(ctx, req)
}

// recordingWriter collects paragraphs in memory.
type recordingWriter struct {
	paragraphs []string
}

func (w *recordingWriter) WriteParagraph(p string) error {
	w.paragraphs = append(w.paragraphs, p)
	return nil
}

func testLevel(chunkSize int) Level {
	return Level{
		Name:            "test",
		ChunkSize:       chunkSize,
		MaxOutputTokens: 100,
		Template:        "Summarize.",
	}
}

func TestEngine_EndToEnd(t *testing.T) {
	// 10 chars at chunk size 4 -> chunks "abcd", "efgh", "ij".
	text := "abcdefghij"
	client := &scriptedClient{responses: []scriptedResponse{
		{text: "s1a\n\ns1b"},
		{text: "s2a\n\ns2b"},
		{text: "s3a\n\ns3b"},
	}}
	writer := &recordingWriter{}

	var notices []string
	engine := NewEngine(client, testLevel(4), writer, Options{
		MaxContextParagraphs: 3,
		Notify: func(format string, args ...interface{}) {
			notices = append(notices, fmt.Sprintf(format, args...))
		},
	})

	require.NoError(t, engine.Run(context.Background(), text))
	assert.Equal(t, 3, client.calls)

	// Every paragraph ever produced comes out exactly once, in order.
	assert.Equal(t, []string{"s1a", "s1b", "s2a", "s2b", "s3a", "s3b"}, writer.paragraphs)

	// Chunk 2's prompt carries chunk 1's surviving window.
	assert.Contains(t, client.prompts[1], "s1a\n\ns1b")
	assert.Contains(t, client.prompts[1], "[CURRENT_CHUNK]\n\nefgh")

	// Progress notices hit exactly 100% at the end.
	joined := strings.Join(notices, "\n")
	assert.Contains(t, joined, "(40.00%)")
	assert.Contains(t, joined, "(80.00%)")
	assert.Contains(t, joined, "(100.00%)")
}

func TestEngine_TranscribeIsStateless(t *testing.T) {
	level := testLevel(5)
	level.Stateless = true

	client := &scriptedClient{responses: []scriptedResponse{
		{text: "line one"},
		{text: "line two"},
	}}
	writer := &recordingWriter{}
	engine := NewEngine(client, level, writer, Options{})

	require.NoError(t, engine.Run(context.Background(), "aaaaabbbbb"))
	for _, prompt := range client.prompts {
		assert.NotContains(t, prompt, "[PREVIOUS_SUMMARY]")
		assert.NotContains(t, prompt, "[CURRENT_CHUNK]")
	}
	assert.Equal(t, []string{"line one", "line two"}, writer.paragraphs)
}

func TestEngine_RecoversFromRateLimit(t *testing.T) {
	client := &scriptedClient{responses: []scriptedResponse{
		{err: &llm.RateLimitError{RetryAfter: 3 * time.Second, Message: "retry after 3"}},
		{text: "recovered"},
	}}
	writer := &recordingWriter{}
	engine := NewEngine(client, testLevel(100), writer, Options{})
	slept := captureSleeps(engine.retry)

	require.NoError(t, engine.Run(context.Background(), "some document text"))
	assert.Equal(t, 2, client.calls)
	assert.Equal(t, []time.Duration{3 * time.Second}, *slept)
	assert.Equal(t, []string{"recovered"}, writer.paragraphs)

	// Retries resubmit the identical prompt.
	assert.Equal(t, client.prompts[0], client.prompts[1])
}

func TestEngine_AbortsWhenRetriesExhausted(t *testing.T) {
	timeoutErr := &llm.TimeoutError{Err: errors.New("request timed out")}
	client := &scriptedClient{responses: []scriptedResponse{
		{err: timeoutErr}, {err: timeoutErr}, {err: timeoutErr},
	}}
	writer := &recordingWriter{}
	engine := NewEngine(client, testLevel(100), writer, Options{MaxAttempts: 3})
	captureSleeps(engine.retry)

	err := engine.Run(context.Background(), "some document text")
	require.Error(t, err)

	var exhausted *RetriesExhaustedError
	require.True(t, errors.As(err, &exhausted))
	assert.Equal(t, 3, exhausted.Attempts)
	assert.Empty(t, writer.paragraphs)
}

func TestEngine_EmptySummaryLeavesWindowUntouched(t *testing.T) {
	client := &scriptedClient{responses: []scriptedResponse{
		{text: "kept paragraph"},
		{text: ""},
	}}
	writer := &recordingWriter{}

	var notices []string
	engine := NewEngine(client, testLevel(3), writer, Options{
		Notify: func(format string, args ...interface{}) {
			notices = append(notices, fmt.Sprintf(format, args...))
		},
	})

	require.NoError(t, engine.Run(context.Background(), "abcdef"))
	assert.Equal(t, []string{"kept paragraph"}, writer.paragraphs)
	assert.Contains(t, strings.Join(notices, "\n"), "No summary generated")
}

func TestEngine_StatelessWindowNotCountedAgainstBudget(t *testing.T) {
	level := testLevel(4)
	level.Stateless = true

	writer := &recordingWriter{}
	writesSeen := make([]int, 0, 2)
	calls := 0
	client := clientFunc(func(ctx context.Context, req llm.Request) (string, error) {
		writesSeen = append(writesSeen, len(writer.paragraphs))
		calls++
		if calls == 1 {
			return "p1\n\np2", nil
		}
		return "p3", nil
	})

	// A budget this small would force the carried paragraphs out before
	// chunk 2 if they were counted; stateless prompts never include them.
	engine := NewEngine(client, level, writer, Options{
		MaxContextParagraphs: 5,
		RequestBudgetTokens:  1,
	})

	require.NoError(t, engine.Run(context.Background(), "abcdefgh"))
	assert.Equal(t, []int{0, 0}, writesSeen)
	assert.Equal(t, []string{"p1", "p2", "p3"}, writer.paragraphs)
}

func TestEngine_PreRequestTrimEvictsToWriter(t *testing.T) {
	big := strings.Repeat("x", 2000) // ~500 tokens per paragraph
	client := &scriptedClient{responses: []scriptedResponse{
		{text: big + "\n\n" + big + "\n\n" + big},
		{text: "small"},
	}}
	writer := &recordingWriter{}
	engine := NewEngine(client, testLevel(10), writer, Options{
		MaxContextParagraphs: 5,
		RequestBudgetTokens:  300,
	})

	require.NoError(t, engine.Run(context.Background(), strings.Repeat("a", 20)))

	// The second request had to shed carried paragraphs to fit the budget,
	// and everything still reaches the writer exactly once in order.
	assert.Equal(t, []string{big, big, big, "small"}, writer.paragraphs)
	require.Len(t, client.prompts, 2)
	assert.NotContains(t, client.prompts[1], big)
}
