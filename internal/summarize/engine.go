package summarize

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"docsum/internal/llm"
	"docsum/internal/logging"
)

// DefaultMaxContextParagraphs bounds the carried-forward window.
const DefaultMaxContextParagraphs = 3

// DefaultRequestBudgetTokens bounds the estimated size of window + chunk
// in one request.
const DefaultRequestBudgetTokens = 8000

// Options tune an Engine. Zero values select the defaults.
type Options struct {
	MaxContextParagraphs int
	RequestBudgetTokens  int
	MaxAttempts          int
	TimeoutDelay         time.Duration
	CustomPrompt         string // appended to the level's template

	// Notify receives progress and retry messages as they occur. It is the
	// run's only observability channel besides logs; nil silences it.
	Notify func(format string, args ...interface{})
}

// Engine drives the summarization run: one chunk at a time, strictly
// sequentially, because each chunk's request depends on the window
// produced by all prior chunks.
type Engine struct {
	client  llm.Client
	level   Level
	builder *RequestBuilder
	window  *Window
	retry   *RetryController
	writer  ParagraphWriter
	budget  int
	notify  func(format string, args ...interface{})
	runID   string
}

// NewEngine wires an engine around an injected completion client and
// paragraph sink.
func NewEngine(client llm.Client, level Level, writer ParagraphWriter, opts Options) *Engine {
	maxParagraphs := opts.MaxContextParagraphs
	if maxParagraphs <= 0 {
		maxParagraphs = DefaultMaxContextParagraphs
	}
	budget := opts.RequestBudgetTokens
	if budget <= 0 {
		budget = DefaultRequestBudgetTokens
	}
	notify := opts.Notify
	if notify == nil {
		notify = func(string, ...interface{}) {}
	}

	return &Engine{
		client:  client,
		level:   level,
		builder: NewRequestBuilder(level, opts.CustomPrompt),
		window:  NewWindow(maxParagraphs),
		retry:   NewRetryController(opts.MaxAttempts, opts.TimeoutDelay, notify),
		writer:  writer,
		budget:  budget,
		notify:  notify,
		runID:   uuid.NewString(),
	}
}

// Run summarizes text chunk by chunk, streaming evicted paragraphs to the
// writer as it goes and draining the window at the end. A chunk's request
// either succeeds or exhausts retries and aborts the whole run.
func (e *Engine) Run(ctx context.Context, text string) error {
	seg := NewSegmenter(text, e.level.ChunkSize)
	progress := NewProgress(seg.TotalChars())

	logging.Engine("[run %s] starting: level=%s total_chars=%d chunks=%d",
		e.runID, e.level.Name, seg.TotalChars(), ChunkCount(seg.TotalChars(), e.level.ChunkSize))

	chunkIndex := 0
	for {
		chunk, ok := seg.Next()
		if !ok {
			break
		}
		chunkIndex++
		e.notify("Processing...")

		// Pre-request trim: make room so window + chunk fits the input
		// budget regardless of how large the carried summary has grown.
		// Stateless levels never put the window in the prompt, so for them
		// the window does not count against the budget.
		if !e.level.Stateless {
			for _, p := range e.window.TrimToBudget(chunk, e.budget) {
				logging.EngineDebug("[run %s] pre-request eviction (%d chars)", e.runID, len(p))
				if err := e.writer.WriteParagraph(p); err != nil {
					return err
				}
			}
		}

		req := e.builder.Build(e.window.Paragraphs(), chunk)
		summary, err := e.retry.Do(ctx, func(ctx context.Context) (string, error) {
			return e.client.Complete(ctx, req)
		})
		if err != nil {
			return fmt.Errorf("summarizing chunk %d (offset %d): %w", chunkIndex, seg.Offset(), err)
		}

		if summary == "" {
			e.notify("No summary generated for the current chunk.")
			logging.Engine("[run %s] chunk %d produced no summary", e.runID, chunkIndex)
		} else {
			for _, p := range e.window.Update(summary) {
				if err := e.writer.WriteParagraph(p); err != nil {
					return err
				}
			}
			logging.EngineDebug("[run %s] chunk %d: window now %d paragraphs", e.runID, chunkIndex, e.window.Len())
		}

		progress.Advance(len([]rune(chunk)))
		e.notify("Progress: %s", progress)
		logging.Engine("[run %s] progress %s", e.runID, progress)
	}

	// Final flush: whatever survived eviction leaves in original order.
	for _, p := range e.window.Drain() {
		if err := e.writer.WriteParagraph(p); err != nil {
			return err
		}
	}

	logging.Engine("[run %s] complete: %d chunks", e.runID, chunkIndex)
	return nil
}
