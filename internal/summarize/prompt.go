package summarize

import (
	"strings"

	"docsum/internal/llm"
)

// Request parameters used on every completion call.
const (
	requestTemperature = 0.4
	requestTopP        = 0.4
)

// RequestBuilder assembles one completion request from the carried-forward
// window and the current chunk, per the selected summary level.
type RequestBuilder struct {
	level  Level
	suffix string // optional custom instruction appended to the template
}

// NewRequestBuilder creates a builder for the given level. customSuffix may
// be empty.
func NewRequestBuilder(level Level, customSuffix string) *RequestBuilder {
	return &RequestBuilder{
		level:  level,
		suffix: strings.TrimSpace(customSuffix),
	}
}

// Build produces the request for one chunk. Stateless levels (transcribe)
// omit the prior-context section and transform the chunk independently;
// all others carry two labeled sections, prior summary then current chunk.
func (b *RequestBuilder) Build(window []string, chunk string) llm.Request {
	var sb strings.Builder
	sb.WriteString(b.level.Template)
	if b.suffix != "" {
		sb.WriteString(" ")
		sb.WriteString(b.suffix)
	}
	sb.WriteString("\n")

	if b.level.Stateless {
		sb.WriteString(chunk)
	} else {
		sb.WriteString("[PREVIOUS_SUMMARY]\n\n")
		sb.WriteString(strings.Join(window, "\n\n"))
		sb.WriteString("\n\n[CURRENT_CHUNK]\n\n")
		sb.WriteString(chunk)
	}

	return llm.Request{
		Prompt:      sb.String(),
		MaxTokens:   b.level.MaxOutputTokens,
		Temperature: requestTemperature,
		TopP:        requestTopP,
	}
}
