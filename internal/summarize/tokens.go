package summarize

import "unicode/utf8"

// TokenCounter provides token estimation for request budget management.
// The heuristic is calibrated for chat-model tokenizers (~4 characters per
// token); it only has to be good enough to keep requests under the
// backend's input budget, not exact.
type TokenCounter struct {
	charsPerToken float64
}

// NewTokenCounter creates a token counter with default calibration.
func NewTokenCounter() *TokenCounter {
	return &TokenCounter{
		charsPerToken: 4.0,
	}
}

// CountString estimates tokens in a string.
func (tc *TokenCounter) CountString(s string) int {
	if s == "" {
		return 0
	}
	// Rune count for proper unicode handling
	runeCount := utf8.RuneCountInString(s)
	return int(float64(runeCount) / tc.charsPerToken)
}

// CountParagraphs estimates tokens across paragraphs, including the
// blank-line separators they are joined with.
func (tc *TokenCounter) CountParagraphs(paragraphs []string) int {
	total := 0
	for _, p := range paragraphs {
		total += tc.CountString(p) + 1 // +1 for the separator
	}
	return total
}

// CountRequest estimates the combined size of a carried-forward window
// plus the current chunk, as they will appear in one request.
func (tc *TokenCounter) CountRequest(window []string, chunk string) int {
	return tc.CountParagraphs(window) + tc.CountString(chunk)
}
