package summarize

import "strings"

// Window holds the ordered, size-bounded set of summary paragraphs carried
// forward across chunks. Paragraphs enter via Update (append-then-evict)
// and leave exactly once, oldest first, either through eviction or the
// final Drain - never both.
type Window struct {
	maxParagraphs int
	paragraphs    []string
	counter       *TokenCounter
}

// NewWindow creates an empty window bounded to maxParagraphs.
func NewWindow(maxParagraphs int) *Window {
	return &Window{
		maxParagraphs: maxParagraphs,
		counter:       NewTokenCounter(),
	}
}

// splitParagraphs breaks model output into paragraphs on blank-line
// boundaries, trimming surrounding whitespace and dropping empties.
func splitParagraphs(text string) []string {
	// Normalize CRLF so Windows-style model output splits the same way.
	text = strings.ReplaceAll(text, "\r\n", "\n")
	raw := strings.Split(text, "\n\n")
	paragraphs := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// Update appends the paragraphs of summaryText to the window, then evicts
// the oldest paragraphs (in order) until the window is back within its
// bound. The evicted paragraphs are returned for the caller to commit to
// output.
func (w *Window) Update(summaryText string) (evicted []string) {
	w.paragraphs = append(w.paragraphs, splitParagraphs(summaryText)...)

	if overflow := len(w.paragraphs) - w.maxParagraphs; overflow > 0 {
		evicted = w.paragraphs[:overflow]
		w.paragraphs = w.paragraphs[overflow:]
	}
	return evicted
}

// TrimToBudget evicts oldest paragraphs until the estimated token size of
// window + chunk fits within budgetTokens, or the window is empty. This
// runs before each request so the prompt never exceeds the backend's input
// budget no matter how large the carried summary has grown.
func (w *Window) TrimToBudget(chunk string, budgetTokens int) (evicted []string) {
	for len(w.paragraphs) > 0 && w.counter.CountRequest(w.paragraphs, chunk) > budgetTokens {
		evicted = append(evicted, w.paragraphs[0])
		w.paragraphs = w.paragraphs[1:]
	}
	return evicted
}

// Drain removes and returns every remaining paragraph, oldest first. Used
// for the end-of-run flush.
func (w *Window) Drain() []string {
	remaining := w.paragraphs
	w.paragraphs = nil
	return remaining
}

// Paragraphs returns a copy of the current window contents, oldest first.
func (w *Window) Paragraphs() []string {
	out := make([]string, len(w.paragraphs))
	copy(out, w.paragraphs)
	return out
}

// Len returns the current paragraph count.
func (w *Window) Len() int {
	return len(w.paragraphs)
}
