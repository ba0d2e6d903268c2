package summarize

import "fmt"

// Progress tracks the cumulative fraction of input processed. Because
// chunks are contiguous and non-overlapping, the reported percentage is
// monotonically non-decreasing and reaches exactly 100% on the last chunk.
type Progress struct {
	total     int
	processed int
}

// NewProgress creates a tracker for a source of total characters.
func NewProgress(total int) *Progress {
	return &Progress{total: total}
}

// Advance records n more characters as processed.
func (p *Progress) Advance(n int) {
	p.processed += n
}

// Processed returns the characters consumed so far.
func (p *Progress) Processed() int { return p.processed }

// Total returns the fixed source length.
func (p *Progress) Total() int { return p.total }

// Fraction returns processed/total in [0,1].
func (p *Progress) Fraction() float64 {
	if p.total == 0 {
		return 1.0
	}
	return float64(p.processed) / float64(p.total)
}

// Percent returns the fraction as a percentage.
func (p *Progress) Percent() float64 {
	return p.Fraction() * 100
}

// String renders the progress line printed after each chunk.
func (p *Progress) String() string {
	return fmt.Sprintf("%d/%d (%.2f%%)", p.processed, p.total, p.Percent())
}
