package summarize

// Segmenter yields bounded, contiguous, non-overlapping slices of the
// source text. Slicing is by character (rune) count so multi-byte text
// never splits mid-rune; chunks may split mid-word or mid-sentence.
type Segmenter struct {
	text      []rune
	chunkSize int
	offset    int
}

// NewSegmenter creates a segmenter over text with the given chunk size.
func NewSegmenter(text string, chunkSize int) *Segmenter {
	return NewSegmenterAt(text, chunkSize, 0)
}

// NewSegmenterAt creates a segmenter starting at a character offset,
// allowing a run to resume partway through the source.
func NewSegmenterAt(text string, chunkSize, offset int) *Segmenter {
	runes := []rune(text)
	if offset < 0 {
		offset = 0
	}
	if offset > len(runes) {
		offset = len(runes)
	}
	return &Segmenter{
		text:      runes,
		chunkSize: chunkSize,
		offset:    offset,
	}
}

// Next returns the next chunk and advances the cursor by the chunk's
// actual length. ok is false once the source is exhausted.
func (s *Segmenter) Next() (chunk string, ok bool) {
	if s.chunkSize <= 0 || s.offset >= len(s.text) {
		return "", false
	}
	end := s.offset + s.chunkSize
	if end > len(s.text) {
		end = len(s.text)
	}
	chunk = string(s.text[s.offset:end])
	s.offset = end
	return chunk, true
}

// Offset returns the current character cursor.
func (s *Segmenter) Offset() int {
	return s.offset
}

// TotalChars returns the source length in characters.
func (s *Segmenter) TotalChars() int {
	return len(s.text)
}

// ChunkCount returns the number of chunks a text of totalChars characters
// produces at the given chunk size: ceil(totalChars/chunkSize).
func ChunkCount(totalChars, chunkSize int) int {
	if chunkSize <= 0 || totalChars <= 0 {
		return 0
	}
	return (totalChars + chunkSize - 1) / chunkSize
}
