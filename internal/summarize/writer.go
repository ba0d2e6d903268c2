package summarize

import (
	"fmt"
	"os"

	"docsum/internal/logging"
)

// ParagraphWriter is the durable sink for evicted and final paragraphs.
type ParagraphWriter interface {
	WriteParagraph(p string) error
}

// FileWriter is an append-only, immediately-flushed paragraph sink. Each
// write is synced to disk before returning, so a paragraph once written is
// recoverable even if the process dies right after. Paragraphs still in
// the window at crash time are not - durable-up-to-last-flush, nothing
// more.
type FileWriter struct {
	path string
	file *os.File
}

// NewFileWriter opens the output file. Any pre-existing file at path is
// removed first; failure to remove it is a fatal startup error.
func NewFileWriter(path string) (*FileWriter, error) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to remove existing output file %s: %w", path, err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open output file %s: %w", path, err)
	}

	logging.Output("output file opened: %s", path)
	return &FileWriter{path: path, file: file}, nil
}

// WriteParagraph appends one paragraph followed by a blank line and syncs.
func (w *FileWriter) WriteParagraph(p string) error {
	if _, err := w.file.WriteString(p + "\n\n"); err != nil {
		return fmt.Errorf("failed to write paragraph: %w", err)
	}
	if err := w.file.Sync(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	logging.OutputDebug("paragraph committed (%d chars)", len(p))
	return nil
}

// Close closes the output file.
func (w *FileWriter) Close() error {
	return w.file.Close()
}
