// Package extract pulls raw text out of summarization sources: local plain
// text files, PDF and Word documents, and remote URLs. Extraction failures
// are fatal to a run and never retried by the engine.
package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"docsum/internal/logging"
)

// Extract returns the raw text of pathOrURL, dispatching on URL scheme or
// file extension. Anything that is not a URL, PDF or DOCX is read as plain
// UTF-8 text.
func Extract(ctx context.Context, pathOrURL string) (string, error) {
	lower := strings.ToLower(pathOrURL)

	var (
		text string
		err  error
	)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		text, err = FromURL(ctx, pathOrURL)
	case filepath.Ext(lower) == ".pdf":
		text, err = FromPDF(pathOrURL)
	case filepath.Ext(lower) == ".docx":
		text, err = FromDocx(pathOrURL)
	default:
		text, err = fromTextFile(pathOrURL)
	}
	if err != nil {
		return "", err
	}

	logging.Extract("extracted %d chars from %s", len(text), pathOrURL)
	return text, nil
}

func fromTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}
	return string(data), nil
}
