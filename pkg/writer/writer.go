package writer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputExtension is appended to the feed name to form the output file name
const OutputExtension = ".txt"

// WriteError reports an output file that could not be created or written
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Writer persists one URL list per feed into an output directory
type Writer struct {
	dir string
}

// NewWriter creates a writer rooted at dir
func NewWriter(dir string) *Writer {
	return &Writer{
		dir: dir,
	}
}

// EnsureDir creates the output directory and its parents if missing.
// Safe to call repeatedly.
func (w *Writer) EnsureDir() error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// PathFor returns the output file path for a feed
func (w *Writer) PathFor(feed string) string {
	return filepath.Join(w.dir, feed+OutputExtension)
}

// SaveURLs writes urls newline-joined to <feed>.txt, replacing any previous
// content. No header, footer or trailing newline is written; an empty list
// produces an empty file.
func (w *Writer) SaveURLs(ctx context.Context, feed string, urls []string) (string, error) {
	path := w.PathFor(feed)
	if err := os.WriteFile(path, []byte(strings.Join(urls, "\n")), 0o644); err != nil {
		return "", &WriteError{Path: path, Err: err}
	}
	return path, nil
}
