package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"rss-urls/pkg/domain"

	"golang.org/x/text/encoding/unicode"
)

// DefaultExtension is the file extension recognized as a feed file
const DefaultExtension = ".xml"

// ErrInvalidUTF8 is returned when a feed file is not valid UTF-8 text
var ErrInvalidUTF8 = errors.New("content is not valid UTF-8")

// ReadError reports a feed file that could not be opened or decoded
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read feed %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Loader enumerates and reads feed files from a directory
type Loader struct {
	extension string
}

// NewLoader creates a loader for files with the given extension (e.g. ".xml").
// An empty extension falls back to DefaultExtension.
func NewLoader(extension string) *Loader {
	if extension == "" {
		extension = DefaultExtension
	}
	if !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}
	return &Loader{
		extension: extension,
	}
}

// List returns the feed files in dir, sorted by name.
// Subdirectories are not descended into.
func (l *Loader) List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list feed directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) != l.extension {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}

	sort.Strings(paths)
	return paths, nil
}

// Load reads a feed file and decodes it as UTF-8, consuming an optional
// leading byte-order mark. Failures are reported as *ReadError.
func (l *Loader) Load(path string) (*domain.FeedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	content, err := decodeUTF8(raw)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	return &domain.FeedFile{
		Name:    FeedName(path),
		Path:    path,
		Content: content,
	}, nil
}

// FeedName returns the feed identifier for a path: the base name without its
// final extension ("crawler/data/rss/naver.xml" -> "naver").
func FeedName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// decodeUTF8 validates raw bytes and strips a single leading BOM
func decodeUTF8(raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", ErrInvalidUTF8
	}

	decoded, err := unicode.UTF8BOM.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode UTF-8: %w", err)
	}

	return string(decoded), nil
}
