package filter

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Filter defines the interface for URL filtering
type Filter interface {
	ShouldKeep(ctx context.Context, url string) (bool, error)
}

// FilterURLs applies all filters to a list of URLs, preserving order.
// A URL survives only if every filter keeps it.
func FilterURLs(ctx context.Context, urls []string, filters ...Filter) ([]string, error) {
	filtered := make([]string, 0, len(urls))

	for _, urlStr := range urls {
		keep := true
		for _, f := range filters {
			shouldKeep, err := f.ShouldKeep(ctx, urlStr)
			if err != nil {
				return nil, fmt.Errorf("filter error for URL %s: %w", urlStr, err)
			}
			if !shouldKeep {
				keep = false
				break
			}
		}
		if keep {
			filtered = append(filtered, urlStr)
		}
	}

	return filtered, nil
}

// ExcludeSubstringFilter drops URLs that contain a given substring
type ExcludeSubstringFilter struct {
	substring string // e.g. "/news/"
}

// NewExcludeSubstringFilter creates a filter that discards URLs containing substring
func NewExcludeSubstringFilter(substring string) *ExcludeSubstringFilter {
	return &ExcludeSubstringFilter{
		substring: substring,
	}
}

// ShouldKeep returns false if the URL contains the excluded substring
func (f *ExcludeSubstringFilter) ShouldKeep(ctx context.Context, urlStr string) (bool, error) {
	return !strings.Contains(urlStr, f.substring), nil
}

// percentEncoded matches a single percent-encoded byte with uppercase hex digits
var percentEncoded = regexp.MustCompile(`%[0-9A-F]{2}`)

// EncodedPathFilter keeps URLs whose path carries at least one percent-encoded
// byte, a rough signal for localized (non-ASCII) path segments.
// Everything from the first '?' on is ignored.
type EncodedPathFilter struct{}

// NewEncodedPathFilter creates a new encoded path filter
func NewEncodedPathFilter() *EncodedPathFilter {
	return &EncodedPathFilter{}
}

// ShouldKeep returns true if the URL, minus its query string, contains %XX
func (f *EncodedPathFilter) ShouldKeep(ctx context.Context, urlStr string) (bool, error) {
	path, _, _ := strings.Cut(urlStr, "?")
	return percentEncoded.MatchString(path), nil
}

// BaseURLFilter filters out base/root URLs
type BaseURLFilter struct{}

// NewBaseURLFilter creates a new base URL filter
func NewBaseURLFilter() *BaseURLFilter {
	return &BaseURLFilter{}
}

// ShouldKeep returns false if URL is a base/root URL
func (f *BaseURLFilter) ShouldKeep(ctx context.Context, urlStr string) (bool, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		// Unparseable URLs are left for the consumer of the list to deal with
		return true, nil
	}

	path := strings.Trim(parsed.Path, "/")
	return path != "", nil
}

// ContainsPathFilter filters URLs to only keep those that contain a specific path segment
type ContainsPathFilter struct {
	pathSegment string // The path segment to check for (e.g., "/blog")
}

// NewContainsPathFilter creates a new path filter that keeps URLs containing the specified path segment
func NewContainsPathFilter(pathSegment string) *ContainsPathFilter {
	return &ContainsPathFilter{
		pathSegment: pathSegment,
	}
}

// ShouldKeep returns true if URL contains the specified path segment
func (f *ContainsPathFilter) ShouldKeep(ctx context.Context, urlStr string) (bool, error) {
	return strings.Contains(urlStr, f.pathSegment), nil
}
