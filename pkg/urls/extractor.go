package urls

import (
	"iter"
	"regexp"
	"slices"
	"strings"
)

var (
	rssItemPattern   = regexp.MustCompile(`(?s)<item>.*?</item>`)
	rssLinkPattern   = regexp.MustCompile(`<link>(.*?)</link>`)
	atomEntryPattern = regexp.MustCompile(`(?s)<entry>.*?</entry>`)
	atomLinkPattern  = regexp.MustCompile(`<link\s[^>]*>`)
	attrPattern      = regexp.MustCompile(`([A-Za-z_:][-A-Za-z0-9_:.]*)\s*=\s*(?:"([^"]*)"|'([^']*)')`)
)

// Extractor pulls one representative link out of every RSS item or Atom entry
type Extractor struct{}

// NewExtractor creates a new entry extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// URLs returns a lazy sequence of the URLs found in content, in document order.
// RSS items are tried first; Atom entries are only scanned when the RSS pass
// produced nothing, so a feed is never treated as both.
func (e *Extractor) URLs(content string) iter.Seq[string] {
	return func(yield func(string) bool) {
		found := false
		for url := range rssURLs(content) {
			found = true
			if !yield(url) {
				return
			}
		}
		if found {
			return
		}
		for url := range atomURLs(content) {
			if !yield(url) {
				return
			}
		}
	}
}

// Extract collects URLs(content) into a slice
func (e *Extractor) Extract(content string) []string {
	return slices.Collect(e.URLs(content))
}

// rssURLs yields the first <link> of each <item>, skipping feed-like links
func rssURLs(content string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, item := range rssItemPattern.FindAllString(content, -1) {
			match := rssLinkPattern.FindStringSubmatch(item)
			if match == nil {
				continue
			}
			url := strings.TrimSpace(match[1])
			if IsFeedLike(url) {
				continue
			}
			if !yield(url) {
				return
			}
		}
	}
}

// atomURLs yields the alternate link of each <entry>
func atomURLs(content string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, entry := range atomEntryPattern.FindAllString(content, -1) {
			url, ok := alternateHref(entry)
			if !ok {
				continue
			}
			if !yield(url) {
				return
			}
		}
	}
}

// IsFeedLike reports whether an RSS link looks like it points back at a feed
// rather than at content. Empty links count as feed-like.
//
// The "feed" check matches anywhere in the URL, so an article whose path
// mentions feeds is dropped as well.
func IsFeedLike(url string) bool {
	return url == "" || strings.HasSuffix(url, "rss") || strings.Contains(url, "feed")
}

// alternateHref finds the first <link> tag in an Atom entry with
// rel="alternate" and an href, regardless of attribute order
func alternateHref(entry string) (string, bool) {
	for _, tag := range atomLinkPattern.FindAllString(entry, -1) {
		attrs := parseAttrs(tag)
		if attrs["rel"] != "alternate" {
			continue
		}
		href, ok := attrs["href"]
		if !ok {
			continue
		}
		href = strings.TrimSpace(href)
		if href == "" {
			continue
		}
		return href, true
	}
	return "", false
}

// parseAttrs returns the quoted attributes of a tag. Values are kept raw.
// The first occurrence of a repeated attribute wins.
func parseAttrs(tag string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attrPattern.FindAllStringSubmatch(tag, -1) {
		name := m[1]
		if _, seen := attrs[name]; seen {
			continue
		}
		value := m[2]
		if value == "" {
			value = m[3]
		}
		attrs[name] = value
	}
	return attrs
}
