package urls

import (
	"strings"

	"github.com/mmcdole/gofeed"
)

// Kind is the document type of a feed as sniffed from its root element
type Kind string

const (
	KindRSS     Kind = "rss"
	KindAtom    Kind = "atom"
	KindJSON    Kind = "json"
	KindUnknown Kind = "unknown"
)

// DetectKind sniffs the feed type of content. It is informational only and
// has no influence on which extraction strategy runs.
func DetectKind(content string) Kind {
	switch gofeed.DetectFeedType(strings.NewReader(content)) {
	case gofeed.FeedTypeRSS:
		return KindRSS
	case gofeed.FeedTypeAtom:
		return KindAtom
	case gofeed.FeedTypeJSON:
		return KindJSON
	default:
		return KindUnknown
	}
}
