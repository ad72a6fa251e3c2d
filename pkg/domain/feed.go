package domain

// FeedFile is a feed document loaded from disk
type FeedFile struct {
	Name    string // Base filename without extension, used to select filter rules
	Path    string // Source path on disk
	Content string // Decoded text, without a leading byte-order mark
}

// FeedResult is the outcome of processing a single feed file
type FeedResult struct {
	Name   string // Feed name
	Kind   string // Detected document kind (rss, atom, json, unknown)
	Count  int    // Number of URLs written after filtering
	Output string // Path of the written URL list
	Err    error  // Set when the feed could not be read, filtered or written
}

// Failed reports whether processing of the feed ended in an error
func (r FeedResult) Failed() bool {
	return r.Err != nil
}
