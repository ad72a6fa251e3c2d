package pipeline

import (
	"rss-urls/pkg/domain"

	"github.com/samber/lo"
)

// Summary collects the per-feed results of a run, in processing order
type Summary struct {
	Results []domain.FeedResult
}

// Processed returns the number of feeds whose output file was written
func (s *Summary) Processed() int {
	return lo.CountBy(s.Results, func(r domain.FeedResult) bool {
		return !r.Failed()
	})
}

// Failed returns the results of feeds that could not be processed
func (s *Summary) Failed() []domain.FeedResult {
	return lo.Filter(s.Results, func(r domain.FeedResult, _ int) bool {
		return r.Failed()
	})
}

// TotalURLs returns the number of URLs written across all feeds
func (s *Summary) TotalURLs() int {
	return lo.SumBy(s.Results, func(r domain.FeedResult) int {
		return r.Count
	})
}
