package pipeline

import (
	"context"
	"fmt"

	"rss-urls/pkg/domain"
	"rss-urls/pkg/filter"
	"rss-urls/pkg/loader"
	"rss-urls/pkg/urls"
	"rss-urls/pkg/writer"

	log "github.com/sirupsen/logrus"
)

// FeedLoader enumerates feed files and reads them
type FeedLoader interface {
	// List returns the feed file paths found in dir
	List(dir string) ([]string, error)
	// Load reads a single feed file
	Load(path string) (*domain.FeedFile, error)
}

// URLExtractor pulls candidate URLs out of raw feed content
type URLExtractor interface {
	Extract(content string) []string
}

// URLSaver persists the filtered URL list of a feed
type URLSaver interface {
	// EnsureDir prepares the output location; called once before any feed
	EnsureDir() error
	// SaveURLs writes the list and returns where it was written
	SaveURLs(ctx context.Context, feed string, urls []string) (string, error)
}

// Config holds the explicit settings of a run
type Config struct {
	InputDir  string       // Directory holding the feed files
	OutputDir string       // Directory receiving one <feed>.txt per feed
	Extension string       // Feed file extension, ".xml" when empty
	Rules     filter.Rules // Per-feed filters, DefaultRules when nil
}

// Pipeline runs Loader -> Extractor -> Filter rules -> Writer for every feed
// file in the input directory, one feed at a time
type Pipeline struct {
	cfg       Config
	loader    FeedLoader
	extractor URLExtractor
	saver     URLSaver
	logger    log.FieldLogger
}

// NewPipeline creates a pipeline wired with the file-based loader and writer
func NewPipeline(cfg Config) *Pipeline {
	if cfg.Rules == nil {
		cfg.Rules = filter.DefaultRules()
	}
	return &Pipeline{
		cfg:       cfg,
		loader:    loader.NewLoader(cfg.Extension),
		extractor: urls.NewExtractor(),
		saver:     writer.NewWriter(cfg.OutputDir),
		logger:    log.StandardLogger(),
	}
}

// SetLogger replaces the logger used for progress reporting
func (p *Pipeline) SetLogger(logger log.FieldLogger) {
	p.logger = logger
}

// SetExtractor replaces the URL extractor
func (p *Pipeline) SetExtractor(e URLExtractor) {
	p.extractor = e
}

// SetLoader replaces the feed loader
func (p *Pipeline) SetLoader(l FeedLoader) {
	p.loader = l
}

// SetSaver replaces the URL saver
func (p *Pipeline) SetSaver(s URLSaver) {
	p.saver = s
}

// Run processes every feed file in the input directory.
// Failures of a single feed are recorded in its result and never stop the
// run; only a missing output location or an unlistable input directory
// abort it.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	if err := p.saver.EnsureDir(); err != nil {
		return nil, err
	}

	paths, err := p.loader.List(p.cfg.InputDir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		p.logger.WithField("input", p.cfg.InputDir).Warn("No feed files found")
	}

	summary := &Summary{Results: make([]domain.FeedResult, 0, len(paths))}
	for _, path := range paths {
		summary.Results = append(summary.Results, p.processFeed(ctx, path))
	}

	p.logger.WithFields(log.Fields{
		"processed": summary.Processed(),
		"failed":    len(summary.Failed()),
		"total":     summary.TotalURLs(),
	}).Info("Done")

	return summary, nil
}

// processFeed handles one feed file and reports its outcome
func (p *Pipeline) processFeed(ctx context.Context, path string) domain.FeedResult {
	result := domain.FeedResult{Name: loader.FeedName(path)}
	logger := p.logger.WithField("feed", result.Name)
	logger.Info("Processing feed")

	if err := p.extractFeed(ctx, path, &result); err != nil {
		result.Err = err
		logger.WithError(err).Error("Error processing feed")
		return result
	}

	logger.WithFields(log.Fields{
		"count":  result.Count,
		"output": result.Output,
		"kind":   result.Kind,
	}).Info("Extracted URLs")
	return result
}

// extractFeed loads, extracts, filters and saves a single feed
func (p *Pipeline) extractFeed(ctx context.Context, path string, result *domain.FeedResult) error {
	feed, err := p.loader.Load(path)
	if err != nil {
		return err
	}
	result.Name = feed.Name
	result.Kind = string(urls.DetectKind(feed.Content))

	extracted := p.extractor.Extract(feed.Content)

	filtered, err := p.cfg.Rules.Apply(ctx, feed.Name, extracted)
	if err != nil {
		return fmt.Errorf("failed to filter URLs: %w", err)
	}

	output, err := p.saver.SaveURLs(ctx, feed.Name, filtered)
	if err != nil {
		return err
	}

	result.Count = len(filtered)
	result.Output = output
	return nil
}
