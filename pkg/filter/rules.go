package filter

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/samber/lo"
)

// Rule kinds accepted in a RuleSpec
const (
	KindExclude     = "exclude"
	KindInclude     = "include"
	KindEncodedPath = "encoded-path"
	KindSkipRoot    = "skip-root"
)

// Rules maps a feed name to the filters applied to its URLs.
// Feed names match exactly and case-sensitively; a feed without an entry
// passes through unchanged.
type Rules map[string][]Filter

// DefaultRules returns the built-in per-feed rules
func DefaultRules() Rules {
	return Rules{
		"naver":  {NewExcludeSubstringFilter("/news/")},
		"daangn": {NewEncodedPathFilter()},
	}
}

// Apply filters urls with the rules registered for feed
func (r Rules) Apply(ctx context.Context, feed string, urls []string) ([]string, error) {
	filters, ok := r[feed]
	if !ok || len(filters) == 0 {
		return urls, nil
	}
	return FilterURLs(ctx, urls, filters...)
}

// Merge returns a copy of r with every feed in other replacing r's entry
func (r Rules) Merge(other Rules) Rules {
	merged := make(Rules, len(r)+len(other))
	maps.Copy(merged, r)
	maps.Copy(merged, other)
	return merged
}

// Feeds returns the feed names that have rules, sorted
func (r Rules) Feeds() []string {
	feeds := lo.Keys(r)
	slices.Sort(feeds)
	return feeds
}

// RuleSpec is a declarative description of a single filter for a feed
type RuleSpec struct {
	Feed  string `toml:"feed"`
	Kind  string `toml:"kind"`
	Value string `toml:"value,omitempty"`
}

// FromSpecs builds Rules from specs. Filters for the same feed are applied in
// the order they are declared.
func FromSpecs(specs []RuleSpec) (Rules, error) {
	rules := make(Rules)
	for i, spec := range specs {
		if spec.Feed == "" {
			return nil, fmt.Errorf("rule %d: feed name is required", i)
		}
		f, err := newFilter(spec)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i, spec.Feed, err)
		}
		rules[spec.Feed] = append(rules[spec.Feed], f)
	}
	return rules, nil
}

func newFilter(spec RuleSpec) (Filter, error) {
	switch spec.Kind {
	case KindExclude:
		if spec.Value == "" {
			return nil, fmt.Errorf("kind %q requires a value", spec.Kind)
		}
		return NewExcludeSubstringFilter(spec.Value), nil
	case KindInclude:
		if spec.Value == "" {
			return nil, fmt.Errorf("kind %q requires a value", spec.Kind)
		}
		return NewContainsPathFilter(spec.Value), nil
	case KindEncodedPath:
		return NewEncodedPathFilter(), nil
	case KindSkipRoot:
		return NewBaseURLFilter(), nil
	default:
		return nil, fmt.Errorf("unknown rule kind %q", spec.Kind)
	}
}
