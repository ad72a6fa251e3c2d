package config

import (
	"fmt"
	"os"

	"rss-urls/pkg/filter"

	"github.com/BurntSushi/toml"
)

// Default locations, relative to the working directory
const (
	DefaultInputDir  = "crawler/data/rss"
	DefaultOutputDir = "crawler/data/urls"
)

// RulesFile is the layout of an optional TOML rules file:
//
//	[[rules]]
//	feed  = "tistory"
//	kind  = "exclude"
//	value = "/tag/"
type RulesFile struct {
	Rules []filter.RuleSpec `toml:"rules"`
}

// LoadRules returns the built-in rules, extended with the rules declared in
// the TOML file at path. A feed listed in the file replaces its built-in
// rules. An empty path yields the built-in rules only.
func LoadRules(path string) (filter.Rules, error) {
	if path == "" {
		return filter.DefaultRules(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading rules file: %w", err)
	}

	var file RulesFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("error parsing rules file: %w", err)
	}

	custom, err := filter.FromSpecs(file.Rules)
	if err != nil {
		return nil, fmt.Errorf("invalid rules file: %w", err)
	}

	return filter.DefaultRules().Merge(custom), nil
}
