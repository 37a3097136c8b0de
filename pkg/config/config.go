// Package config loads the viewer configuration from .tat/config.yaml,
// discovered by walking up from the working directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/model"
)

// DefaultSearchDebounce is applied when debounce_ms is unset.
const DefaultSearchDebounce = 300 * time.Millisecond

// Config represents a viewer configuration file (.tat/config.yaml)
type Config struct {
	// HierarchyColumn is the index of the table column holding the
	// category label (default: 0)
	HierarchyColumn int `yaml:"hierarchy_column,omitempty" json:"hierarchy_column,omitempty"`

	// FlatMode selects the initial display mode: full path labels when
	// true, segment labels when false (default: false)
	FlatMode bool `yaml:"flat_mode,omitempty" json:"flat_mode,omitempty"`

	// Search configures the incremental search box
	Search SearchConfig `yaml:"search,omitempty" json:"search,omitempty"`
}

// SearchConfig controls the incremental search behavior
type SearchConfig struct {
	// Enabled turns the search box on (default: true)
	Enabled *bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`

	// Immediate runs the search on every keystroke instead of waiting
	// for the debounce window (default: false)
	Immediate bool `yaml:"immediate,omitempty" json:"immediate,omitempty"`

	// DebounceMs is the idle window before a pending query runs, in
	// milliseconds (default: 300). Ignored when Immediate is true.
	DebounceMs int `yaml:"debounce_ms,omitempty" json:"debounce_ms,omitempty"`

	// Query is an initial query to run at startup
	Query string `yaml:"query,omitempty" json:"query,omitempty"`
}

// IsEnabled returns whether search is enabled
func (s *SearchConfig) IsEnabled() bool {
	if s.Enabled == nil {
		return true
	}
	return *s.Enabled
}

// Debounce returns the effective debounce window
func (s *SearchConfig) Debounce() time.Duration {
	if s.DebounceMs <= 0 {
		return DefaultSearchDebounce
	}
	return time.Duration(s.DebounceMs) * time.Millisecond
}

// Validate checks the configuration for errors. Violations surface as
// *model.ConfigError so callers can match them with errors.As.
func (c *Config) Validate() error {
	if c.HierarchyColumn < 0 {
		return &model.ConfigError{
			Field:  "hierarchy_column",
			Reason: fmt.Sprintf("must be >= 0, got %d", c.HierarchyColumn),
		}
	}
	if c.Search.DebounceMs < 0 {
		return &model.ConfigError{
			Field:  "search.debounce_ms",
			Reason: fmt.Sprintf("must be >= 0, got %d", c.Search.DebounceMs),
		}
	}
	return nil
}

// DefaultConfig returns the configuration used when no .tat/config.yaml
// exists: tree mode, column 0, debounced search on.
func DefaultConfig() Config {
	return Config{}
}

// LoadConfig loads and validates a viewer configuration from a file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing viewer config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid viewer config: %w", err)
	}

	return &config, nil
}

// Load resolves the effective configuration for dir: the discovered
// .tat/config.yaml if one exists anywhere up the tree, the defaults
// otherwise. A malformed or invalid file is an error, not a fallback.
func Load(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			return &cfg, nil
		}
		return nil, err
	}
	return LoadConfig(path)
}

// FindConfig searches for .tat/config.yaml starting from dir, walking up
func FindConfig(dir string) (string, error) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return "", err
		}
	}

	for {
		candidate := filepath.Join(dir, ".tat", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return "", os.ErrNotExist
}
