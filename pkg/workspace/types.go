// Package workspace aggregates report bundles from several directories
// into one table, namespacing category ids per report so they never
// collide.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the workspace description, relative to the project root.
const ConfigFile = "workspace.yaml"

// Config describes a multi-report workspace (.tat/workspace.yaml).
type Config struct {
	// Name is the workspace display name.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// Reports lists the report bundles to aggregate.
	Reports []ReportConfig `yaml:"reports" json:"reports"`
}

// ReportConfig is one report bundle in the workspace.
type ReportConfig struct {
	// Name is the display name (default: directory base name).
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// Path is the bundle directory, relative to the workspace config or
	// absolute.
	Path string `yaml:"path" json:"path"`

	// Prefix namespaces category ids from this report (e.g. "web/" for
	// web/A). Empty means name + "/".
	Prefix string `yaml:"prefix,omitempty" json:"prefix,omitempty"`

	// Enabled controls whether the report is loaded (default: true).
	Enabled *bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if len(c.Reports) == 0 {
		return fmt.Errorf("workspace must list at least one report")
	}

	seen := make(map[string]bool)
	for i, rep := range c.Reports {
		if rep.Path == "" {
			return fmt.Errorf("report[%d]: path is required", i)
		}
		prefix := rep.GetPrefix()
		if seen[prefix] {
			return fmt.Errorf("report[%d]: duplicate prefix %q", i, prefix)
		}
		seen[prefix] = true
	}
	return nil
}

// GetPrefix returns the effective id prefix for a report.
func (r *ReportConfig) GetPrefix() string {
	if r.Prefix != "" {
		return r.Prefix
	}
	return strings.ToLower(r.GetName()) + "/"
}

// GetName returns the effective display name for a report.
func (r *ReportConfig) GetName() string {
	if r.Name != "" {
		return r.Name
	}
	return filepath.Base(r.Path)
}

// IsEnabled reports whether the report participates in loading.
func (r *ReportConfig) IsEnabled() bool {
	if r.Enabled == nil {
		return true
	}
	return *r.Enabled
}

// LoadConfig reads and validates a workspace configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing workspace config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workspace config: %w", err)
	}
	return &config, nil
}

// FindConfig walks up from dir looking for .tat/workspace.yaml.
func FindConfig(dir string) (string, error) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return "", err
		}
	}

	for {
		candidate := filepath.Join(dir, ".tat", ConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// QualifyID adds a report prefix to a local category id. Already
// qualified ids pass through unchanged.
func QualifyID(localID, prefix string) string {
	if strings.HasPrefix(localID, prefix) {
		return localID
	}
	return prefix + localID
}

// SplitID separates a namespaced id into its report prefix and local id,
// given the set of known prefixes. Unknown ids come back with an empty
// prefix.
func SplitID(id string, knownPrefixes []string) (prefix, localID string) {
	for _, p := range knownPrefixes {
		if strings.HasPrefix(id, p) {
			return p, strings.TrimPrefix(id, p)
		}
	}
	return "", id
}
