// Package preset provides named view presets: reusable bundles of
// display mode, initial expansion and search query that can be applied
// to the table in one step. Built-in presets cover the common views;
// users add their own in YAML.
package preset

import (
	"fmt"

	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/hierarchy"
)

// Expansion selects how much of the tree a preset opens up front.
type Expansion string

const (
	// ExpandNone leaves every category collapsed.
	ExpandNone Expansion = "none"
	// ExpandRoots opens the top-level categories only.
	ExpandRoots Expansion = "roots"
	// ExpandAll opens every category.
	ExpandAll Expansion = "all"
)

// Preset is a reusable view configuration.
type Preset struct {
	Name        string       `yaml:"name" json:"name"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	Flat        bool         `yaml:"flat,omitempty" json:"flat,omitempty"`
	Expand      Expansion    `yaml:"expand,omitempty" json:"expand,omitempty"`
	Query       string       `yaml:"query,omitempty" json:"query,omitempty"`
	Export      ExportConfig `yaml:"export,omitempty" json:"export,omitempty"`
}

// ExportConfig makes a preset double as a report recipe: when Format is
// set, applying the preset is followed by an export.
type ExportConfig struct {
	Format string `yaml:"format,omitempty" json:"format,omitempty"` // markdown, html, svg
	Path   string `yaml:"path,omitempty" json:"path,omitempty"`
	Title  string `yaml:"title,omitempty" json:"title,omitempty"`
}

// Validate rejects presets the viewer cannot apply.
func (p *Preset) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("preset: name is required")
	}
	switch p.Expand {
	case "", ExpandNone, ExpandRoots, ExpandAll:
	default:
		return fmt.Errorf("preset %q: unknown expand value %q", p.Name, p.Expand)
	}
	switch p.Export.Format {
	case "", "markdown", "html", "svg":
	default:
		return fmt.Errorf("preset %q: unknown export format %q", p.Name, p.Export.Format)
	}
	return nil
}

// Apply drives the controller into the preset's view: display mode
// first, then expansion, then the query so match highlighting lands on
// the final state.
func Apply(c *hierarchy.Controller, p *Preset) {
	if p == nil {
		return
	}
	c.SetFlatMode(p.Flat)

	switch p.Expand {
	case ExpandRoots:
		for _, rec := range c.Records() {
			if rec.Level == 0 && rec.HasChildren && rec.Collapsed() {
				c.ToggleCollapse(rec.ID)
			}
		}
	case ExpandAll:
		// Pre-order means parents come before their children, so one
		// pass opens the whole tree.
		for _, rec := range c.Records() {
			if rec.HasChildren && rec.Collapsed() {
				c.ToggleCollapse(rec.ID)
			}
		}
	}

	if p.Query != "" {
		c.Search(p.Query)
	}
}

// OverviewPreset is the default view: tree mode, everything collapsed.
func OverviewPreset() Preset {
	return Preset{
		Name:        "overview",
		Description: "Top-level categories only, collapsed tree",
	}
}

// FlatPreset shows every category with its full path label.
func FlatPreset() Preset {
	return Preset{
		Name:        "flat",
		Description: "Flat view with full category paths",
		Flat:        true,
		Expand:      ExpandAll,
	}
}

// ExpandedPreset opens the whole tree in tree mode.
func ExpandedPreset() Preset {
	return Preset{
		Name:        "expanded",
		Description: "Fully expanded tree",
		Expand:      ExpandAll,
	}
}

// TopLevelPreset opens the roots one level deep.
func TopLevelPreset() Preset {
	return Preset{
		Name:        "top-level",
		Description: "Top-level categories expanded one level",
		Expand:      ExpandRoots,
	}
}

// ReportPreset renders the fully expanded tree to a Markdown report.
func ReportPreset() Preset {
	return Preset{
		Name:        "report",
		Description: "Export the full hierarchy as a Markdown report",
		Expand:      ExpandAll,
		Export: ExportConfig{
			Format: "markdown",
			Path:   "report.md",
			Title:  "Text Analytics Report",
		},
	}
}

// BuiltinPresets returns every preset that ships with the viewer.
func BuiltinPresets() []Preset {
	return []Preset{
		OverviewPreset(),
		FlatPreset(),
		ExpandedPreset(),
		TopLevelPreset(),
		ReportPreset(),
	}
}
