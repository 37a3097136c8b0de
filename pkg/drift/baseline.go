// Package drift compares the current report against a saved baseline
// snapshot and raises alerts when the table's shape or totals move past
// configured thresholds. Intended for CI: exit codes signal severity.
package drift

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/analysis"
	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/hierarchy"
)

// BaselineFile is the snapshot location relative to the project root.
const BaselineFile = ".tat/baseline.json"

// TableStats captures the shape of the hierarchy at snapshot time.
type TableStats struct {
	CategoryCount int `json:"category_count"`
	RootCount     int `json:"root_count"`
	LeafCount     int `json:"leaf_count"`
	ColumnCount   int `json:"column_count"`
}

// RootTotal is one top-level category's numeric footprint: the sum of
// the first numeric column over the root and all its descendants.
type RootTotal struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

// Baseline is a saved snapshot of the report's stats.
type Baseline struct {
	CreatedAt   time.Time   `json:"created_at"`
	Description string      `json:"description,omitempty"`
	Stats       TableStats  `json:"stats"`
	RootTotals  []RootTotal `json:"root_totals"`
}

// Capture snapshots the controller's current hierarchy.
func Capture(c *hierarchy.Controller, description string) *Baseline {
	bl := &Baseline{
		CreatedAt:   time.Now().UTC(),
		Description: description,
	}

	records := c.Records()
	bl.Stats.CategoryCount = len(records)
	for _, rec := range records {
		if rec.Level == 0 {
			bl.Stats.RootCount++
		}
		if !rec.HasChildren {
			bl.Stats.LeafCount++
		}
		if n := len(rec.Row.Cells); n > bl.Stats.ColumnCount {
			bl.Stats.ColumnCount = n
		}
	}

	for _, rec := range records {
		if rec.Level != 0 {
			continue
		}
		total := 0.0
		if summaries, err := analysis.SummarizeSubtree(c, rec.ID); err == nil && len(summaries) > 0 {
			total = summaries[0].Sum
		}
		bl.RootTotals = append(bl.RootTotals, RootTotal{
			ID:    rec.ID,
			Name:  rec.Name,
			Total: total,
		})
	}
	return bl
}

// DefaultPath returns the baseline location for a project directory.
func DefaultPath(projectDir string) string {
	return filepath.Join(projectDir, filepath.FromSlash(BaselineFile))
}

// Exists reports whether a baseline is saved at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Save writes the baseline as indented JSON, creating the directory if
// needed.
func (b *Baseline) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadBaseline reads a saved snapshot.
func LoadBaseline(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var bl Baseline
	if err := json.Unmarshal(data, &bl); err != nil {
		return nil, fmt.Errorf("parsing baseline: %w", err)
	}
	return &bl, nil
}

// Summary returns a human-readable description of the snapshot.
func (b *Baseline) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Baseline from %s\n", b.CreatedAt.Format(time.RFC1123))
	if b.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", b.Description)
	}
	fmt.Fprintf(&sb, "Categories: %d (%d top-level, %d leaves), %d columns\n",
		b.Stats.CategoryCount, b.Stats.RootCount, b.Stats.LeafCount, b.Stats.ColumnCount)

	totals := make([]RootTotal, len(b.RootTotals))
	copy(totals, b.RootTotals)
	sort.Slice(totals, func(i, j int) bool { return totals[i].Total > totals[j].Total })
	for _, rt := range totals {
		fmt.Fprintf(&sb, "  %-24s %.0f\n", rt.Name, rt.Total)
	}
	return sb.String()
}
