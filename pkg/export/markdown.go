// Package export renders the current view state to shareable formats:
// a markdown report, a standalone HTML table and an SVG tree diagram.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/analysis"
	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/hierarchy"
)

// GenerateMarkdown creates a markdown report of the hierarchy: the
// category tree with its cell values, plus per-column statistics for
// each root subtree.
func GenerateMarkdown(c *hierarchy.Controller, title string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("nil controller")
	}
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().Format(time.RFC1123)))

	sb.WriteString("## Summary\n\n")
	roots := c.Children("")
	sb.WriteString(fmt.Sprintf("- **Categories**: %d\n", len(c.Records())))
	sb.WriteString(fmt.Sprintf("- **Top-level**: %d\n", len(roots)))
	mode := "tree"
	if c.FlatMode() {
		mode = "flat"
	}
	sb.WriteString(fmt.Sprintf("- **View mode**: %s\n\n", mode))

	sb.WriteString("## Categories\n\n")
	for _, root := range roots {
		writeRecordMarkdown(&sb, c, root)
	}
	sb.WriteString("\n")

	byRoot := analysis.SummarizeRoots(c)
	if len(byRoot) > 0 {
		sb.WriteString("## Statistics\n\n")
		for _, root := range roots {
			summaries, ok := byRoot[root.ID]
			if !ok || len(summaries) == 0 {
				continue
			}
			sb.WriteString(fmt.Sprintf("### %s\n\n", root.FlatName))
			sb.WriteString("| Column | Count | Sum | Mean | StdDev | Min | Max |\n")
			sb.WriteString("|---|---|---|---|---|---|---|\n")
			for _, s := range summaries {
				sb.WriteString(fmt.Sprintf("| %d | %d | %.4g | %.4g | %.4g | %.4g | %.4g |\n",
					s.Column, s.Count, s.Sum, s.Mean, s.StdDev, s.Min, s.Max))
			}
			sb.WriteString("\n")
		}
	}

	return sb.String(), nil
}

func writeRecordMarkdown(sb *strings.Builder, c *hierarchy.Controller, rec *hierarchy.Record) {
	indent := strings.Repeat("  ", rec.Level)
	cells := rec.DataCells()
	values := make([]string, 0, len(cells))
	for _, cell := range cells {
		values = append(values, cell.Text)
	}
	line := fmt.Sprintf("%s- **%s**", indent, rec.Name)
	if len(values) > 0 {
		line += ": " + strings.Join(values, " | ")
	}
	sb.WriteString(line + "\n")
	for _, child := range c.Children(rec.ID) {
		writeRecordMarkdown(sb, c, child)
	}
}
