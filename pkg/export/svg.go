package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	svg "github.com/ajstarks/svgo"

	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/hierarchy"
)

// TreeSnapshotOptions controls SVG tree export behaviour.
type TreeSnapshotOptions struct {
	Path  string // output path; ".svg" appended when missing
	Title string // optional title rendered in the header block
}

type treeLayoutNode struct {
	ID       string
	Label    string
	ParentID string
	Level    int
	X, Y     int
}

type treeLayout struct {
	Nodes  []treeLayoutNode
	Width  int
	Height int
	Title  string
	Total  int
}

const (
	nodeW        = 180
	nodeH        = 34
	colGap       = 60
	rowGap       = 14
	padding      = 32
	headerHeight = 64
)

// SaveTreeSnapshot renders the category tree as a static SVG diagram:
// one box per record, indented by level, with parent-child connectors.
// Collapse state is ignored; the snapshot always shows the whole tree.
func SaveTreeSnapshot(c *hierarchy.Controller, opts TreeSnapshotOptions) error {
	if c == nil {
		return fmt.Errorf("nil controller")
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}
	if filepath.Ext(opts.Path) == "" {
		opts.Path += ".svg"
	}
	if dir := filepath.Dir(opts.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create parent dir: %w", err)
		}
	}

	file, err := os.Create(opts.Path)
	if err != nil {
		return err
	}
	defer file.Close()

	return renderTreeSVG(file, buildTreeLayout(c, opts.Title))
}

func buildTreeLayout(c *hierarchy.Controller, title string) treeLayout {
	recs := c.Records()
	layout := treeLayout{Title: title, Total: len(recs)}
	if layout.Title == "" {
		layout.Title = "Category Tree"
	}

	maxLevel := 0
	for i, rec := range recs {
		label := rec.Name
		if c.FlatMode() {
			label = rec.FlatName
		}
		layout.Nodes = append(layout.Nodes, treeLayoutNode{
			ID:       rec.ID,
			Label:    truncate(label, 24),
			ParentID: rec.ParentID,
			Level:    rec.Level,
			X:        padding + rec.Level*(nodeW+colGap),
			Y:        padding + headerHeight + i*(nodeH+rowGap),
		})
		if rec.Level > maxLevel {
			maxLevel = rec.Level
		}
	}

	layout.Width = padding*2 + (maxLevel+1)*nodeW + maxLevel*colGap
	if layout.Width < 480 {
		layout.Width = 480
	}
	layout.Height = padding*2 + headerHeight + len(recs)*(nodeH+rowGap)
	if layout.Height < 240 {
		layout.Height = 240
	}
	return layout
}

func renderTreeSVG(w io.Writer, layout treeLayout) error {
	canvas := svg.New(w)
	canvas.Start(layout.Width, layout.Height)
	canvas.Rect(0, 0, layout.Width, layout.Height, "fill:#fafafa")

	canvas.Text(padding, padding+18, layout.Title, "fill:#222;font-size:18px;font-family:monospace;font-weight:bold")
	canvas.Text(padding, padding+38,
		fmt.Sprintf("categories: %d   generated: %s", layout.Total, time.Now().Format("2006-01-02")),
		"fill:#666;font-size:12px;font-family:monospace")

	pos := make(map[string]treeLayoutNode, len(layout.Nodes))
	for _, n := range layout.Nodes {
		pos[n.ID] = n
	}

	for _, n := range layout.Nodes {
		if n.ParentID == "" {
			continue
		}
		parent, ok := pos[n.ParentID]
		if !ok {
			continue
		}
		// Elbow connector from the parent's left edge down to the child.
		x := parent.X + 14
		canvas.Line(x, parent.Y+nodeH, x, n.Y+nodeH/2, "stroke:#999;stroke-width:1.5")
		canvas.Line(x, n.Y+nodeH/2, n.X, n.Y+nodeH/2, "stroke:#999;stroke-width:1.5")
	}

	for _, n := range layout.Nodes {
		fill := "#e7f5ff"
		if n.Level == 0 {
			fill = "#d0ebff"
		}
		canvas.Roundrect(n.X, n.Y, nodeW, nodeH, 6, 6,
			fmt.Sprintf("fill:%s;stroke:#4dabf7;stroke-width:1.2", fill))
		canvas.Text(n.X+10, n.Y+22, n.Label, "fill:#222;font-size:13px;font-family:monospace")
	}

	canvas.End()
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
