package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// HierarchyNode is one node of the backend-supplied category description.
// Name is the full '/'-delimited path ("Region/North/Coastal"); Parent is
// the id of the parent node, empty for roots. The forest arrives already
// validated by the reporting backend.
type HierarchyNode struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Parent   string           `json:"parent,omitempty"`
	Children []*HierarchyNode `json:"children,omitempty"`
}

// Leaf reports whether the node has no children.
func (n *HierarchyNode) Leaf() bool {
	return len(n.Children) == 0
}

// Segment returns the last '/'-separated, trimmed segment of Name —
// the label a tree view shows for this node.
func (n *HierarchyNode) Segment() string {
	parts := strings.Split(n.Name, "/")
	return strings.TrimSpace(parts[len(parts)-1])
}

// Validate checks a single node for the existence-level guarantees the
// viewer relies on. Deeper structural validation is the backend's job.
func (n *HierarchyNode) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("hierarchy node ID cannot be empty")
	}
	if n.Name == "" {
		return fmt.Errorf("hierarchy node %s: name cannot be empty", n.ID)
	}
	return nil
}

// RowHeaderIndex maps a hierarchy node id to the row position of that
// category in the original flat table body.
type RowHeaderIndex map[string]int

// Cell is one table cell: plain text, or a single drill-down hyperlink
// whose text is the label (Href non-empty).
type Cell struct {
	Text string `json:"text"`
	Href string `json:"href,omitempty"`
}

// CellValue is the numeric-if-possible projection of a cell, used by
// external sorters. It is always re-derived from the live row so sorting
// the projection can never desync from the table.
type CellValue struct {
	Number   float64
	IsNumber bool
	Raw      string
}

// Row is one rendered table row. The hierarchy controller owns
// repositioning and class/attribute mutation of rows; it does not own
// cell content beyond the header cell and the prepended toggle control.
type Row struct {
	Cells []Cell

	// Toggle marks that a collapse-toggle control is prepended to the
	// header cell.
	Toggle bool

	classes map[string]bool
	attrs   map[string]string
}

// NewRow builds a row from header label plus remaining cell texts.
func NewRow(cells ...Cell) *Row {
	return &Row{Cells: cells}
}

// AddClass sets a structural marker class on the row.
func (r *Row) AddClass(name string) {
	if r.classes == nil {
		r.classes = make(map[string]bool)
	}
	r.classes[name] = true
}

// RemoveClass clears a structural marker class.
func (r *Row) RemoveClass(name string) {
	delete(r.classes, name)
}

// HasClass reports whether the row carries the given marker class.
func (r *Row) HasClass(name string) bool {
	return r.classes[name]
}

// ClassList returns the row's marker classes in sorted order.
func (r *Row) ClassList() []string {
	out := make([]string, 0, len(r.classes))
	for c := range r.classes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// SetAttr tags the row with a structural attribute (debugging/CSS hook,
// not business state).
func (r *Row) SetAttr(key, value string) {
	if r.attrs == nil {
		r.attrs = make(map[string]string)
	}
	r.attrs[key] = value
}

// Attr returns a structural attribute value, or "".
func (r *Row) Attr(key string) string {
	return r.attrs[key]
}

// AttrKeys returns the row's attribute keys in sorted order.
func (r *Row) AttrKeys() []string {
	out := make([]string, 0, len(r.attrs))
	for k := range r.attrs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// CellValues re-derives the numeric-if-possible projection of every cell,
// in the same order as the row's visual columns. The returned slice is a
// fresh copy on every call, never shared by reference.
func (r *Row) CellValues() []CellValue {
	out := make([]CellValue, len(r.Cells))
	for i, c := range r.Cells {
		out[i] = parseCellValue(c.Text)
	}
	return out
}

func parseCellValue(text string) CellValue {
	trimmed := strings.TrimSpace(text)
	// Tolerate thousands separators the backend emits ("12,345").
	numeric := strings.ReplaceAll(trimmed, ",", "")
	if n, err := strconv.ParseFloat(numeric, 64); err == nil && numeric != "" {
		return CellValue{Number: n, IsNumber: true, Raw: text}
	}
	return CellValue{Raw: text}
}

// Table is the flat statistics table the backend rendered: one row per
// leaf data item. Document order of Rows is the visual order.
type Table struct {
	Rows []*Row

	classes map[string]bool
}

// AddClass sets a table-level marker class (e.g. the flat-view marker).
func (t *Table) AddClass(name string) {
	if t.classes == nil {
		t.classes = make(map[string]bool)
	}
	t.classes[name] = true
}

// RemoveClass clears a table-level marker class.
func (t *Table) RemoveClass(name string) {
	delete(t.classes, name)
}

// HasClass reports whether the table carries the given marker class.
func (t *Table) HasClass(name string) bool {
	return t.classes[name]
}

// ClassList returns the table's marker classes in sorted order.
func (t *Table) ClassList() []string {
	out := make([]string, 0, len(t.classes))
	for c := range t.classes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
