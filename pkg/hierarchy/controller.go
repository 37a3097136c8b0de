// Package hierarchy re-renders a flat statistics table as a
// collapsible/expandable tree, driven by the reporting backend's nested
// category description. It owns record order, collapse/hidden
// propagation, the flat/tree label switch and incremental search.
package hierarchy

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/model"
)

// maxDepth caps the tree at three levels (0, 1, 2). Deeper children in
// the category description are silently dropped. Fixed limitation, not
// configurable.
const maxDepth = 2

// Options configures a Controller.
type Options struct {
	// HierarchyColumn is the index of the column holding the category
	// label. Default 0.
	HierarchyColumn int
	// FlatMode selects the initial display mode: full path labels when
	// true, segment labels when false.
	FlatMode bool
}

// Controller is the hierarchical table view controller. It is not safe
// for concurrent use; all mutation happens on one logical thread of
// control in response to discrete external triggers.
type Controller struct {
	table    *model.Table
	col      int
	flatMode bool

	records  []*Record
	byID     map[string]*Record
	children map[string][]*Record // parent id -> direct children, record order; roots under ""

	observers []Observer
}

// New validates opts, builds one record per reachable hierarchy node in
// depth-first pre-order, tags and reorders the table rows, and returns
// the controller.
//
// A ConfigError is returned before any table mutation. Lookup and
// structure failures skip the affected node's subtree and are returned
// joined, alongside a usable controller covering the rest of the forest;
// match them with errors.As.
func New(table *model.Table, forest []*model.HierarchyNode, index model.RowHeaderIndex, opts Options) (*Controller, error) {
	if table == nil {
		return nil, &model.ConfigError{Field: "table", Reason: "table is required"}
	}
	if opts.HierarchyColumn < 0 {
		return nil, &model.ConfigError{Field: "hierarchyColumnIndex", Reason: fmt.Sprintf("must be >= 0, got %d", opts.HierarchyColumn)}
	}

	c := &Controller{
		table:    table,
		col:      opts.HierarchyColumn,
		flatMode: opts.FlatMode,
		byID:     make(map[string]*Record),
		children: make(map[string][]*Record),
	}

	var errs []error
	for _, root := range forest {
		c.build(root, 0, "", index, &errs)
	}
	c.reattachRows()
	if c.flatMode {
		table.AddClass(ClassFlatView)
	}

	return c, errors.Join(errs...)
}

// build creates the record for node and recurses into its children while
// depth budget remains, appending in pre-order.
func (c *Controller) build(node *model.HierarchyNode, level int, parentID string, index model.RowHeaderIndex, errs *[]error) {
	if node == nil {
		return
	}
	pos, ok := index[node.ID]
	if !ok {
		*errs = append(*errs, &model.LookupError{NodeID: node.ID, Pos: -1})
		return
	}
	if pos < 0 || pos >= len(c.table.Rows) || c.table.Rows[pos] == nil {
		*errs = append(*errs, &model.LookupError{NodeID: node.ID, Pos: pos})
		return
	}
	row := c.table.Rows[pos]
	if c.col >= len(row.Cells) {
		*errs = append(*errs, &model.StructureError{
			NodeID: node.ID,
			Reason: fmt.Sprintf("row %d has no header cell at column %d", pos, c.col),
		})
		return
	}

	// Structural tags for external debugging/CSS hooks, not business state.
	row.SetAttr(AttrNodeID, node.ID)
	row.SetAttr(AttrLevel, strconv.Itoa(level))
	row.AddClass("level-" + strconv.Itoa(level))

	hasChildren := !node.Leaf()
	if hasChildren {
		row.AddClass(ClassHasChildren)
	} else {
		row.AddClass(ClassNoChildren)
	}

	if level > 0 {
		// Drill-down navigation is only meaningful for the deepest
		// originally-visible level in tree mode; nested rows keep plain
		// text in the header cell.
		row.Cells[c.col].Href = ""
	}

	// Collapse-toggle control, prepended to the header cell. Activation
	// is wired to ToggleCollapse by whichever surface renders the row.
	row.Toggle = true

	rec := &Record{
		ID:          node.ID,
		ParentID:    parentID,
		Level:       level,
		FlatName:    node.Name,
		Name:        node.Segment(),
		HasChildren: hasChildren,
		Row:         row,
		col:         c.col,
	}
	if hasChildren {
		rec.SetCollapsed(true)
	}
	if level > 0 {
		rec.SetHidden(true)
	}

	c.records = append(c.records, rec)
	c.byID[node.ID] = rec
	c.children[parentID] = append(c.children[parentID], rec)
	c.applyLabel(rec)

	if level >= maxDepth {
		return
	}
	for _, child := range node.Children {
		c.build(child, level+1, node.ID, index, errs)
	}
}

// reattachRows rewrites the table body so document order equals record
// order. Rows not referenced by any record (failed lookups, stray
// leading nodes) keep their relative order after the hierarchy.
func (c *Controller) reattachRows() {
	if len(c.records) == 0 {
		return
	}
	referenced := make(map[*model.Row]bool, len(c.records))
	rows := make([]*model.Row, 0, len(c.table.Rows))
	for _, rec := range c.records {
		rows = append(rows, rec.Row)
		referenced[rec.Row] = true
	}
	for _, row := range c.table.Rows {
		if row != nil && !referenced[row] {
			rows = append(rows, row)
		}
	}
	c.table.Rows = rows
}

// Records returns the ordered record list. The slice is the controller's
// own; callers must not reorder it.
func (c *Controller) Records() []*Record {
	return c.records
}

// Record looks up a record by node id in O(1).
func (c *Controller) Record(id string) (*Record, bool) {
	rec, ok := c.byID[id]
	return rec, ok
}

// Children returns the direct children of the given record id, in record
// order. Pass "" for the roots.
func (c *Controller) Children(id string) []*Record {
	return c.children[id]
}

// Visible returns the records whose rows are currently rendered, in
// record order.
func (c *Controller) Visible() []*Record {
	out := make([]*Record, 0, len(c.records))
	for _, rec := range c.records {
		if !rec.hidden {
			out = append(out, rec)
		}
	}
	return out
}

// FlatMode reports the current display mode.
func (c *Controller) FlatMode() bool {
	return c.flatMode
}

// HierarchyColumn returns the index of the column holding the category
// label.
func (c *Controller) HierarchyColumn() int {
	return c.col
}

// Table returns the table the controller owns.
func (c *Controller) Table() *model.Table {
	return c.table
}

// ToggleCollapse flips the collapse state of the record with the given
// id, emits the matching structural event and propagates visibility to
// descendants. Returns false for unknown ids, for leaves, whose
// collapse state is undefined, and for hidden records: expanding a
// record under a collapsed ancestor would reveal rows the ancestor
// still suppresses.
func (c *Controller) ToggleCollapse(id string) bool {
	rec, ok := c.byID[id]
	if !ok || !rec.HasChildren || rec.hidden {
		return false
	}
	rec.SetCollapsed(!rec.Collapsed())
	if rec.Collapsed() {
		c.emit(Event{Kind: EventCollapsed, RecordID: id})
	} else {
		c.emit(Event{Kind: EventUncollapsed, RecordID: id})
	}
	c.propagate(rec)
	return true
}

// propagate pushes rec's collapse state down to its children. Collapsing
// cascades: child subtrees are forced collapsed too, so re-expanding the
// ancestor later starts from a fully collapsed subtree instead of
// resurfacing orphaned expanded branches. Expanding reveals direct
// children only; deeper descendants stay governed by their own flags.
func (c *Controller) propagate(rec *Record) {
	for _, child := range c.children[rec.ID] {
		if rec.Collapsed() {
			child.SetHidden(true)
			if child.HasChildren && !child.Collapsed() {
				child.SetCollapsed(true)
				c.propagate(child)
			}
		} else {
			child.SetHidden(false)
		}
	}
}

// SetFlatMode switches between flat (full path) and tree (segment)
// labels. Idempotent: a call with the current mode changes nothing and
// fires no event.
func (c *Controller) SetFlatMode(flat bool) {
	if c.flatMode == flat {
		return
	}
	c.flatMode = flat
	for _, rec := range c.records {
		c.applyLabel(rec)
	}
	if flat {
		c.table.AddClass(ClassFlatView)
		c.emit(Event{Kind: EventFlatView})
	} else {
		c.table.RemoveClass(ClassFlatView)
		c.emit(Event{Kind: EventTreeView})
	}
}

// applyLabel writes the mode-appropriate label into the header cell,
// leaving the toggle control and any drill-down link structure alone.
func (c *Controller) applyLabel(rec *Record) {
	label := rec.Name
	if c.flatMode {
		label = rec.FlatName
	}
	rec.Row.Cells[c.col].Text = label
}

// Search matches every record against query, case-insensitively, on the
// full path label in flat mode and the segment label in tree mode. Each
// call resets the previous matched/highlight state first; an empty query
// clears and matches nothing.
//
// For every match the ancestor chain is uncollapsed (with the normal
// visibility events and propagation) and highlighted, so the path to the
// match is visible and traceable. Descendants are highlighted only:
// a collapsed descendant subtree stays structurally collapsed but is
// flagged so it is not lost when later expanded.
func (c *Controller) Search(query string) []*Record {
	for _, rec := range c.records {
		rec.setMatched(false)
		rec.setHighlighted(false)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	q := strings.ToLower(query)

	var matches []*Record
	for _, rec := range c.records {
		label := rec.Name
		if c.flatMode {
			label = rec.FlatName
		}
		if !strings.Contains(strings.ToLower(label), q) {
			continue
		}
		rec.setMatched(true)
		rec.setHighlighted(true)
		matches = append(matches, rec)
		c.uncollapseAncestors(rec)
		c.revealDescendants(rec)
	}
	return matches
}

// uncollapseAncestors walks the parent chain to the root, expanding each
// collapsed ancestor through the normal visibility machinery and marking
// it highlighted.
func (c *Controller) uncollapseAncestors(rec *Record) {
	for pid := rec.ParentID; pid != ""; {
		parent, ok := c.byID[pid]
		if !ok {
			return
		}
		if parent.Collapsed() {
			parent.SetCollapsed(false)
			c.emit(Event{Kind: EventUncollapsed, RecordID: parent.ID})
			c.propagate(parent)
		}
		parent.setHighlighted(true)
		pid = parent.ParentID
	}
}

// revealDescendants marks every descendant with the highlight class,
// regardless of its own collapse state. Visual marking only; hidden
// flags are untouched.
func (c *Controller) revealDescendants(rec *Record) {
	for _, child := range c.children[rec.ID] {
		child.setHighlighted(true)
		c.revealDescendants(child)
	}
}
