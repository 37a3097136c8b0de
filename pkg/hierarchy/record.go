package hierarchy

import (
	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/model"
)

// Marker classes and attributes the controller applies to rows. External
// renderers (HTML export, stylesheets) key off these.
const (
	ClassCollapsed   = "collapsed"
	ClassHidden      = "hidden"
	ClassHighlighted = "highlighted"
	ClassHasChildren = "has-children"
	ClassNoChildren  = "no-children"
	ClassFlatView    = "flat-view"

	AttrNodeID = "data-node-id"
	AttrLevel  = "data-level"
)

// Record is the controller's internal representation of one table row
// plus its hierarchy metadata. Records are created once at build time and
// mutated in place afterward; none are added or removed at runtime.
type Record struct {
	ID       string `json:"id"`
	ParentID string `json:"parent_id,omitempty"`
	Level    int    `json:"level"`

	// FlatName is the full path label; Name is its last segment, the
	// leaf label shown in tree view.
	FlatName string `json:"flat_name"`
	Name     string `json:"name"`

	HasChildren bool `json:"has_children"`

	// Row is the rendered table row this record exclusively owns.
	Row *model.Row `json:"-"`

	// col is the controller's hierarchy column index, stamped at build
	// time so label access does not depend on a fixed position.
	col int

	// collapsed stays nil for leaf records permanently; the collapse
	// state machine is only defined where HasChildren is true.
	collapsed *bool
	hidden    bool
	matched   bool
}

// Label returns the text currently shown in the hierarchy cell: the
// segment in tree mode, the full path in flat mode.
func (r *Record) Label() string {
	return r.Row.Cells[r.col].Text
}

// LabelHref returns the hierarchy cell's drill-down link, or "" when
// absent or stripped.
func (r *Record) LabelHref() string {
	return r.Row.Cells[r.col].Href
}

// DataCells returns the row's cells without the hierarchy cell, in row
// order.
func (r *Record) DataCells() []model.Cell {
	out := make([]model.Cell, 0, len(r.Row.Cells)-1)
	for i, cell := range r.Row.Cells {
		if i != r.col {
			out = append(out, cell)
		}
	}
	return out
}

// Collapsed reports whether the record's children are not shown. Always
// false for leaves, which carry no collapse state.
func (r *Record) Collapsed() bool {
	return r.collapsed != nil && *r.collapsed
}

// HasCollapseState reports whether a collapse flag is defined at all.
func (r *Record) HasCollapseState() bool {
	return r.collapsed != nil
}

// Hidden reports whether the record's row is suppressed because some
// ancestor is collapsed.
func (r *Record) Hidden() bool {
	return r.hidden
}

// Matched reports the transient search-match flag.
func (r *Record) Matched() bool {
	return r.matched
}

// SetCollapsed records the collapse state and mirrors it as a row marker
// class. A no-op for leaves. Callers normally go through
// Controller.ToggleCollapse, which also emits events and propagates
// visibility to descendants.
func (r *Record) SetCollapsed(v bool) {
	if !r.HasChildren {
		return
	}
	r.collapsed = &v
	if v {
		r.Row.AddClass(ClassCollapsed)
	} else {
		r.Row.RemoveClass(ClassCollapsed)
	}
}

// SetHidden records visibility and mirrors it as a row marker class. It
// never alters collapse state.
func (r *Record) SetHidden(v bool) {
	r.hidden = v
	if v {
		r.Row.AddClass(ClassHidden)
	} else {
		r.Row.RemoveClass(ClassHidden)
	}
}

func (r *Record) setMatched(v bool) {
	r.matched = v
}

func (r *Record) setHighlighted(v bool) {
	if v {
		r.Row.AddClass(ClassHighlighted)
	} else {
		r.Row.RemoveClass(ClassHighlighted)
	}
}

// Highlighted reports whether the row carries the search highlight class.
// Matches, their ancestors and their descendants are all highlighted;
// only matches themselves carry the Matched flag.
func (r *Record) Highlighted() bool {
	return r.Row.HasClass(ClassHighlighted)
}
