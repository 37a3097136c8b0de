package hierarchy

import (
	"errors"
	"testing"

	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/model"
)

// fixture builds the standard test forest:
//
//	A "Region"
//	├── B "Region/North"
//	│   └── C "Region/North/Coastal"
//	└── D "Region/South"
//	E "Product"
//	└── F "Product/Widgets"
//
// Rows are deliberately stored out of visual order so reattachment is
// exercised; the index maps ids to those scrambled positions.
func fixture() (*model.Table, []*model.HierarchyNode, model.RowHeaderIndex) {
	row := func(label string, count string) *model.Row {
		return model.NewRow(
			model.Cell{Text: label, Href: "http://reports/drill?cat=" + label},
			model.Cell{Text: count},
		)
	}
	table := &model.Table{Rows: []*model.Row{
		row("Region/North/Coastal", "12"), // C
		row("Region", "310"),              // A
		row("Product/Widgets", "57"),      // F
		row("Region/North", "120"),        // B
		row("Region/South", "178"),        // D
		row("Product", "96"),              // E
	}}
	forest := []*model.HierarchyNode{
		{ID: "A", Name: "Region", Children: []*model.HierarchyNode{
			{ID: "B", Name: "Region/North", Parent: "A", Children: []*model.HierarchyNode{
				{ID: "C", Name: "Region/North/Coastal", Parent: "B"},
			}},
			{ID: "D", Name: "Region/South", Parent: "A"},
		}},
		{ID: "E", Name: "Product", Children: []*model.HierarchyNode{
			{ID: "F", Name: "Product/Widgets", Parent: "E"},
		}},
	}
	index := model.RowHeaderIndex{"C": 0, "A": 1, "F": 2, "B": 3, "D": 4, "E": 5}
	return table, forest, index
}

func mustNew(t *testing.T, table *model.Table, forest []*model.HierarchyNode, index model.RowHeaderIndex, opts Options) *Controller {
	t.Helper()
	c, err := New(table, forest, index, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

// checkHiddenInvariant verifies hidden == true iff some ancestor has
// collapsed == true, for every record.
func checkHiddenInvariant(t *testing.T, c *Controller) {
	t.Helper()
	for _, rec := range c.Records() {
		want := false
		for pid := rec.ParentID; pid != ""; {
			parent, ok := c.Record(pid)
			if !ok {
				break
			}
			if parent.Collapsed() {
				want = true
				break
			}
			pid = parent.ParentID
		}
		if rec.Hidden() != want {
			t.Errorf("record %s: hidden = %v, want %v (ancestor collapse state)", rec.ID, rec.Hidden(), want)
		}
	}
}

func TestBuildPreOrder(t *testing.T) {
	table, forest, index := fixture()
	c := mustNew(t, table, forest, index, Options{})

	want := []string{"A", "B", "C", "D", "E", "F"}
	recs := c.Records()
	if len(recs) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(recs))
	}
	for i, id := range want {
		if recs[i].ID != id {
			t.Errorf("records[%d] = %s, want %s", i, recs[i].ID, id)
		}
	}
}

func TestBuildDepthCap(t *testing.T) {
	// A fourth level must be silently dropped.
	table, forest, index := fixture()
	table.Rows = append(table.Rows, model.NewRow(model.Cell{Text: "Region/North/Coastal/Piers"}))
	forest[0].Children[0].Children[0].Children = []*model.HierarchyNode{
		{ID: "G", Name: "Region/North/Coastal/Piers", Parent: "C"},
	}
	index["G"] = 6

	c := mustNew(t, table, forest, index, Options{})
	if _, ok := c.Record("G"); ok {
		t.Error("expected depth-3 node G to be dropped")
	}
	// C now has children in the forest, but no child records.
	rec, _ := c.Record("C")
	if !rec.HasChildren {
		t.Error("expected C to be classified has-children from the forest")
	}
	if len(c.Children("C")) != 0 {
		t.Errorf("expected no child records under C, got %d", len(c.Children("C")))
	}
}

// TestBuildExample pins the worked example from the component contract:
// one root with one leaf child.
func TestBuildExample(t *testing.T) {
	table := &model.Table{Rows: []*model.Row{
		model.NewRow(model.Cell{Text: "Region"}),
		model.NewRow(model.Cell{Text: "Region/North"}),
	}}
	forest := []*model.HierarchyNode{
		{ID: "A", Name: "Region", Children: []*model.HierarchyNode{
			{ID: "B", Name: "Region/North", Parent: "A"},
		}},
	}
	c := mustNew(t, table, forest, model.RowHeaderIndex{"A": 0, "B": 1}, Options{})

	recs := c.Records()
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	a, b := recs[0], recs[1]
	if a.ID != "A" || a.Level != 0 || a.Hidden() || !a.Collapsed() || !a.HasChildren {
		t.Errorf("root record wrong: %+v (hidden=%v collapsed=%v)", a, a.Hidden(), a.Collapsed())
	}
	if b.ID != "B" || b.Level != 1 || !b.Hidden() || b.HasChildren {
		t.Errorf("child record wrong: %+v (hidden=%v)", b, b.Hidden())
	}
	if b.HasCollapseState() {
		t.Error("leaf record must keep no collapse state")
	}
	if a.Name != "Region" || b.Name != "North" || b.FlatName != "Region/North" {
		t.Errorf("labels wrong: a.Name=%q b.Name=%q b.FlatName=%q", a.Name, b.Name, b.FlatName)
	}
}

func TestBuildRowTagging(t *testing.T) {
	table, forest, index := fixture()
	c := mustNew(t, table, forest, index, Options{})

	a, _ := c.Record("A")
	if a.Row.Attr(AttrNodeID) != "A" || a.Row.Attr(AttrLevel) != "0" {
		t.Errorf("root attrs wrong: id=%q level=%q", a.Row.Attr(AttrNodeID), a.Row.Attr(AttrLevel))
	}
	if !a.Row.HasClass("level-0") || !a.Row.HasClass(ClassHasChildren) {
		t.Errorf("root classes wrong: %v", a.Row.ClassList())
	}
	if !a.Row.Toggle {
		t.Error("expected toggle control prepended to root header cell")
	}
	// Level 0 keeps its drill-down link; nested rows are stripped to text.
	if a.Row.Cells[0].Href == "" {
		t.Error("expected root drill-down link preserved")
	}
	b, _ := c.Record("B")
	if b.Row.Cells[0].Href != "" {
		t.Errorf("expected nested drill-down link stripped, got %q", b.Row.Cells[0].Href)
	}
	if !b.Row.HasClass("level-1") {
		t.Errorf("child classes wrong: %v", b.Row.ClassList())
	}
	d, _ := c.Record("D")
	if !d.Row.HasClass(ClassNoChildren) {
		t.Errorf("leaf should be marked no-children: %v", d.Row.ClassList())
	}
}

func TestBuildReattachesRows(t *testing.T) {
	table, forest, index := fixture()
	c := mustNew(t, table, forest, index, Options{})

	if len(table.Rows) != len(c.Records()) {
		t.Fatalf("expected %d rows, got %d", len(c.Records()), len(table.Rows))
	}
	for i, rec := range c.Records() {
		if table.Rows[i] != rec.Row {
			t.Errorf("row %d is not record %s's row", i, rec.ID)
		}
	}
}

func TestBuildKeepsUnreferencedRowsAtEnd(t *testing.T) {
	table, forest, index := fixture()
	stray := model.NewRow(model.Cell{Text: "Totals"})
	table.Rows = append([]*model.Row{stray}, table.Rows...)
	// Shift all index positions past the stray leading row.
	for id, pos := range index {
		index[id] = pos + 1
	}

	c := mustNew(t, table, forest, index, Options{})
	if got := table.Rows[len(table.Rows)-1]; got != stray {
		t.Error("expected stray leading row moved after the hierarchy")
	}
	if table.Rows[0] != c.Records()[0].Row {
		t.Error("expected first row to be the first record's row")
	}
}

func TestBuildLookupErrorSkipsSubtree(t *testing.T) {
	table, forest, index := fixture()
	delete(index, "B") // B and its child C must be skipped

	c, err := New(table, forest, index, Options{})
	if err == nil {
		t.Fatal("expected a joined lookup error")
	}
	var lookupErr *model.LookupError
	if !errors.As(err, &lookupErr) || lookupErr.NodeID != "B" {
		t.Fatalf("expected LookupError for B, got %v", err)
	}
	if _, ok := c.Record("B"); ok {
		t.Error("B should not have a record")
	}
	if _, ok := c.Record("C"); ok {
		t.Error("C (inside B's subtree) should not have a record")
	}
	// The rest of the forest stays usable.
	if _, ok := c.Record("D"); !ok {
		t.Error("D should still be built")
	}
	checkHiddenInvariant(t, c)
}

func TestBuildLookupErrorOutOfBounds(t *testing.T) {
	table, forest, index := fixture()
	index["D"] = 99

	_, err := New(table, forest, index, Options{})
	var lookupErr *model.LookupError
	if !errors.As(err, &lookupErr) || lookupErr.NodeID != "D" || lookupErr.Pos != 99 {
		t.Fatalf("expected out-of-bounds LookupError for D, got %v", err)
	}
}

func TestBuildStructureError(t *testing.T) {
	table, forest, index := fixture()
	table.Rows[4].Cells = nil // D's row loses its header cell

	_, err := New(table, forest, index, Options{})
	var structErr *model.StructureError
	if !errors.As(err, &structErr) || structErr.NodeID != "D" {
		t.Fatalf("expected StructureError for D, got %v", err)
	}
}

func TestConfigErrorLeavesTableUntouched(t *testing.T) {
	table, forest, index := fixture()
	_, err := New(table, forest, index, Options{HierarchyColumn: -1})

	var cfgErr *model.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	for i, row := range table.Rows {
		if len(row.ClassList()) != 0 || row.Toggle {
			t.Errorf("row %d mutated despite config failure", i)
		}
	}
	if _, err := New(nil, forest, index, Options{}); !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigError for nil table, got %v", err)
	}
}

func TestDefaults(t *testing.T) {
	table, forest, index := fixture()
	c := mustNew(t, table, forest, index, Options{})

	for _, rec := range c.Records() {
		if rec.HasChildren && !rec.Collapsed() {
			t.Errorf("record %s: expected collapsed by default", rec.ID)
		}
		if rec.Level == 0 && rec.Hidden() {
			t.Errorf("root %s: expected visible by default", rec.ID)
		}
		if rec.Level > 0 && !rec.Hidden() {
			t.Errorf("record %s at level %d: expected hidden by default", rec.ID, rec.Level)
		}
	}
	checkHiddenInvariant(t, c)
}

func TestToggleCollapsePropagation(t *testing.T) {
	table, forest, index := fixture()
	c := mustNew(t, table, forest, index, Options{})

	if !c.ToggleCollapse("A") {
		t.Fatal("ToggleCollapse(A) should succeed")
	}
	b, _ := c.Record("B")
	d, _ := c.Record("D")
	cc, _ := c.Record("C")
	if b.Hidden() || d.Hidden() {
		t.Error("direct children should be visible after expanding A")
	}
	// Expanding a parent never force-reveals grandchildren whose own
	// parent is still collapsed.
	if !cc.Hidden() {
		t.Error("grandchild C should stay hidden while B is collapsed")
	}
	if !b.Row.HasClass(ClassCollapsed) {
		t.Error("B should still carry the collapsed class")
	}
	checkHiddenInvariant(t, c)

	// Collapse A again: B is hidden and stays collapsed.
	c.ToggleCollapse("A")
	if !b.Hidden() || !d.Hidden() {
		t.Error("children should be hidden after collapsing A")
	}
	if !b.Collapsed() {
		t.Error("B should be collapsed after cascade")
	}
	checkHiddenInvariant(t, c)
}

func TestCollapseCascadesDownward(t *testing.T) {
	table, forest, index := fixture()
	c := mustNew(t, table, forest, index, Options{})

	c.ToggleCollapse("A") // expand
	c.ToggleCollapse("B") // expand
	cc, _ := c.Record("C")
	if cc.Hidden() {
		t.Fatal("C should be visible after expanding A and B")
	}

	c.ToggleCollapse("A") // collapse everything under A
	b, _ := c.Record("B")
	if !b.Collapsed() {
		t.Error("collapsing A should force B collapsed")
	}
	if !cc.Hidden() {
		t.Error("collapsing A should hide C")
	}

	// Re-expanding A starts from a fully collapsed subtree.
	c.ToggleCollapse("A")
	if !b.Collapsed() || !cc.Hidden() {
		t.Error("re-expanding A must not resurface B's subtree")
	}
	checkHiddenInvariant(t, c)
}

func TestDoubleToggleRoundTrip(t *testing.T) {
	table, forest, index := fixture()
	c := mustNew(t, table, forest, index, Options{})
	c.ToggleCollapse("A")
	c.ToggleCollapse("B")

	type snap struct {
		hidden    bool
		collapsed bool
	}
	before := make(map[string]snap)
	for _, rec := range c.Records() {
		before[rec.ID] = snap{rec.Hidden(), rec.Collapsed()}
	}

	c.ToggleCollapse("B")
	c.ToggleCollapse("B")

	for _, rec := range c.Records() {
		want := before[rec.ID]
		if rec.Hidden() != want.hidden || rec.Collapsed() != want.collapsed {
			t.Errorf("record %s: state after double toggle = {hidden:%v collapsed:%v}, want %+v",
				rec.ID, rec.Hidden(), rec.Collapsed(), want)
		}
	}
}

func TestToggleCollapseLeafIsNoop(t *testing.T) {
	table, forest, index := fixture()
	c := mustNew(t, table, forest, index, Options{})

	if c.ToggleCollapse("D") {
		t.Error("toggling a leaf should report false")
	}
	if c.ToggleCollapse("unknown") {
		t.Error("toggling an unknown id should report false")
	}
	d, _ := c.Record("D")
	if d.HasCollapseState() {
		t.Error("leaf must keep no collapse state permanently")
	}
}

func TestToggleCollapseHiddenRecordRefused(t *testing.T) {
	table, forest, index := fixture()
	c := mustNew(t, table, forest, index, Options{})

	var events []Event
	c.Subscribe(ObserverFunc(func(e Event) { events = append(events, e) }))

	// B sits hidden under collapsed A; expanding it would reveal C
	// beneath a still-collapsed ancestor.
	if c.ToggleCollapse("B") {
		t.Fatal("toggling a hidden record should report false")
	}
	b, _ := c.Record("B")
	cc, _ := c.Record("C")
	if !b.Collapsed() || !cc.Hidden() {
		t.Error("refused toggle must leave the subtree untouched")
	}
	if len(events) != 0 {
		t.Errorf("refused toggle must emit no events, got %v", events)
	}
	checkHiddenInvariant(t, c)

	// Once A is expanded, B becomes toggleable again.
	c.ToggleCollapse("A")
	if !c.ToggleCollapse("B") {
		t.Error("toggling the now-visible B should succeed")
	}
	checkHiddenInvariant(t, c)
}

func TestHierarchyColumnNonZero(t *testing.T) {
	// The category label lives in the second column; the first carries
	// the counts.
	table := &model.Table{Rows: []*model.Row{
		model.NewRow(model.Cell{Text: "310"}, model.Cell{Text: "Region", Href: "http://reports/drill?cat=Region"}),
		model.NewRow(model.Cell{Text: "120"}, model.Cell{Text: "Region/North", Href: "http://reports/drill?cat=North"}),
	}}
	forest := []*model.HierarchyNode{
		{ID: "A", Name: "Region", Children: []*model.HierarchyNode{
			{ID: "B", Name: "Region/North", Parent: "A"},
		}},
	}
	c := mustNew(t, table, forest, model.RowHeaderIndex{"A": 0, "B": 1}, Options{HierarchyColumn: 1})

	if c.HierarchyColumn() != 1 {
		t.Fatalf("HierarchyColumn() = %d, want 1", c.HierarchyColumn())
	}
	a, _ := c.Record("A")
	b, _ := c.Record("B")
	if a.Label() != "Region" || b.Label() != "North" {
		t.Errorf("labels = %q, %q", a.Label(), b.Label())
	}
	// The count column is left alone.
	if a.Row.Cells[0].Text != "310" || b.Row.Cells[0].Text != "120" {
		t.Errorf("data cells mutated: %q, %q", a.Row.Cells[0].Text, b.Row.Cells[0].Text)
	}
	if cells := a.DataCells(); len(cells) != 1 || cells[0].Text != "310" {
		t.Errorf("DataCells(A) = %v", cells)
	}
	// Drill-down stripping follows the hierarchy column.
	if a.LabelHref() == "" {
		t.Error("root drill-down link should be preserved")
	}
	if b.LabelHref() != "" {
		t.Errorf("nested drill-down link should be stripped, got %q", b.LabelHref())
	}

	c.SetFlatMode(true)
	if b.Label() != "Region/North" {
		t.Errorf("flat label = %q, want %q", b.Label(), "Region/North")
	}
	if b.Row.Cells[0].Text != "120" {
		t.Errorf("flat relabel touched the data column: %q", b.Row.Cells[0].Text)
	}
}

func TestSetFlatModeLabels(t *testing.T) {
	table, forest, index := fixture()
	c := mustNew(t, table, forest, index, Options{})

	b, _ := c.Record("B")
	if got := b.Row.Cells[0].Text; got != "North" {
		t.Fatalf("tree-mode label = %q, want %q", got, "North")
	}

	c.SetFlatMode(true)
	if got := b.Row.Cells[0].Text; got != "Region/North" {
		t.Errorf("flat-mode label = %q, want %q", got, "Region/North")
	}
	if !table.HasClass(ClassFlatView) {
		t.Error("table should carry the flat-view class")
	}

	// Round trip restores every displayed label.
	c.SetFlatMode(false)
	for _, rec := range c.Records() {
		if got := rec.Row.Cells[0].Text; got != rec.Name {
			t.Errorf("record %s: label after round trip = %q, want %q", rec.ID, got, rec.Name)
		}
	}
	if table.HasClass(ClassFlatView) {
		t.Error("flat-view class should be removed in tree mode")
	}
}

func TestSetFlatModeIdempotent(t *testing.T) {
	table, forest, index := fixture()
	c := mustNew(t, table, forest, index, Options{})

	var events []Event
	c.Subscribe(ObserverFunc(func(e Event) { events = append(events, e) }))

	c.SetFlatMode(false) // already tree mode: no event
	c.SetFlatMode(true)
	c.SetFlatMode(true) // no additional event
	c.SetFlatMode(false)

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d: %v", len(events), events)
	}
	if events[0].Kind != EventFlatView || events[1].Kind != EventTreeView {
		t.Errorf("unexpected event kinds: %v, %v", events[0].Kind, events[1].Kind)
	}
}

func TestInitialFlatMode(t *testing.T) {
	table, forest, index := fixture()
	c := mustNew(t, table, forest, index, Options{FlatMode: true})

	b, _ := c.Record("B")
	if got := b.Row.Cells[0].Text; got != "Region/North" {
		t.Errorf("initial flat label = %q, want %q", got, "Region/North")
	}
	if !table.HasClass(ClassFlatView) {
		t.Error("table should carry the flat-view class from construction")
	}
	if !c.FlatMode() {
		t.Error("FlatMode() should report true")
	}
}

func TestSearchTreeMode(t *testing.T) {
	table, forest, index := fixture()
	c := mustNew(t, table, forest, index, Options{})

	// In tree mode only segment labels are searched, so "North" matches
	// B alone; C's segment is "Coastal".
	matches := c.Search("North")
	if len(matches) != 1 || matches[0].ID != "B" {
		t.Fatalf("expected exactly B to match, got %v", ids(matches))
	}

	a, _ := c.Record("A")
	b, _ := c.Record("B")
	cc, _ := c.Record("C")
	if a.Collapsed() {
		t.Error("A should be uncollapsed so the path to the match is visible")
	}
	if !a.Highlighted() || !b.Highlighted() {
		t.Error("A and B should both be highlighted")
	}
	if !b.Matched() || a.Matched() {
		t.Error("only B carries the matched flag")
	}
	if b.Hidden() {
		t.Error("B should be visible via ancestor expansion")
	}
	// Descendant reveal paints C but does not un-hide it.
	if !cc.Highlighted() {
		t.Error("descendant C should be highlighted")
	}
	if !cc.Hidden() {
		t.Error("descendant C must stay hidden while B is collapsed")
	}
	checkHiddenInvariant(t, c)
}

func TestSearchFlatModeMatchesFullPath(t *testing.T) {
	table, forest, index := fixture()
	c := mustNew(t, table, forest, index, Options{})

	// "Region/No" only exists in the full path label.
	if matches := c.Search("Region/No"); len(matches) != 0 {
		t.Errorf("tree-mode search on a path fragment should not match, got %v", ids(matches))
	}
	c.SetFlatMode(true)
	matches := c.Search("Region/No")
	if len(matches) != 2 { // Region/North and Region/North/Coastal
		t.Fatalf("expected 2 flat-mode matches, got %v", ids(matches))
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	table, forest, index := fixture()
	c := mustNew(t, table, forest, index, Options{})

	if matches := c.Search("nOrTh"); len(matches) != 1 || matches[0].ID != "B" {
		t.Errorf("case-insensitive search failed: %v", ids(matches))
	}
}

func TestSearchEmptyQueryMatchesNothing(t *testing.T) {
	table, forest, index := fixture()
	c := mustNew(t, table, forest, index, Options{})

	if matches := c.Search(""); len(matches) != 0 {
		t.Errorf("empty query must match zero records, got %v", ids(matches))
	}
	if matches := c.Search("   "); len(matches) != 0 {
		t.Errorf("whitespace query must match zero records, got %v", ids(matches))
	}
}

func TestSearchResetsPreviousHighlights(t *testing.T) {
	table, forest, index := fixture()
	c := mustNew(t, table, forest, index, Options{})

	c.Search("North")
	c.Search("Widgets")

	b, _ := c.Record("B")
	if b.Matched() || b.Highlighted() {
		t.Error("previous match B should be cleared by the next search")
	}
	f, _ := c.Record("F")
	if !f.Matched() || !f.Highlighted() {
		t.Error("F should be the current match")
	}

	// An empty query clears everything.
	c.Search("")
	for _, rec := range c.Records() {
		if rec.Matched() || rec.Highlighted() {
			t.Errorf("record %s still marked after clearing search", rec.ID)
		}
	}
}

func TestSearchNoMatchesIsNoop(t *testing.T) {
	table, forest, index := fixture()
	c := mustNew(t, table, forest, index, Options{})

	if matches := c.Search("does-not-exist"); len(matches) != 0 {
		t.Errorf("expected no matches, got %v", ids(matches))
	}
	checkHiddenInvariant(t, c)
}

func TestCollapseEvents(t *testing.T) {
	table, forest, index := fixture()
	c := mustNew(t, table, forest, index, Options{})

	var events []Event
	c.Subscribe(ObserverFunc(func(e Event) { events = append(events, e) }))

	c.ToggleCollapse("A")
	c.ToggleCollapse("A")

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Kind != EventUncollapsed || events[0].RecordID != "A" {
		t.Errorf("first event = %v %q, want uncollapsed A", events[0].Kind, events[0].RecordID)
	}
	if events[1].Kind != EventCollapsed || events[1].RecordID != "A" {
		t.Errorf("second event = %v %q, want collapsed A", events[1].Kind, events[1].RecordID)
	}
}

func TestSearchEmitsUncollapseEvents(t *testing.T) {
	table, forest, index := fixture()
	c := mustNew(t, table, forest, index, Options{})

	var kinds []EventKind
	c.Subscribe(ObserverFunc(func(e Event) { kinds = append(kinds, e.Kind) }))

	c.Search("Coastal")
	// Both A and B must be expanded through the normal event machinery.
	uncollapses := 0
	for _, k := range kinds {
		if k == EventUncollapsed {
			uncollapses++
		}
	}
	if uncollapses != 2 {
		t.Errorf("expected 2 uncollapse events (A and B), got %d (%v)", uncollapses, kinds)
	}
	checkHiddenInvariant(t, c)
}

func TestVisible(t *testing.T) {
	table, forest, index := fixture()
	c := mustNew(t, table, forest, index, Options{})

	if got := ids(c.Visible()); len(got) != 2 || got[0] != "A" || got[1] != "E" {
		t.Fatalf("initially only roots visible, got %v", got)
	}
	c.ToggleCollapse("A")
	if got := ids(c.Visible()); len(got) != 4 {
		t.Errorf("after expanding A expected 4 visible records, got %v", got)
	}
}

func ids(recs []*Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}
