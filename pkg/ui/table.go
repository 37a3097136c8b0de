// table.go - Renders the hierarchy controller's visible rows as a
// navigable terminal table.
package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/hierarchy"
)

// TableModel manages cursor navigation and rendering over the records
// the controller currently shows. The controller owns all tree state;
// the model only tracks the cursor and re-snapshots visibility after
// every mutation.
type TableModel struct {
	ctrl    *hierarchy.Controller
	visible []*hierarchy.Record
	cursor  int
	theme   Theme

	width  int
	height int
	offset int // first visible row index for scrolling
}

// NewTableModel wraps an already-built controller.
func NewTableModel(ctrl *hierarchy.Controller, theme Theme) TableModel {
	t := TableModel{ctrl: ctrl, theme: theme}
	t.Refresh()
	return t
}

// SetSize updates the available dimensions.
func (t *TableModel) SetSize(width, height int) {
	t.width = width
	t.height = height
}

// Refresh re-snapshots the visible records, keeping the cursor on the
// same record when it survives the change.
func (t *TableModel) Refresh() {
	var selectedID string
	if rec := t.SelectedRecord(); rec != nil {
		selectedID = rec.ID
	}
	t.visible = t.ctrl.Visible()
	if selectedID != "" && !t.SelectByID(selectedID) {
		if t.cursor >= len(t.visible) {
			t.cursor = len(t.visible) - 1
		}
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}

// SelectedRecord returns the record under the cursor, or nil.
func (t *TableModel) SelectedRecord() *hierarchy.Record {
	if t.cursor >= 0 && t.cursor < len(t.visible) {
		return t.visible[t.cursor]
	}
	return nil
}

// SelectByID moves the cursor to the given record id. Returns true if
// the record is currently visible.
func (t *TableModel) SelectByID(id string) bool {
	for i, rec := range t.visible {
		if rec.ID == id {
			t.cursor = i
			return true
		}
	}
	return false
}

// MoveDown moves the cursor down one visible row.
func (t *TableModel) MoveDown() {
	if t.cursor < len(t.visible)-1 {
		t.cursor++
	}
}

// MoveUp moves the cursor up one visible row.
func (t *TableModel) MoveUp() {
	if t.cursor > 0 {
		t.cursor--
	}
}

// JumpToTop moves the cursor to the first visible row.
func (t *TableModel) JumpToTop() { t.cursor = 0 }

// JumpToBottom moves the cursor to the last visible row.
func (t *TableModel) JumpToBottom() {
	if len(t.visible) > 0 {
		t.cursor = len(t.visible) - 1
	}
}

// PageDown moves the cursor down by half a viewport.
func (t *TableModel) PageDown() {
	page := t.height / 2
	if page < 1 {
		page = 5
	}
	t.cursor += page
	if t.cursor >= len(t.visible) {
		t.cursor = len(t.visible) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}

// PageUp moves the cursor up by half a viewport.
func (t *TableModel) PageUp() {
	page := t.height / 2
	if page < 1 {
		page = 5
	}
	t.cursor -= page
	if t.cursor < 0 {
		t.cursor = 0
	}
}

// ToggleSelected flips the collapse state of the record under the
// cursor. Returns false for leaves and an empty table.
func (t *TableModel) ToggleSelected() bool {
	rec := t.SelectedRecord()
	if rec == nil {
		return false
	}
	if !t.ctrl.ToggleCollapse(rec.ID) {
		return false
	}
	t.Refresh()
	return true
}

// VisibleCount returns the number of rows currently shown.
func (t *TableModel) VisibleCount() int {
	return len(t.visible)
}

// View renders the visible rows.
func (t *TableModel) View() string {
	if len(t.visible) == 0 {
		return t.theme.MutedText.Render("No categories to display.")
	}

	start, end := t.visibleRange()
	var sb strings.Builder
	for i := start; i < end; i++ {
		line := t.renderRecord(t.visible[i])
		if i == t.cursor {
			line = t.theme.Selected.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

// visibleRange keeps the cursor inside the scrolled window.
func (t *TableModel) visibleRange() (int, int) {
	rows := t.height
	if rows <= 0 {
		rows = 20
	}
	if t.cursor < t.offset {
		t.offset = t.cursor
	}
	if t.cursor >= t.offset+rows {
		t.offset = t.cursor - rows + 1
	}
	end := t.offset + rows
	if end > len(t.visible) {
		end = len(t.visible)
	}
	return t.offset, end
}

func (t *TableModel) renderRecord(rec *hierarchy.Record) string {
	var sb strings.Builder

	sb.WriteString(strings.Repeat("  ", rec.Level))
	sb.WriteString(t.theme.ToggleGlyph.Render(toggleGlyph(rec)))
	sb.WriteString(" ")

	labelWidth := t.width / 2
	if labelWidth < 24 {
		labelWidth = 24
	}
	used := rec.Level*2 + 2
	label := truncateLabel(rec.Label(), labelWidth-used)

	switch {
	case rec.Matched():
		sb.WriteString(t.theme.MatchText.Render(label))
	case rec.Highlighted():
		sb.WriteString(t.theme.PathText.Render(label))
	case rec.LabelHref() != "":
		sb.WriteString(t.theme.LinkText.Render(label))
	default:
		sb.WriteString(t.theme.Base.Render(label))
	}
	if pad := labelWidth - used - runewidth.StringWidth(label); pad > 0 {
		sb.WriteString(strings.Repeat(" ", pad))
	}

	for _, cell := range rec.DataCells() {
		sb.WriteString(t.theme.MutedText.Render(fmt.Sprintf(" │ %8s", truncateLabel(cell.Text, 12))))
	}
	return sb.String()
}

func toggleGlyph(rec *hierarchy.Record) string {
	if !rec.HasChildren {
		return " "
	}
	if rec.Collapsed() {
		return "▸"
	}
	return "▾"
}

// truncateLabel trims s to the given display width, runewidth-aware so
// wide glyphs don't break column alignment.
func truncateLabel(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= max {
		return s
	}
	if max <= 1 {
		return runewidth.Truncate(s, max, "")
	}
	return runewidth.Truncate(s, max, "…")
}
