package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/config"
	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/hierarchy"
	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/watcher"
)

// searchTickMsg fires when a debounce window elapses. The sequence
// number discards stale ticks after further keystrokes.
type searchTickMsg struct {
	seq int
}

// ReloadMsg signals that the bundle on disk changed.
type ReloadMsg struct{}

// reloadedMsg carries the outcome of a rebuild.
type reloadedMsg struct {
	ctrl *hierarchy.Controller
	err  error
}

// WatchBundle returns a command that delivers one ReloadMsg per
// coalesced bundle change. Re-issue it after handling to keep
// listening.
func WatchBundle(w *watcher.BundleWatcher) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-w.C; !ok {
			return nil
		}
		return ReloadMsg{}
	}
}

// eventRecorder captures the controller's structural events for the
// status line. It lives behind a pointer so the observer closure stays
// valid across bubbletea's model copies.
type eventRecorder struct {
	mu    sync.Mutex
	last  string
	count int
}

func (e *eventRecorder) HierarchyEvent(ev hierarchy.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.count++
	if ev.RecordID != "" {
		e.last = fmt.Sprintf("%s %s", ev.Kind, ev.RecordID)
	} else {
		e.last = ev.Kind.String()
	}
}

func (e *eventRecorder) Last() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// Model is the top-level bubbletea model for the viewer.
type Model struct {
	ctrl   *hierarchy.Controller
	table  TableModel
	search textinput.Model
	theme  Theme
	cfg    *config.Config

	events *eventRecorder

	// Rebuild is called on ReloadMsg to reload the bundle and build a
	// fresh controller. Nil disables hot reload.
	Rebuild func() (*hierarchy.Controller, error)

	// Watcher, when set, is re-armed after every reload.
	Watcher *watcher.BundleWatcher

	searching    bool
	searchSeq    int
	matchCount   int
	showHelp     bool
	helpContent  string
	statusMsg    string
	ready        bool
	width        int
	height       int
}

// NewModel builds the UI around an already-constructed controller.
func NewModel(ctrl *hierarchy.Controller, cfg *config.Config, theme Theme) Model {
	if cfg == nil {
		def := config.DefaultConfig()
		cfg = &def
	}

	input := textinput.New()
	input.Placeholder = "search categories"
	input.Prompt = "/ "
	input.CharLimit = 120

	events := &eventRecorder{}
	ctrl.Subscribe(events)
	if cfg.FlatMode {
		ctrl.SetFlatMode(true)
	}

	m := Model{
		ctrl:   ctrl,
		table:  NewTableModel(ctrl, theme),
		search: input,
		theme:  theme,
		cfg:    cfg,
		events: events,
	}

	if q := cfg.Search.Query; q != "" && cfg.Search.IsEnabled() {
		m.search.SetValue(q)
		m.applySearch(q)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.Watcher != nil {
		return WatchBundle(m.Watcher)
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetSize(msg.Width, msg.Height-3) // search line + footer
		m.search.Width = msg.Width - 4
		m.ready = true
		return m, nil

	case searchTickMsg:
		if msg.seq == m.searchSeq {
			m.applySearch(m.search.Value())
		}
		return m, nil

	case ReloadMsg:
		if m.Rebuild == nil {
			return m, nil
		}
		return m, func() tea.Msg {
			ctrl, err := m.Rebuild()
			return reloadedMsg{ctrl: ctrl, err: err}
		}

	case reloadedMsg:
		var cmd tea.Cmd
		if m.Watcher != nil {
			cmd = WatchBundle(m.Watcher)
		}
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("reload failed: %v", msg.err)
			return m, cmd
		}
		flat := m.ctrl.FlatMode()
		m.ctrl = msg.ctrl
		m.ctrl.Subscribe(m.events)
		m.ctrl.SetFlatMode(flat)
		m.table = NewTableModel(m.ctrl, m.theme)
		m.table.SetSize(m.width, m.height-3)
		if q := strings.TrimSpace(m.search.Value()); q != "" {
			m.applySearch(q)
		}
		m.statusMsg = "bundle reloaded"
		return m, cmd

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.applySearch("")
		return m, nil
	case "enter":
		m.searching = false
		m.search.Blur()
		m.searchSeq++ // cancel any pending tick
		m.applySearch(m.search.Value())
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	if m.cfg.Search.Immediate {
		m.applySearch(m.search.Value())
		return m, cmd
	}
	m.searchSeq++
	seq := m.searchSeq
	debounce := m.cfg.Search.Debounce()
	return m, tea.Batch(cmd, tea.Tick(debounce, func(time.Time) tea.Msg {
		return searchTickMsg{seq: seq}
	}))
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		switch msg.String() {
		case "q", "esc", "?":
			m.showHelp = false
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "j", "down":
		m.table.MoveDown()
	case "k", "up":
		m.table.MoveUp()
	case "g", "home":
		m.table.JumpToTop()
	case "G", "end":
		m.table.JumpToBottom()
	case "ctrl+d":
		m.table.PageDown()
	case "ctrl+u":
		m.table.PageUp()
	case " ", "enter":
		if !m.table.ToggleSelected() {
			m.statusMsg = "no subcategories"
		} else {
			m.statusMsg = ""
		}
	case "f":
		m.ctrl.SetFlatMode(!m.ctrl.FlatMode())
		m.table.Refresh()
	case "/":
		if m.cfg.Search.IsEnabled() {
			m.searching = true
			m.search.Focus()
		} else {
			m.statusMsg = "search disabled by config"
		}
	case "y":
		m.yankSelected()
	case "?":
		m.showHelp = true
		if m.helpContent == "" {
			m.helpContent = renderHelp(m.width)
		}
	}
	return m, nil
}

// applySearch runs the query through the controller and refreshes the
// visible snapshot; ancestor expansion changes what is shown.
func (m *Model) applySearch(query string) {
	matches := m.ctrl.Search(query)
	m.matchCount = len(matches)
	m.table.Refresh()
	if len(matches) > 0 {
		m.table.SelectByID(matches[0].ID)
	}
}

// yankSelected copies the selected record's full path and cell values.
func (m *Model) yankSelected() {
	rec := m.table.SelectedRecord()
	if rec == nil {
		return
	}
	parts := []string{rec.FlatName}
	for _, cell := range rec.DataCells() {
		parts = append(parts, cell.Text)
	}
	if err := clipboard.WriteAll(strings.Join(parts, "\t")); err != nil {
		m.statusMsg = "clipboard unavailable"
		return
	}
	m.statusMsg = fmt.Sprintf("copied %s", rec.FlatName)
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.showHelp {
		return m.helpContent
	}

	var sections []string
	if m.searching || strings.TrimSpace(m.search.Value()) != "" {
		sections = append(sections, m.search.View())
	}
	sections = append(sections, m.table.View(), m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderFooter() string {
	mode := "tree"
	if m.ctrl.FlatMode() {
		mode = "flat"
	}
	left := m.theme.Header.Render(fmt.Sprintf(" %s ", strings.ToUpper(mode)))

	stats := fmt.Sprintf(" %d/%d categories ", m.table.VisibleCount(), len(m.ctrl.Records()))
	if q := strings.TrimSpace(m.search.Value()); q != "" {
		stats += fmt.Sprintf("· %d matches ", m.matchCount)
	}
	if last := m.events.Last(); last != "" {
		stats += fmt.Sprintf("· %s ", last)
	}
	if m.statusMsg != "" {
		stats += fmt.Sprintf("· %s ", m.statusMsg)
	}
	statsSection := m.theme.MutedText.Render(stats)

	keys := "space: toggle · f: flat · /: search · y: copy · ?: help · q: quit"
	keysSection := m.theme.MutedText.Render(keys)

	remaining := m.width - lipgloss.Width(left) - lipgloss.Width(statsSection) - lipgloss.Width(keysSection)
	if remaining < 0 {
		remaining = 0
	}
	filler := strings.Repeat(" ", remaining)

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, statsSection, filler, keysSection)
}

// FlatMode reports the controller's current display mode (exposed for
// testing/control).
func (m Model) FlatMode() bool {
	return m.ctrl.FlatMode()
}

// MatchCount returns the size of the last search result set.
func (m Model) MatchCount() int {
	return m.matchCount
}

// SelectedID returns the id of the record under the cursor, or "".
func (m Model) SelectedID() string {
	if rec := m.table.SelectedRecord(); rec != nil {
		return rec.ID
	}
	return ""
}
