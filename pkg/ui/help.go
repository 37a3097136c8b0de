package ui

import (
	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# Text Analytics Viewer

## Navigation

| Key | Action |
|---|---|
| j / ↓ | move down |
| k / ↑ | move up |
| g / G | jump to top / bottom |
| ctrl+d / ctrl+u | half page down / up |

## Tree

| Key | Action |
|---|---|
| space / enter | expand or collapse the selected category |
| f | toggle flat (full path) labels |

## Search

| Key | Action |
|---|---|
| / | start incremental search |
| enter | apply immediately |
| esc | clear the search |

Matches are highlighted; collapsed ancestors of a match are expanded so
the path to every match is visible.

## Other

| Key | Action |
|---|---|
| y | copy the selected row |
| ? | toggle this help |
| q | quit |
`

// renderHelp renders the help screen through glamour, falling back to
// the raw markdown when the renderer cannot be built.
func renderHelp(width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-2),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}
