package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/hierarchy"
	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/model"
)

// htmlStyle keys off the controller's marker classes, so the exported
// table reproduces the live view state without any script.
const htmlStyle = `    table { border-collapse: collapse; font-family: sans-serif; }
    td { border: 1px solid #ccc; padding: 4px 10px; }
    tr.hidden { display: none; }
    tr.highlighted td { background: #fff3bf; }
    tr.level-1 td:first-child { padding-left: 28px; }
    tr.level-2 td:first-child { padding-left: 52px; }
    span.toggle { display: inline-block; width: 1em; color: #666; }
`

// GenerateHTML renders the table as a standalone HTML document. Marker
// classes and data attributes are written through verbatim; collapsed
// subtrees stay hidden in the export exactly as on screen.
func GenerateHTML(c *hierarchy.Controller, title string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("nil controller")
	}
	var sb strings.Builder

	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	sb.WriteString(fmt.Sprintf("  <meta charset=\"utf-8\">\n  <title>%s</title>\n", html.EscapeString(title)))
	sb.WriteString("  <style>\n" + htmlStyle + "  </style>\n</head>\n<body>\n")
	sb.WriteString(fmt.Sprintf("  <h1>%s</h1>\n", html.EscapeString(title)))

	sb.WriteString("  <table")
	if classes := c.Table().ClassList(); len(classes) > 0 {
		sb.WriteString(fmt.Sprintf(" class=%q", strings.Join(classes, " ")))
	}
	sb.WriteString(">\n")

	byRow := make(map[*model.Row]*hierarchy.Record, len(c.Records()))
	for _, rec := range c.Records() {
		byRow[rec.Row] = rec
	}
	for _, row := range c.Table().Rows {
		writeRowHTML(&sb, row, byRow[row], c.HierarchyColumn())
	}

	sb.WriteString("  </table>\n</body>\n</html>\n")
	return sb.String(), nil
}

func writeRowHTML(sb *strings.Builder, row *model.Row, rec *hierarchy.Record, labelCol int) {
	sb.WriteString("    <tr")
	if classes := row.ClassList(); len(classes) > 0 {
		sb.WriteString(fmt.Sprintf(" class=%q", strings.Join(classes, " ")))
	}
	for _, key := range row.AttrKeys() {
		sb.WriteString(fmt.Sprintf(" %s=%q", key, row.Attr(key)))
	}
	sb.WriteString(">")

	for i, cell := range row.Cells {
		sb.WriteString("<td>")
		if i == labelCol && row.Toggle && rec != nil {
			marker := "&#9662;" // expanded
			if rec.Collapsed() {
				marker = "&#9656;"
			}
			if !rec.HasChildren {
				marker = "&nbsp;"
			}
			sb.WriteString(fmt.Sprintf("<span class=\"toggle\">%s</span>", marker))
		}
		if cell.Href != "" {
			sb.WriteString(fmt.Sprintf("<a href=%q>%s</a>", cell.Href, html.EscapeString(cell.Text)))
		} else {
			sb.WriteString(html.EscapeString(cell.Text))
		}
		sb.WriteString("</td>")
	}
	sb.WriteString("</tr>\n")
}
