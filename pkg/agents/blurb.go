// Package agents provides AGENTS.md integration for AI coding agents:
// detecting, injecting and refreshing a usage blurb that points agents
// at tat's robot interface instead of the interactive TUI.
package agents

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// BlurbVersion is the current version of the agent instructions blurb.
// Increment when the blurb format changes incompatibly.
const BlurbVersion = 1

// BlurbStartMarker marks the beginning of injected agent instructions.
const BlurbStartMarker = "<!-- tat-agent-instructions-v1 -->"

// BlurbEndMarker marks the end of injected agent instructions.
const BlurbEndMarker = "<!-- end-tat-agent-instructions -->"

// AgentBlurb contains the instructions appended to AGENTS.md files.
const AgentBlurb = `<!-- tat-agent-instructions-v1 -->

---

## Text Analytics Viewer Integration

This project uses tat to browse hierarchical text-analytics reports.
Report bundles live under a directory containing ` + "`table.json`" + ` and
` + "`hierarchy.json`" + ` (or a SQLite export).

### Commands for agents

` + "```" + `bash
# Interactive TUI - avoid in automated sessions
tat

# Machine-readable commands (use these instead)
tat --robot-tree          # Full category tree with row values as JSON
tat --robot-summary       # Per-root column statistics as JSON
tat --robot-presets       # Available view presets as JSON
tat --check-drift --robot-drift   # Baseline drift check as JSON
tat --export-md report.md # Markdown report of the whole hierarchy
` + "```" + `

### Key concepts

- Categories form a tree at most three levels deep; each maps to one
  table row.
- ` + "`--search QUERY`" + ` filters by category name (segment in tree view,
  full path in flat view).
- ` + "`--save-baseline`" + ` snapshots current stats; ` + "`--check-drift`" + ` exits
  1 on critical drift and 2 on warnings, for CI gates.

<!-- end-tat-agent-instructions -->`

// SupportedAgentFiles lists the filenames that can carry agent
// instructions, in lookup order.
var SupportedAgentFiles = []string{
	"AGENTS.md",
	"CLAUDE.md",
	"agents.md",
	"claude.md",
}

var blurbVersionRegex = regexp.MustCompile(`<!-- tat-agent-instructions-v(\d+) -->`)

// ContainsBlurb reports whether content already carries a tat blurb of
// any version.
func ContainsBlurb(content string) bool {
	return strings.Contains(content, "<!-- tat-agent-instructions-v")
}

// GetBlurbVersion extracts the version number from an existing blurb,
// or 0 when none is present.
func GetBlurbVersion(content string) int {
	matches := blurbVersionRegex.FindStringSubmatch(content)
	if len(matches) < 2 {
		return 0
	}
	v, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0
	}
	return v
}

// NeedsUpdate reports whether content carries an older blurb version.
func NeedsUpdate(content string) bool {
	if !ContainsBlurb(content) {
		return false
	}
	return GetBlurbVersion(content) < BlurbVersion
}

// AppendBlurb appends the agent blurb to content.
func AppendBlurb(content string) string {
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if content != "" {
		content += "\n"
	}
	return content + AgentBlurb + "\n"
}

// RemoveBlurb strips an existing blurb, whatever its version.
func RemoveBlurb(content string) string {
	startIdx := strings.Index(content, "<!-- tat-agent-instructions-v")
	if startIdx == -1 {
		return content
	}
	endIdx := strings.Index(content, BlurbEndMarker)
	if endIdx == -1 {
		return content
	}
	endIdx += len(BlurbEndMarker)
	for endIdx < len(content) && (content[endIdx] == '\n' || content[endIdx] == '\r') {
		endIdx++
	}
	for startIdx > 0 && (content[startIdx-1] == '\n' || content[startIdx-1] == '\r') {
		startIdx--
	}
	return content[:startIdx] + content[endIdx:]
}

// UpdateBlurb replaces any existing blurb with the current version.
func UpdateBlurb(content string) string {
	return AppendBlurb(RemoveBlurb(content))
}

// FindAgentFile returns the first supported agent file present in dir,
// or "" when none exists.
func FindAgentFile(dir string) string {
	for _, name := range SupportedAgentFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// EnsureBlurb injects or refreshes the blurb in the given file. It
// reports whether the file was modified.
func EnsureBlurb(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	content := string(data)

	switch {
	case !ContainsBlurb(content):
		content = AppendBlurb(content)
	case NeedsUpdate(content):
		content = UpdateBlurb(content)
	default:
		return false, nil
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, err
	}
	return true, nil
}
