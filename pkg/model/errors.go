package model

import "fmt"

// LookupError reports a hierarchy node whose row-index entry does not
// exist (or points outside the table body). Building a record for such a
// node would leave it pointing at nothing, so the affected subtree is
// skipped and the failure surfaced to the caller.
type LookupError struct {
	NodeID string
	Pos    int // resolved row position, -1 when the index entry is absent
}

func (e *LookupError) Error() string {
	if e.Pos < 0 {
		return fmt.Sprintf("hierarchy node %q has no row-index entry", e.NodeID)
	}
	return fmt.Sprintf("hierarchy node %q: row index %d is out of table bounds", e.NodeID, e.Pos)
}

// StructureError reports a row whose required header cell is missing or
// malformed when a label must be read or written.
type StructureError struct {
	NodeID string
	Reason string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("hierarchy node %q: %s", e.NodeID, e.Reason)
}

// ConfigError reports invalid viewer configuration. It is surfaced at
// construction time, before any table mutation, so a failed construction
// leaves the table untouched.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Reason)
}
