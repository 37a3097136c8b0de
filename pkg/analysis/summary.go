// Package analysis computes descriptive statistics over the numeric
// columns of a report, whole-table or per category subtree.
package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/hierarchy"
	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/model"
)

// ColumnSummary describes the numeric cells of one table column.
// Non-numeric cells are excluded from Count and every statistic.
type ColumnSummary struct {
	Column int     `json:"column"`
	Count  int     `json:"count"`
	Sum    float64 `json:"sum"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summarize computes a ColumnSummary per column across the given rows.
// Columns with no numeric cells are omitted. Cell values are re-derived
// from the live rows on every call, so summaries never go stale.
func Summarize(rows []*model.Row) []ColumnSummary {
	byCol := make(map[int][]float64)
	maxCol := -1
	for _, row := range rows {
		if row == nil {
			continue
		}
		for col, v := range row.CellValues() {
			if !v.IsNumber {
				continue
			}
			byCol[col] = append(byCol[col], v.Number)
			if col > maxCol {
				maxCol = col
			}
		}
	}

	var out []ColumnSummary
	for col := 0; col <= maxCol; col++ {
		xs := byCol[col]
		if len(xs) == 0 {
			continue
		}
		out = append(out, summarizeColumn(col, xs))
	}
	return out
}

func summarizeColumn(col int, xs []float64) ColumnSummary {
	s := ColumnSummary{
		Column: col,
		Count:  len(xs),
		Mean:   stat.Mean(xs, nil),
		Min:    math.Inf(1),
		Max:    math.Inf(-1),
	}
	for _, x := range xs {
		s.Sum += x
		s.Min = math.Min(s.Min, x)
		s.Max = math.Max(s.Max, x)
	}
	if len(xs) > 1 {
		s.StdDev = stat.StdDev(xs, nil)
	}
	return s
}

// SummarizeSubtree computes column summaries over one category and all
// its descendants, regardless of collapse state.
func SummarizeSubtree(c *hierarchy.Controller, id string) ([]ColumnSummary, error) {
	rec, ok := c.Record(id)
	if !ok {
		return nil, fmt.Errorf("unknown category %q", id)
	}
	var rows []*model.Row
	var collect func(*hierarchy.Record)
	collect = func(r *hierarchy.Record) {
		rows = append(rows, r.Row)
		for _, child := range c.Children(r.ID) {
			collect(child)
		}
	}
	collect(rec)
	return Summarize(rows), nil
}

// SummarizeRoots computes, for each root category, the summaries of its
// whole subtree. The result follows record order.
func SummarizeRoots(c *hierarchy.Controller) map[string][]ColumnSummary {
	out := make(map[string][]ColumnSummary)
	for _, root := range c.Children("") {
		if summary, err := SummarizeSubtree(c, root.ID); err == nil {
			out[root.ID] = summary
		}
	}
	return out
}
