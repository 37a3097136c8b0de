package workspace

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/loader"
	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/model"
)

// ReportResult records the outcome of loading one report bundle.
type ReportResult struct {
	Name       string
	Prefix     string
	Rows       int
	Categories int
	Err        error
}

// LoadSummary aggregates per-report results for the status line.
type LoadSummary struct {
	TotalReports    int
	FailedReports   int
	FailedNames     []string
	TotalRows       int
	TotalCategories int
	Prefixes        []string
}

// Summarize condenses per-report results.
func Summarize(results []ReportResult) LoadSummary {
	s := LoadSummary{TotalReports: len(results)}
	for _, r := range results {
		if r.Err != nil {
			s.FailedReports++
			s.FailedNames = append(s.FailedNames, r.Name)
			continue
		}
		s.TotalRows += r.Rows
		s.TotalCategories += r.Categories
		s.Prefixes = append(s.Prefixes, r.Prefix)
	}
	return s
}

// reportData is one report's wire content with ids already namespaced.
type reportData struct {
	rows    []loader.TableRow
	entries []loader.HierarchyEntry
}

// LoadAllFromConfig loads every enabled report named by the workspace
// config concurrently and merges them into one bundle. A report that
// fails to load is skipped and reported in its result; the merge covers
// whatever loaded.
func LoadAllFromConfig(ctx context.Context, configPath string) (*loader.Bundle, []ReportResult, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	baseDir := filepath.Dir(filepath.Dir(configPath)) // config lives in <root>/.tat/

	var enabled []ReportConfig
	for _, rep := range config.Reports {
		if rep.IsEnabled() {
			enabled = append(enabled, rep)
		}
	}

	results := make([]ReportResult, len(enabled))
	data := make([]reportData, len(enabled))

	g, _ := errgroup.WithContext(ctx)
	for i, rep := range enabled {
		g.Go(func() error {
			results[i] = ReportResult{Name: rep.GetName(), Prefix: rep.GetPrefix()}

			dir := rep.Path
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(baseDir, dir)
			}

			rows, err := loader.LoadTable(filepath.Join(dir, loader.TableFile))
			if err != nil {
				results[i].Err = err
				return nil
			}
			entries, err := loader.LoadHierarchy(filepath.Join(dir, loader.HierarchyFile))
			if err != nil {
				results[i].Err = err
				return nil
			}

			data[i] = namespaceReport(rep.GetPrefix(), rows, entries)
			results[i].Rows = len(rows)
			results[i].Categories = len(entries)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, results, err
	}

	var (
		allRows    []loader.TableRow
		allEntries []loader.HierarchyEntry
		loadedAny  bool
	)
	for i := range enabled {
		if results[i].Err != nil {
			continue
		}
		loadedAny = true
		allRows = append(allRows, data[i].rows...)
		allEntries = append(allEntries, data[i].entries...)
	}
	if !loadedAny {
		return nil, results, fmt.Errorf("workspace: no report could be loaded")
	}

	forest, err := loader.BuildForest(allEntries)
	if err != nil {
		return nil, results, err
	}
	index, err := loader.DeriveIndex(allRows)
	if err != nil {
		return nil, results, err
	}

	table := &model.Table{Rows: make([]*model.Row, len(allRows))}
	for i, r := range allRows {
		table.Rows[i] = model.NewRow(r.Cells...)
	}

	return &loader.Bundle{Table: table, Forest: forest, Index: index}, results, nil
}

// namespaceReport prefixes every id and parent link so categories from
// different reports cannot collide in the merged forest.
func namespaceReport(prefix string, rows []loader.TableRow, entries []loader.HierarchyEntry) reportData {
	d := reportData{
		rows:    make([]loader.TableRow, len(rows)),
		entries: make([]loader.HierarchyEntry, len(entries)),
	}
	for i, r := range rows {
		d.rows[i] = r
		if r.ID != "" {
			d.rows[i].ID = QualifyID(r.ID, prefix)
		}
	}
	for i, e := range entries {
		d.entries[i] = e
		d.entries[i].ID = QualifyID(e.ID, prefix)
		if e.Parent != "" {
			d.entries[i].Parent = QualifyID(e.Parent, prefix)
		}
	}
	return d
}
