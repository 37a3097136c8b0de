// Package loader reads the backend-exported report bundle: a rendered
// table plus the flat category description, as JSON files in one
// directory.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/model"
)

const (
	// TableFile is the rendered statistics table export.
	TableFile = "table.json"
	// HierarchyFile is the flat category description export.
	HierarchyFile = "hierarchy.json"
)

// TableRow is the wire form of one rendered row. ID ties the row to its
// hierarchy node; rows without an id (totals, banners) are carried along
// but never indexed.
type TableRow struct {
	ID    string       `json:"id,omitempty"`
	Cells []model.Cell `json:"cells"`
}

// tableFile is the wire form of table.json.
type tableFile struct {
	Rows []TableRow `json:"rows"`
}

// HierarchyEntry is the wire form of one node in the flat category
// description: parent links only, order as the backend emitted it.
type HierarchyEntry struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Parent string `json:"parent,omitempty"`
}

// Bundle is a fully loaded report: the table, the category forest and
// the row-header index derived from the table's row ids.
type Bundle struct {
	Table  *model.Table
	Forest []*model.HierarchyNode
	Index  model.RowHeaderIndex
}

// LoadBundle reads table.json and hierarchy.json from dir concurrently
// and assembles the Bundle.
func LoadBundle(ctx context.Context, dir string) (*Bundle, error) {
	var (
		rows    []TableRow
		entries []HierarchyEntry
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = LoadTable(filepath.Join(dir, TableFile))
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = LoadHierarchy(filepath.Join(dir, HierarchyFile))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	forest, err := BuildForest(entries)
	if err != nil {
		return nil, err
	}
	index, err := DeriveIndex(rows)
	if err != nil {
		return nil, err
	}

	table := &model.Table{Rows: make([]*model.Row, len(rows))}
	for i, r := range rows {
		table.Rows[i] = model.NewRow(r.Cells...)
	}

	return &Bundle{Table: table, Forest: forest, Index: index}, nil
}

// LoadTable reads and decodes a table.json export.
func LoadTable(path string) ([]TableRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tf tableFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return tf.Rows, nil
}

// LoadHierarchy reads and decodes a hierarchy.json export.
func LoadHierarchy(path string) ([]HierarchyEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []HierarchyEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return entries, nil
}

// BuildForest links the flat category description into a forest. Entry
// order is preserved for roots and for siblings. An entry naming an
// unknown parent is an error; deeper structural validation is the
// backend's job.
func BuildForest(entries []HierarchyEntry) ([]*model.HierarchyNode, error) {
	byID := make(map[string]*model.HierarchyNode, len(entries))
	for _, e := range entries {
		node := &model.HierarchyNode{ID: e.ID, Name: e.Name, Parent: e.Parent}
		if err := node.Validate(); err != nil {
			return nil, err
		}
		if byID[e.ID] != nil {
			return nil, fmt.Errorf("hierarchy node %q: duplicate id", e.ID)
		}
		byID[e.ID] = node
	}

	var roots []*model.HierarchyNode
	for _, e := range entries {
		node := byID[e.ID]
		if e.Parent == "" {
			roots = append(roots, node)
			continue
		}
		parent, ok := byID[e.Parent]
		if !ok {
			return nil, fmt.Errorf("hierarchy node %q: unknown parent %q", e.ID, e.Parent)
		}
		parent.Children = append(parent.Children, node)
	}
	return roots, nil
}

// DeriveIndex builds the row-header index from the table rows' own ids,
// for backends that don't ship a separate index. Duplicate ids are an
// error; rows without an id are skipped.
func DeriveIndex(rows []TableRow) (model.RowHeaderIndex, error) {
	index := make(model.RowHeaderIndex, len(rows))
	for pos, r := range rows {
		if r.ID == "" {
			continue
		}
		if prev, ok := index[r.ID]; ok {
			return nil, fmt.Errorf("table row %d: id %q already used by row %d", pos, r.ID, prev)
		}
		index[r.ID] = pos
	}
	return index, nil
}
