// Package datasource reads a pre-exported report from a SQLite
// database, the storage format the reporting pipeline emits for large
// result sets. The database is opened read-only; the viewer never
// writes back.
package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/loader"
	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/model"
)

// Reader is a read-only handle on an exported report database.
//
// Schema:
//
//	rows(pos INTEGER PRIMARY KEY, id TEXT, cells TEXT NOT NULL)
//	hierarchy(seq INTEGER PRIMARY KEY, id TEXT NOT NULL, name TEXT NOT NULL, parent TEXT)
//
// rows.cells holds the JSON-encoded cell array; rows.id is NULL for
// rows outside the hierarchy (totals, banners).
type Reader struct {
	db *sql.DB
}

// Open opens the report database at path read-only.
func Open(path string) (*Reader, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve report db path: %w", err)
	}

	u := url.URL{Scheme: "file", Path: absPath}
	q := u.Query()
	q.Set("mode", "ro")
	q.Set("_busy_timeout", "5000")
	u.RawQuery = q.Encode()

	db, err := sql.Open("sqlite", u.String())
	if err != nil {
		return nil, fmt.Errorf("open report db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping report db: %w", err)
	}

	return &Reader{db: db}, nil
}

// Close releases the database handle.
func (r *Reader) Close() error {
	return r.db.Close()
}

// LoadBundle reads the whole report and assembles it into the same
// Bundle shape the JSON loader produces.
func (r *Reader) LoadBundle(ctx context.Context) (*loader.Bundle, error) {
	rows, err := r.readRows(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := r.readHierarchy(ctx)
	if err != nil {
		return nil, err
	}

	forest, err := loader.BuildForest(entries)
	if err != nil {
		return nil, err
	}
	index, err := loader.DeriveIndex(rows)
	if err != nil {
		return nil, err
	}

	table := &model.Table{Rows: make([]*model.Row, len(rows))}
	for i, row := range rows {
		table.Rows[i] = model.NewRow(row.Cells...)
	}
	return &loader.Bundle{Table: table, Forest: forest, Index: index}, nil
}

func (r *Reader) readRows(ctx context.Context) ([]loader.TableRow, error) {
	rs, err := r.db.QueryContext(ctx, `SELECT id, cells FROM rows ORDER BY pos`)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rs.Close()

	var out []loader.TableRow
	for rs.Next() {
		var (
			id    sql.NullString
			cells string
		)
		if err := rs.Scan(&id, &cells); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		var row loader.TableRow
		if err := json.Unmarshal([]byte(cells), &row.Cells); err != nil {
			return nil, fmt.Errorf("row %d: parsing cells: %w", len(out), err)
		}
		row.ID = id.String
		out = append(out, row)
	}
	return out, rs.Err()
}

func (r *Reader) readHierarchy(ctx context.Context) ([]loader.HierarchyEntry, error) {
	rs, err := r.db.QueryContext(ctx, `SELECT id, name, parent FROM hierarchy ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query hierarchy: %w", err)
	}
	defer rs.Close()

	var out []loader.HierarchyEntry
	for rs.Next() {
		var (
			entry  loader.HierarchyEntry
			parent sql.NullString
		)
		if err := rs.Scan(&entry.ID, &entry.Name, &parent); err != nil {
			return nil, fmt.Errorf("scan hierarchy entry: %w", err)
		}
		entry.Parent = parent.String
		out = append(out, entry)
	}
	return out, rs.Err()
}
