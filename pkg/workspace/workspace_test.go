package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/hierarchy"
)

const webTable = `{
  "rows": [
    {"id": "A", "cells": [{"text": "Region"}, {"text": "310"}]},
    {"id": "B", "cells": [{"text": "Region/North"}, {"text": "120"}]}
  ]
}`

const webHierarchy = `[
  {"id": "A", "name": "Region"},
  {"id": "B", "name": "Region/North", "parent": "A"}
]`

const mobileTable = `{
  "rows": [
    {"id": "A", "cells": [{"text": "Product"}, {"text": "96"}]}
  ]
}`

const mobileHierarchy = `[
  {"id": "A", "name": "Product"}
]`

func writeReport(t *testing.T, dir, table, hierarchy string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "table.json"), []byte(table), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "hierarchy.json"), []byte(hierarchy), 0o644); err != nil {
		t.Fatal(err)
	}
}

func writeWorkspace(t *testing.T, root, content string) string {
	t.Helper()
	cfgDir := filepath.Join(root, ".tat")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(cfgDir, "workspace.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAllFromConfig(t *testing.T) {
	root := t.TempDir()
	writeReport(t, filepath.Join(root, "web"), webTable, webHierarchy)
	writeReport(t, filepath.Join(root, "mobile"), mobileTable, mobileHierarchy)
	cfgPath := writeWorkspace(t, root, `
name: channels
reports:
  - name: web
    path: web
  - name: mobile
    path: mobile
`)

	bundle, results, err := LoadAllFromConfig(context.Background(), cfgPath)
	if err != nil {
		t.Fatalf("LoadAllFromConfig: %v", err)
	}

	summary := Summarize(results)
	if summary.FailedReports != 0 {
		t.Fatalf("unexpected failures: %+v", summary.FailedNames)
	}
	if summary.TotalRows != 3 || summary.TotalCategories != 3 {
		t.Errorf("summary = %+v", summary)
	}

	// Both reports used id "A"; prefixes keep them apart.
	if _, ok := bundle.Index["web/A"]; !ok {
		t.Error("missing namespaced id web/A")
	}
	if _, ok := bundle.Index["mobile/A"]; !ok {
		t.Error("missing namespaced id mobile/A")
	}
	if len(bundle.Forest) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(bundle.Forest))
	}
	if got := bundle.Forest[0].Children[0].ID; got != "web/B" {
		t.Errorf("child id = %s, want web/B", got)
	}

	// The merged bundle drives the controller like any single report.
	c, err := hierarchy.New(bundle.Table, bundle.Forest, bundle.Index, hierarchy.Options{})
	if err != nil {
		t.Fatalf("hierarchy.New: %v", err)
	}
	if got := len(c.Visible()); got != 2 {
		t.Errorf("expected 2 visible roots, got %d", got)
	}
}

func TestLoadAllSkipsFailedReport(t *testing.T) {
	root := t.TempDir()
	writeReport(t, filepath.Join(root, "web"), webTable, webHierarchy)
	cfgPath := writeWorkspace(t, root, `
reports:
  - name: web
    path: web
  - name: mobile
    path: mobile
`)

	bundle, results, err := LoadAllFromConfig(context.Background(), cfgPath)
	if err != nil {
		t.Fatalf("LoadAllFromConfig: %v", err)
	}

	summary := Summarize(results)
	if summary.FailedReports != 1 || summary.FailedNames[0] != "mobile" {
		t.Fatalf("summary = %+v", summary)
	}
	if len(bundle.Forest) != 1 {
		t.Errorf("expected the surviving report's root only, got %d", len(bundle.Forest))
	}
}

func TestLoadAllFailsWhenNothingLoads(t *testing.T) {
	root := t.TempDir()
	cfgPath := writeWorkspace(t, root, `
reports:
  - name: web
    path: web
`)
	if _, _, err := LoadAllFromConfig(context.Background(), cfgPath); err == nil {
		t.Fatal("expected error when every report fails")
	}
}

func TestDisabledReportSkipped(t *testing.T) {
	root := t.TempDir()
	writeReport(t, filepath.Join(root, "web"), webTable, webHierarchy)
	writeReport(t, filepath.Join(root, "mobile"), mobileTable, mobileHierarchy)
	cfgPath := writeWorkspace(t, root, `
reports:
  - name: web
    path: web
  - name: mobile
    path: mobile
    enabled: false
`)

	bundle, results, err := LoadAllFromConfig(context.Background(), cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if _, ok := bundle.Index["mobile/A"]; ok {
		t.Error("disabled report was loaded")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"empty", Config{}, true},
		{"missing path", Config{Reports: []ReportConfig{{Name: "web"}}}, true},
		{"duplicate prefix", Config{Reports: []ReportConfig{
			{Path: "a", Prefix: "x/"},
			{Path: "b", Prefix: "x/"},
		}}, true},
		{"ok", Config{Reports: []ReportConfig{{Path: "web"}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetPrefixDefaults(t *testing.T) {
	r := ReportConfig{Path: "reports/Web"}
	if got := r.GetPrefix(); got != "web/" {
		t.Errorf("GetPrefix() = %q, want web/", got)
	}
	r.Prefix = "w:"
	if got := r.GetPrefix(); got != "w:" {
		t.Errorf("GetPrefix() = %q, want w:", got)
	}
}

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	path := writeWorkspace(t, root, "reports:\n  - path: web\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	found, err := FindConfig(nested)
	if err != nil {
		t.Fatal(err)
	}
	if found != path {
		t.Errorf("FindConfig = %s, want %s", found, path)
	}
}

func TestSplitID(t *testing.T) {
	prefixes := []string{"web/", "mobile/"}
	if p, l := SplitID("web/A", prefixes); p != "web/" || l != "A" {
		t.Errorf("SplitID(web/A) = %q, %q", p, l)
	}
	if p, l := SplitID("other", prefixes); p != "" || l != "other" {
		t.Errorf("SplitID(other) = %q, %q", p, l)
	}
}
