package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	json "github.com/goccy/go-json"
	"golang.org/x/term"

	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/agents"
	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/analysis"
	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/config"
	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/datasource"
	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/drift"
	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/export"
	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/hierarchy"
	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/loader"
	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/preset"
	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/ui"
	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/version"
	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/watcher"
	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/workspace"
)

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	dir := flag.String("dir", "", "Report bundle directory (default: current directory)")
	db := flag.String("db", "", "Load the report from a SQLite export instead of JSON files")
	workspaceConfig := flag.String("workspace", "", "Load reports from a workspace config (.tat/workspace.yaml)")
	flat := flag.Bool("flat", false, "Start in flat view (full category paths)")
	search := flag.String("search", "", "Apply a search query at startup")
	presetName := flag.String("preset", "", "Apply a named view preset (e.g. flat, expanded, report)")
	presetShort := flag.String("p", "", "Shorthand for --preset")
	noWatch := flag.Bool("no-watch", false, "Disable live reload when the bundle changes on disk")

	exportMD := flag.String("export-md", "", "Export the hierarchy to a Markdown file and exit")
	exportHTML := flag.String("export-html", "", "Export the hierarchy to an HTML file and exit")
	exportSVG := flag.String("export-svg", "", "Export a tree snapshot to an SVG file and exit")
	exportWizard := flag.Bool("export-wizard", false, "Run the interactive export wizard and exit")

	saveBaseline := flag.String("save-baseline", "", "Save current report stats as a baseline with a description")
	baselineInfo := flag.Bool("baseline-info", false, "Show information about the saved baseline")
	checkDrift := flag.Bool("check-drift", false, "Check current stats against the baseline (exit: 0=OK, 1=critical, 2=warning)")

	robotHelp := flag.Bool("robot-help", false, "Show the machine-readable interface help")
	robotTree := flag.Bool("robot-tree", false, "Output the category tree as JSON")
	robotSummary := flag.Bool("robot-summary", false, "Output per-root column statistics as JSON")
	robotPresets := flag.Bool("robot-presets", false, "Output available presets as JSON")
	robotDrift := flag.Bool("robot-drift", false, "Output the drift check as JSON (use with --check-drift)")

	agentsMD := flag.Bool("agents-md", false, "Inject tat usage instructions into the project's AGENTS.md and exit")
	flag.Parse()

	if *presetShort != "" && *presetName == "" {
		*presetName = *presetShort
	}

	if *help {
		fmt.Println("Usage: tat [options]")
		fmt.Println("\nA TUI viewer for hierarchical text-analytics reports.")
		flag.PrintDefaults()
		os.Exit(0)
	}
	if *versionFlag {
		fmt.Printf("tat %s (%s)\n", version.Version, version.Commit)
		os.Exit(0)
	}
	if *robotHelp {
		printRobotHelp()
		os.Exit(0)
	}

	cwd, err := os.Getwd()
	if err != nil {
		fatalf("Error resolving working directory: %v", err)
	}

	if *agentsMD {
		path := agents.FindAgentFile(cwd)
		if path == "" {
			fatalf("No agent file (AGENTS.md) found in %s", cwd)
		}
		changed, err := agents.EnsureBlurb(path)
		if err != nil {
			fatalf("Error updating %s: %v", path, err)
		}
		if changed {
			fmt.Printf("Updated %s\n", path)
		} else {
			fmt.Printf("%s already up to date\n", path)
		}
		os.Exit(0)
	}

	presets, err := preset.LoadDefault(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: error loading presets: %v\n", err)
		presets = preset.NewLoader()
	}

	if *robotPresets {
		emitJSON(struct {
			Presets []preset.Summary `json:"presets"`
		}{presets.ListSummaries()})
		os.Exit(0)
	}

	var activePreset *preset.Preset
	if *presetName != "" {
		activePreset = presets.Get(*presetName)
		if activePreset == nil {
			fmt.Fprintf(os.Stderr, "Error: unknown preset %q\n\nAvailable presets:\n", *presetName)
			for _, name := range presets.Names() {
				fmt.Fprintf(os.Stderr, "  %-12s %s\n", name, presets.Get(name).Description)
			}
			os.Exit(1)
		}
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		fatalf("Error loading config: %v", err)
	}
	if *flat {
		cfg.FlatMode = true
	}
	if *search != "" {
		cfg.Search.Query = *search
	}

	bundleDir := *dir
	if bundleDir == "" {
		bundleDir = cwd
	}

	rebuild := func() (*hierarchy.Controller, error) {
		bundle, err := loadBundle(context.Background(), bundleDir, *db, *workspaceConfig)
		if err != nil {
			return nil, err
		}
		return buildController(bundle, cfg)
	}

	ctrl, err := rebuild()
	if ctrl == nil {
		fatalf("Error loading report: %v", err)
	}
	if err != nil {
		// Partial build: some categories were skipped.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if activePreset != nil {
		preset.Apply(ctrl, activePreset)
		if activePreset.Export.Format != "" && !anyExportFlag(*exportMD, *exportHTML, *exportSVG) {
			path, err := export.Run(ctrl, export.WizardConfig{
				Format:     activePreset.Export.Format,
				OutputPath: activePreset.Export.Path,
				Title:      activePreset.Export.Title,
			})
			if err != nil {
				fatalf("Error exporting: %v", err)
			}
			fmt.Printf("Wrote %s\n", path)
			os.Exit(0)
		}
	}
	if cfg.Search.Query != "" && activePreset == nil {
		ctrl.Search(cfg.Search.Query)
	}

	if *robotTree {
		emitJSON(treeOutput(ctrl))
		os.Exit(0)
	}
	if *robotSummary {
		emitJSON(summaryOutput(ctrl))
		os.Exit(0)
	}

	baselinePath := drift.DefaultPath(cwd)

	if *baselineInfo {
		if !drift.Exists(baselinePath) {
			fmt.Println("No baseline found.")
			fmt.Println("Create one with: tat --save-baseline \"description\"")
			os.Exit(0)
		}
		bl, err := drift.LoadBaseline(baselinePath)
		if err != nil {
			fatalf("Error loading baseline: %v", err)
		}
		fmt.Print(bl.Summary())
		os.Exit(0)
	}

	if *saveBaseline != "" {
		bl := drift.Capture(ctrl, *saveBaseline)
		if err := bl.Save(baselinePath); err != nil {
			fatalf("Error saving baseline: %v", err)
		}
		fmt.Printf("Baseline saved to %s\n", baselinePath)
		fmt.Print(bl.Summary())
		os.Exit(0)
	}

	if *checkDrift {
		os.Exit(runDriftCheck(ctrl, cwd, baselinePath, *robotDrift))
	}

	if *exportMD != "" {
		runExport(ctrl, export.WizardConfig{Format: "markdown", OutputPath: *exportMD})
	}
	if *exportHTML != "" {
		runExport(ctrl, export.WizardConfig{Format: "html", OutputPath: *exportHTML})
	}
	if *exportSVG != "" {
		runExport(ctrl, export.WizardConfig{Format: "svg", OutputPath: *exportSVG})
	}
	if *exportWizard {
		path, err := export.RunWizard(ctrl)
		if err != nil {
			fatalf("Error running export wizard: %v", err)
		}
		fmt.Printf("Wrote %s\n", path)
		os.Exit(0)
	}

	// No terminal: dump the tree instead of starting the TUI.
	if !term.IsTerminal(int(os.Stdout.Fd())) || agents.SuppressTTYQueries() {
		fmt.Print(plainTree(ctrl))
		os.Exit(0)
	}

	theme := ui.DefaultTheme(lipgloss.NewRenderer(os.Stdout))
	m := ui.NewModel(ctrl, cfg, theme)
	m.Rebuild = rebuild

	// Live reload only applies to directory bundles; SQLite and
	// workspace sources are reloaded manually.
	if !*noWatch && *db == "" && *workspaceConfig == "" {
		w, err := watcher.New(bundleDir)
		if err == nil && w.Start() == nil {
			defer w.Stop()
			m.Watcher = w
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fatalf("Error running viewer: %v", err)
	}
}

// loadBundle picks the data source: workspace config, SQLite export or
// a plain bundle directory.
func loadBundle(ctx context.Context, dir, db, workspaceConfig string) (*loader.Bundle, error) {
	switch {
	case workspaceConfig != "":
		bundle, results, err := workspace.LoadAllFromConfig(ctx, workspaceConfig)
		if err != nil {
			return nil, err
		}
		summary := workspace.Summarize(results)
		if summary.FailedReports > 0 {
			fmt.Fprintf(os.Stderr, "Warning: %d report(s) failed to load:\n", summary.FailedReports)
			for _, name := range summary.FailedNames {
				fmt.Fprintf(os.Stderr, "  - %s\n", name)
			}
		}
		return bundle, nil
	case db != "":
		reader, err := datasource.Open(db)
		if err != nil {
			return nil, err
		}
		defer reader.Close()
		return reader.LoadBundle(ctx)
	default:
		return loader.LoadBundle(ctx, dir)
	}
}

func buildController(bundle *loader.Bundle, cfg *config.Config) (*hierarchy.Controller, error) {
	return hierarchy.New(bundle.Table, bundle.Forest, bundle.Index, hierarchy.Options{
		HierarchyColumn: cfg.HierarchyColumn,
		FlatMode:        cfg.FlatMode,
	})
}

func anyExportFlag(paths ...string) bool {
	for _, p := range paths {
		if p != "" {
			return true
		}
	}
	return false
}

func runExport(ctrl *hierarchy.Controller, cfg export.WizardConfig) {
	path, err := export.Run(ctrl, cfg)
	if err != nil {
		fatalf("Error exporting: %v", err)
	}
	fmt.Printf("Wrote %s\n", path)
	os.Exit(0)
}

func runDriftCheck(ctrl *hierarchy.Controller, projectDir, baselinePath string, robot bool) int {
	if !drift.Exists(baselinePath) {
		fmt.Fprintln(os.Stderr, "Error: no baseline found.")
		fmt.Fprintln(os.Stderr, "Create one with: tat --save-baseline \"description\"")
		return 1
	}

	bl, err := drift.LoadBaseline(baselinePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading baseline: %v\n", err)
		return 1
	}

	driftCfg, err := drift.LoadConfig(projectDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: error loading drift config: %v\n", err)
		driftCfg = drift.DefaultConfig()
	}

	current := drift.Capture(ctrl, "current")
	result := drift.NewCalculator(bl, current, driftCfg).Calculate()

	if robot {
		emitJSON(struct {
			Result   *drift.Result `json:"result"`
			ExitCode int           `json:"exit_code"`
		}{result, result.ExitCode()})
	} else {
		fmt.Print(result.Summary())
	}
	return result.ExitCode()
}

// treeNode is the robot-tree wire form of one category.
type treeNode struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Path     string      `json:"path"`
	Level    int         `json:"level"`
	Cells    []string    `json:"cells"`
	Children []*treeNode `json:"children,omitempty"`
}

func buildTreeNode(c *hierarchy.Controller, rec *hierarchy.Record) *treeNode {
	n := &treeNode{
		ID:    rec.ID,
		Name:  rec.Name,
		Path:  rec.FlatName,
		Level: rec.Level,
	}
	for _, cell := range rec.DataCells() {
		n.Cells = append(n.Cells, cell.Text)
	}
	for _, child := range c.Children(rec.ID) {
		n.Children = append(n.Children, buildTreeNode(c, child))
	}
	return n
}

// robotTree is the top-level robot-tree payload.
type robotTree struct {
	Categories int         `json:"categories"`
	Roots      []*treeNode `json:"roots"`
}

func treeOutput(c *hierarchy.Controller) robotTree {
	var roots []*treeNode
	for _, root := range c.Children("") {
		roots = append(roots, buildTreeNode(c, root))
	}
	return robotTree{Categories: len(c.Records()), Roots: roots}
}

// rootSummary is one top-level category's statistics in robot-summary.
type rootSummary struct {
	ID      string                   `json:"id"`
	Name    string                   `json:"name"`
	Columns []analysis.ColumnSummary `json:"columns"`
}

type robotSummary struct {
	Roots []rootSummary `json:"roots"`
}

func summaryOutput(c *hierarchy.Controller) robotSummary {
	summaries := analysis.SummarizeRoots(c)

	var out []rootSummary
	for _, root := range c.Children("") {
		out = append(out, rootSummary{
			ID:      root.ID,
			Name:    root.Name,
			Columns: summaries[root.ID],
		})
	}
	return robotSummary{Roots: out}
}

// plainTree renders the full hierarchy as indented text for
// non-interactive invocations.
func plainTree(c *hierarchy.Controller) string {
	var sb strings.Builder
	for _, rec := range c.Records() {
		sb.WriteString(strings.Repeat("  ", rec.Level))
		// The label carries the current view's text: segment in tree
		// mode, full path in flat mode.
		sb.WriteString(rec.Label())
		for _, cell := range rec.DataCells() {
			sb.WriteString("\t")
			sb.WriteString(cell.Text)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func emitJSON(v any) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		fatalf("Error encoding output: %v", err)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func printRobotHelp() {
	fmt.Println("tat machine-readable interface")
	fmt.Println("==============================")
	fmt.Println("Structured views of a hierarchical text-analytics report, for")
	fmt.Println("agents and scripts that must not drive the TUI.")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  --robot-tree")
	fmt.Println("      Full category tree as JSON. Each node carries its id, the")
	fmt.Println("      segment name, the full slash-joined path, the tree level")
	fmt.Println("      and the row's cell values.")
	fmt.Println("")
	fmt.Println("  --robot-summary")
	fmt.Println("      Per-root column statistics as JSON: count, sum, mean,")
	fmt.Println("      standard deviation, min and max over each subtree.")
	fmt.Println("")
	fmt.Println("  --robot-presets")
	fmt.Println("      Available view presets as JSON: {presets: [{name,")
	fmt.Println("      description, source}]}. Sources: builtin, user")
	fmt.Println("      (~/.config/tat/presets.yaml), project (.tat/presets.yaml).")
	fmt.Println("")
	fmt.Println("  --check-drift --robot-drift")
	fmt.Println("      Drift check against the saved baseline as JSON. Exit codes:")
	fmt.Println("      0 = within thresholds, 1 = critical, 2 = warning.")
	fmt.Println("")
	fmt.Println("  --export-md FILE / --export-html FILE / --export-svg FILE")
	fmt.Println("      Write the hierarchy as a report and exit.")
	fmt.Println("")
	fmt.Println("  --search QUERY, --flat, --preset NAME")
	fmt.Println("      Shape the view before any robot output or export.")
}
