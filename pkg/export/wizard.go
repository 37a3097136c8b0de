package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/wyulisam/TextAnalyticsTemplate-Frontend/pkg/hierarchy"
)

// DefaultTitle heads reports exported without an explicit title.
const DefaultTitle = "Text Analytics Report"

// WizardConfig holds the answers collected by the export wizard.
type WizardConfig struct {
	Format     string `json:"format"` // "markdown", "html" or "svg"
	OutputPath string `json:"output_path"`
	Title      string `json:"title"`
}

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...)
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// RunWizard asks for format, path and title, then writes the export.
// It returns the path written.
func RunWizard(c *hierarchy.Controller) (string, error) {
	cfg := WizardConfig{
		Format:     "markdown",
		OutputPath: "report.md",
		Title:      DefaultTitle,
	}

	form := newForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Export format").
				Options(
					huh.NewOption("Markdown report", "markdown"),
					huh.NewOption("Standalone HTML table", "html"),
					huh.NewOption("SVG tree diagram", "svg"),
				).
				Value(&cfg.Format),
			huh.NewInput().
				Title("Output path").
				Value(&cfg.OutputPath).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("path is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Report title").
				Value(&cfg.Title),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}

	return Run(c, cfg)
}

// Run performs an export described by cfg without any interaction.
// An empty title falls back to DefaultTitle.
func Run(c *hierarchy.Controller, cfg WizardConfig) (string, error) {
	if strings.TrimSpace(cfg.Title) == "" {
		cfg.Title = DefaultTitle
	}
	path := defaultExtension(cfg.OutputPath, cfg.Format)

	switch cfg.Format {
	case "markdown":
		out, err := GenerateMarkdown(c, cfg.Title)
		if err != nil {
			return "", err
		}
		return path, os.WriteFile(path, []byte(out), 0o644)
	case "html":
		out, err := GenerateHTML(c, cfg.Title)
		if err != nil {
			return "", err
		}
		return path, os.WriteFile(path, []byte(out), 0o644)
	case "svg":
		return path, SaveTreeSnapshot(c, TreeSnapshotOptions{Path: path, Title: cfg.Title})
	default:
		return "", fmt.Errorf("unsupported format %q (want markdown, html or svg)", cfg.Format)
	}
}

func defaultExtension(path, format string) string {
	if filepath.Ext(path) != "" {
		return path
	}
	switch format {
	case "markdown":
		return path + ".md"
	case "html":
		return path + ".html"
	case "svg":
		return path + ".svg"
	}
	return path
}
