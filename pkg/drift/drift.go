package drift

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Severity grades a drift alert.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// AlertType categorizes drift alerts.
type AlertType string

const (
	AlertRootRemoved         AlertType = "root_removed"
	AlertRootAdded           AlertType = "root_added"
	AlertCategoryCountChange AlertType = "category_count_change"
	AlertColumnCountChange   AlertType = "column_count_change"
	AlertRootTotalChange     AlertType = "root_total_change"
)

// Alert is a single detected deviation from the baseline.
type Alert struct {
	Type        AlertType `json:"type"`
	Severity    Severity  `json:"severity"`
	Message     string    `json:"message"`
	BaselineVal float64   `json:"baseline_value,omitempty"`
	CurrentVal  float64   `json:"current_value,omitempty"`
	Delta       float64   `json:"delta,omitempty"`
	Details     []string  `json:"details,omitempty"`
	DetectedAt  time.Time `json:"detected_at,omitempty"`
}

// Result is the complete drift analysis.
type Result struct {
	HasDrift bool    `json:"has_drift"`
	Alerts   []Alert `json:"alerts"`

	CriticalCount int `json:"critical_count"`
	WarningCount  int `json:"warning_count"`
	InfoCount     int `json:"info_count"`
}

// Config holds the detection thresholds (.tat/drift.yaml).
type Config struct {
	// CategoryGrowthInfoPct flags category count changes at info level.
	CategoryGrowthInfoPct float64 `yaml:"category_growth_info_pct"`
	// CategoryGrowthWarnPct escalates category count changes to warning.
	CategoryGrowthWarnPct float64 `yaml:"category_growth_warn_pct"`
	// RootTotalChangeWarnPct flags per-root total swings.
	RootTotalChangeWarnPct float64 `yaml:"root_total_change_warn_pct"`
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() *Config {
	return &Config{
		CategoryGrowthInfoPct:  10,
		CategoryGrowthWarnPct:  50,
		RootTotalChangeWarnPct: 25,
	}
}

// LoadConfig reads .tat/drift.yaml under projectDir, falling back to
// defaults when the file does not exist. Unset thresholds keep their
// default values.
func LoadConfig(projectDir string) (*Config, error) {
	path := filepath.Join(projectDir, ".tat", "drift.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing drift config: %w", err)
	}
	return cfg, nil
}

// Calculator compares a saved baseline against a current snapshot.
type Calculator struct {
	config   *Config
	baseline *Baseline
	current  *Baseline
}

// NewCalculator builds a calculator; a nil config means defaults.
func NewCalculator(baseline, current *Baseline, cfg *Config) *Calculator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Calculator{config: cfg, baseline: baseline, current: current}
}

// Calculate runs every check and tallies the alerts.
func (c *Calculator) Calculate() *Result {
	result := &Result{Alerts: make([]Alert, 0)}

	c.checkRoots(result)
	c.checkCategoryCount(result)
	c.checkColumnCount(result)
	c.checkRootTotals(result)

	for _, alert := range result.Alerts {
		switch alert.Severity {
		case SeverityCritical:
			result.CriticalCount++
		case SeverityWarning:
			result.WarningCount++
		case SeverityInfo:
			result.InfoCount++
		}
	}
	result.HasDrift = len(result.Alerts) > 0
	return result
}

// checkRoots detects top-level categories appearing or disappearing. A
// vanished root means the backend stopped reporting a whole branch,
// which is the one change that should always fail CI.
func (c *Calculator) checkRoots(result *Result) {
	blRoots := make(map[string]string)
	for _, rt := range c.baseline.RootTotals {
		blRoots[rt.ID] = rt.Name
	}
	curRoots := make(map[string]string)
	for _, rt := range c.current.RootTotals {
		curRoots[rt.ID] = rt.Name
	}

	var removed []string
	for _, rt := range c.baseline.RootTotals {
		if _, ok := curRoots[rt.ID]; !ok {
			removed = append(removed, rt.Name)
		}
	}
	if len(removed) > 0 {
		result.Alerts = append(result.Alerts, Alert{
			Type:       AlertRootRemoved,
			Severity:   SeverityCritical,
			Message:    fmt.Sprintf("%d top-level category(ies) disappeared", len(removed)),
			Delta:      float64(-len(removed)),
			Details:    removed,
			DetectedAt: time.Now().UTC(),
		})
	}

	var added []string
	for _, rt := range c.current.RootTotals {
		if _, ok := blRoots[rt.ID]; !ok {
			added = append(added, rt.Name)
		}
	}
	if len(added) > 0 {
		result.Alerts = append(result.Alerts, Alert{
			Type:       AlertRootAdded,
			Severity:   SeverityInfo,
			Message:    fmt.Sprintf("%d new top-level category(ies)", len(added)),
			Delta:      float64(len(added)),
			Details:    added,
			DetectedAt: time.Now().UTC(),
		})
	}
}

func (c *Calculator) checkCategoryCount(result *Result) {
	bl := c.baseline.Stats.CategoryCount
	cur := c.current.Stats.CategoryCount
	if bl == 0 {
		return
	}

	delta := cur - bl
	pct := math.Abs(float64(delta)) / float64(bl) * 100
	if pct < c.config.CategoryGrowthInfoPct {
		return
	}

	severity := SeverityInfo
	if pct >= c.config.CategoryGrowthWarnPct {
		severity = SeverityWarning
	}
	result.Alerts = append(result.Alerts, Alert{
		Type:        AlertCategoryCountChange,
		Severity:    severity,
		Message:     fmt.Sprintf("Category count changed by %+d (%.1f%%)", delta, pct),
		BaselineVal: float64(bl),
		CurrentVal:  float64(cur),
		Delta:       float64(delta),
		DetectedAt:  time.Now().UTC(),
	})
}

// checkColumnCount flags schema changes: the report growing or losing
// columns usually means the backend export changed shape.
func (c *Calculator) checkColumnCount(result *Result) {
	bl := c.baseline.Stats.ColumnCount
	cur := c.current.Stats.ColumnCount
	if bl == 0 || bl == cur {
		return
	}
	result.Alerts = append(result.Alerts, Alert{
		Type:        AlertColumnCountChange,
		Severity:    SeverityWarning,
		Message:     fmt.Sprintf("Column count changed from %d to %d", bl, cur),
		BaselineVal: float64(bl),
		CurrentVal:  float64(cur),
		Delta:       float64(cur - bl),
		DetectedAt:  time.Now().UTC(),
	})
}

func (c *Calculator) checkRootTotals(result *Result) {
	curTotals := make(map[string]float64)
	for _, rt := range c.current.RootTotals {
		curTotals[rt.ID] = rt.Total
	}

	var changes []string
	for _, rt := range c.baseline.RootTotals {
		cur, ok := curTotals[rt.ID]
		if !ok || rt.Total == 0 {
			continue
		}
		pct := (cur - rt.Total) / rt.Total * 100
		if math.Abs(pct) >= c.config.RootTotalChangeWarnPct {
			changes = append(changes, fmt.Sprintf("%s: %+.1f%%", rt.Name, pct))
		}
	}
	if len(changes) > 0 {
		result.Alerts = append(result.Alerts, Alert{
			Type:       AlertRootTotalChange,
			Severity:   SeverityWarning,
			Message:    fmt.Sprintf("%d top-level total(s) moved past threshold", len(changes)),
			Details:    changes,
			DetectedAt: time.Now().UTC(),
		})
	}
}

// Summary returns a human-readable report of the drift results.
func (r *Result) Summary() string {
	if !r.HasDrift {
		return "No drift detected. Report is within baseline thresholds.\n"
	}

	var sb strings.Builder
	sb.WriteString("Drift Analysis\n")
	sb.WriteString("==============\n\n")

	if r.CriticalCount > 0 {
		fmt.Fprintf(&sb, "CRITICAL: %d\n", r.CriticalCount)
	}
	if r.WarningCount > 0 {
		fmt.Fprintf(&sb, "WARNING: %d\n", r.WarningCount)
	}
	if r.InfoCount > 0 {
		fmt.Fprintf(&sb, "INFO: %d\n", r.InfoCount)
	}

	sb.WriteString("\nDetails:\n")
	for _, alert := range r.Alerts {
		fmt.Fprintf(&sb, "  [%s] %s: %s\n", alert.Severity, alert.Type, alert.Message)
		for _, detail := range alert.Details {
			fmt.Fprintf(&sb, "      - %s\n", detail)
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

// HasCritical reports whether any critical alerts were raised.
func (r *Result) HasCritical() bool {
	return r.CriticalCount > 0
}

// ExitCode maps the result to a CI exit code:
// 0 = clean or info only, 1 = critical, 2 = warning.
func (r *Result) ExitCode() int {
	if r.CriticalCount > 0 {
		return 1
	}
	if r.WarningCount > 0 {
		return 2
	}
	return 0
}
