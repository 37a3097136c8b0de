package preset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Source identifies where a preset came from.
const (
	SourceBuiltin = "builtin"
	SourceUser    = "user"    // ~/.config/tat/presets.yaml
	SourceProject = "project" // .tat/presets.yaml
)

// Summary is the listing form of a preset.
type Summary struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source"`
}

// presetsFile is the wire form of a presets YAML file.
type presetsFile struct {
	Presets []Preset `yaml:"presets"`
}

// Loader holds the merged preset set. Later sources shadow earlier ones
// by name: project over user over builtin.
type Loader struct {
	presets map[string]*Preset
	sources map[string]string
}

// NewLoader returns a loader seeded with the built-in presets.
func NewLoader() *Loader {
	l := &Loader{
		presets: make(map[string]*Preset),
		sources: make(map[string]string),
	}
	for _, p := range BuiltinPresets() {
		l.add(p, SourceBuiltin)
	}
	return l
}

func (l *Loader) add(p Preset, source string) {
	cp := p
	l.presets[p.Name] = &cp
	l.sources[p.Name] = source
}

// LoadFile merges presets from a YAML file under the given source tag.
// Invalid presets fail the whole file.
func (l *Loader) LoadFile(path, source string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var pf presetsFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	for _, p := range pf.Presets {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		l.add(p, source)
	}
	return nil
}

// Get returns the preset with the given name, or nil.
func (l *Loader) Get(name string) *Preset {
	return l.presets[name]
}

// Names returns all preset names, sorted.
func (l *Loader) Names() []string {
	names := make([]string, 0, len(l.presets))
	for name := range l.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListSummaries returns a summary per preset, sorted by name.
func (l *Loader) ListSummaries() []Summary {
	summaries := make([]Summary, 0, len(l.presets))
	for _, name := range l.Names() {
		p := l.presets[name]
		summaries = append(summaries, Summary{
			Name:        p.Name,
			Description: p.Description,
			Source:      l.sources[name],
		})
	}
	return summaries
}

// LoadDefault builds the standard loader: builtins, then the user file,
// then the project file rooted at projectDir. Missing files are fine;
// malformed ones are errors.
func LoadDefault(projectDir string) (*Loader, error) {
	l := NewLoader()

	if cfgDir, err := os.UserConfigDir(); err == nil {
		userPath := filepath.Join(cfgDir, "tat", "presets.yaml")
		if err := l.LoadFile(userPath, SourceUser); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}

	projectPath := filepath.Join(projectDir, ".tat", "presets.yaml")
	if err := l.LoadFile(projectPath, SourceProject); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return l, nil
}
