package walls

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Preset is a named, reusable generation configuration. Presets are what get
// saved to and loaded from disk; the zero fields of the embedded Config are
// meaningful (0 disables the corresponding stage), so presets always store a
// fully specified Config.
type Preset struct {
	Name   string `yaml:"name"`
	Config Config `yaml:"config"`
}

// PresetFile is the on-disk collection of presets.
type PresetFile struct {
	Presets []Preset `yaml:"presets"`
}

// BuiltinPresets returns the presets shipped with the tool, covering the
// common map styles. The slice is freshly allocated on every call.
func BuiltinPresets() []Preset {
	def := DefaultConfig()

	dungeon := def
	dungeon.SimplifyTolerance = 0.0005
	dungeon.MaxWallLength = 50
	dungeon.MergeDistance = 25

	cavern := def
	cavern.SimplifyTolerance = 0.002
	cavern.MaxWallLength = 75
	cavern.MergeDistance = 15
	cavern.AngleTolerance = 2.5
	cavern.MaxGap = 15

	gridded := def
	gridded.Grid = GridConfig{Size: 70, AllowHalfGrid: true}

	return []Preset{
		{Name: "default", Config: def},
		{Name: "dungeon", Config: dungeon},
		{Name: "cavern", Config: cavern},
		{Name: "gridded", Config: gridded},
	}
}

// LoadPresets reads a preset file and validates every entry. Names must be
// unique and every config must pass Validate.
func LoadPresets(path string) (*PresetFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("preset file not found: %s", path)
		}
		return nil, fmt.Errorf("reading preset file: %w", err)
	}

	var pf PresetFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing preset YAML: %w", err)
	}

	seen := make(map[string]bool)
	for i, p := range pf.Presets {
		if p.Name == "" {
			return nil, fmt.Errorf("preset[%d].name is required", i)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("duplicate preset name %q", p.Name)
		}
		seen[p.Name] = true
		if err := p.Config.Validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", p.Name, err)
		}
	}
	return &pf, nil
}

// SavePresets writes the preset collection as YAML.
func SavePresets(path string, pf *PresetFile) error {
	data, err := yaml.Marshal(pf)
	if err != nil {
		return fmt.Errorf("marshaling preset YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing preset file: %w", err)
	}
	return nil
}

// Lookup returns the named preset, falling back to the builtins when the
// file does not define it. File entries shadow builtins of the same name.
func (pf *PresetFile) Lookup(name string) (Preset, bool) {
	if pf != nil {
		for _, p := range pf.Presets {
			if p.Name == name {
				return p, true
			}
		}
	}
	for _, p := range BuiltinPresets() {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// Names lists every available preset name, file entries first, then any
// builtins not shadowed by the file, each group sorted.
func (pf *PresetFile) Names() []string {
	var fromFile []string
	seen := make(map[string]bool)
	if pf != nil {
		for _, p := range pf.Presets {
			fromFile = append(fromFile, p.Name)
			seen[p.Name] = true
		}
	}
	sort.Strings(fromFile)

	var builtin []string
	for _, p := range BuiltinPresets() {
		if !seen[p.Name] {
			builtin = append(builtin, p.Name)
		}
	}
	sort.Strings(builtin)

	return append(fromFile, builtin...)
}
