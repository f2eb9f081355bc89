package walls

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinPresetsAreValid(t *testing.T) {
	presets := BuiltinPresets()
	require.NotEmpty(t, presets)

	for _, p := range presets {
		assert.NoError(t, p.Config.Validate(), "preset %q", p.Name)
	}
}

func TestPresetLookupBuiltinFallback(t *testing.T) {
	var pf *PresetFile

	p, ok := pf.Lookup("default")
	require.True(t, ok)
	assert.Equal(t, DefaultConfig(), p.Config)

	_, ok = pf.Lookup("no-such-preset")
	assert.False(t, ok)
}

func TestPresetLookupFileShadowsBuiltin(t *testing.T) {
	custom := DefaultConfig()
	custom.MaxWallLength = 123
	pf := &PresetFile{Presets: []Preset{{Name: "default", Config: custom}}}

	p, ok := pf.Lookup("default")
	require.True(t, ok)
	assert.Equal(t, 123.0, p.Config.MaxWallLength)
}

func TestPresetSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")

	cfg := DefaultConfig()
	cfg.Grid = GridConfig{Size: 70, AllowHalfGrid: true, OffsetX: 5}
	want := &PresetFile{Presets: []Preset{
		{Name: "battle-map", Config: cfg},
		{Name: "sketch", Config: DefaultConfig()},
	}}

	require.NoError(t, SavePresets(path, want))

	got, err := LoadPresets(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadPresetsMissingFile(t *testing.T) {
	_, err := LoadPresets(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadPresetsRejectsDuplicateNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	pf := &PresetFile{Presets: []Preset{
		{Name: "twin", Config: DefaultConfig()},
		{Name: "twin", Config: DefaultConfig()},
	}}
	require.NoError(t, SavePresets(path, pf))

	_, err := LoadPresets(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestLoadPresetsRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	bad := DefaultConfig()
	bad.MaxWalls = 0
	pf := &PresetFile{Presets: []Preset{{Name: "broken", Config: bad}}}
	require.NoError(t, SavePresets(path, pf))

	_, err := LoadPresets(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadPresetsRejectsUnnamedEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte("presets:\n  - config:\n      maxWallLength: 50\n      maxWalls: 100\n"), 0644))

	_, err := LoadPresets(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestPresetNames(t *testing.T) {
	pf := &PresetFile{Presets: []Preset{
		{Name: "zeta", Config: DefaultConfig()},
		{Name: "default", Config: DefaultConfig()},
	}}

	names := pf.Names()
	// File entries first (sorted), then unshadowed builtins (sorted).
	require.GreaterOrEqual(t, len(names), 2)
	assert.Equal(t, []string{"default", "zeta"}, names[:2])
	assert.NotContains(t, names[2:], "default")
	assert.Contains(t, names[2:], "dungeon")
}
