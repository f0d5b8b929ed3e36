package assets

import (
	"embed"
	"fmt"
	"sort"
	"strings"
)

//go:embed presets/*.yaml
var presets embed.FS

// EmbeddedLoader loads presets from the embedded filesystem.
// Implements the Loader interface.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadPreset loads a built-in preset by name.
// The name should not include the .yaml extension.
func (e *EmbeddedLoader) LoadPreset(name string) (*Preset, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}

	data, err := presets.ReadFile("presets/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrPresetNotFound, name)
	}

	return parsePreset(name, data)
}

// Names lists the built-in preset names, sorted.
func (e *EmbeddedLoader) Names() []string {
	entries, err := presets.ReadDir("presets")
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// Compile-time interface check.
var _ Loader = (*EmbeddedLoader)(nil)
