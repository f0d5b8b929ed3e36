// Package assets provides named settings presets for PDF export.
// Presets can be loaded from embedded files or custom filesystem paths.
package assets

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadPreset loads a built-in preset by name using the default embedded
// loader. The name should not include the .yaml extension or path
// components.
// Returns ErrPresetNotFound if the preset does not exist.
// Returns ErrInvalidAssetName if the name contains path separators or traversal.
func LoadPreset(name string) (*Preset, error) {
	return defaultLoader.LoadPreset(name)
}

// Names lists the built-in preset names, sorted.
func Names() []string {
	return defaultLoader.Names()
}
