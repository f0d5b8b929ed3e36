package assets

// Loader defines the contract for loading presets by name.
// Implementations may load from embedded assets, filesystem, S3, database, etc.
type Loader interface {
	// LoadPreset loads a preset by name (without the .yaml extension).
	// Returns ErrPresetNotFound if the preset doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadPreset(name string) (*Preset, error)
}
