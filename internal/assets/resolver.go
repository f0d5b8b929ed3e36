package assets

import (
	"errors"
	"sort"
)

// PresetResolver combines custom and embedded loaders with fallback logic.
// When a custom loader is configured, it tries custom first, then falls back
// to embedded if the preset is not found in the custom location.
type PresetResolver struct {
	custom   *FilesystemLoader // nil if no custom path configured
	embedded *EmbeddedLoader
}

// NewPresetResolver creates a PresetResolver.
// If customBasePath is empty, only embedded presets are used.
// If customBasePath is set, custom presets take precedence with fallback to embedded.
// Returns error if customBasePath is set but invalid.
func NewPresetResolver(customBasePath string) (*PresetResolver, error) {
	resolver := &PresetResolver{
		embedded: NewEmbeddedLoader(),
	}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}

	return resolver, nil
}

// LoadPreset loads a preset, trying the custom loader first if available.
func (r *PresetResolver) LoadPreset(name string) (*Preset, error) {
	if r.custom == nil {
		return r.embedded.LoadPreset(name)
	}

	p, err := r.custom.LoadPreset(name)
	if err == nil {
		return p, nil
	}

	// Only fall back for "not found" errors, not validation or I/O errors.
	if !errors.Is(err, ErrPresetNotFound) {
		return nil, err
	}

	return r.embedded.LoadPreset(name)
}

// Names lists every available preset name, custom and embedded combined,
// sorted and deduplicated.
func (r *PresetResolver) Names() []string {
	names := r.embedded.Names()
	if r.custom != nil {
		names = append(names, r.custom.Names()...)
	}

	seen := make(map[string]bool, len(names))
	unique := names[:0]
	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			unique = append(unique, name)
		}
	}
	sort.Strings(unique)
	return unique
}

// HasCustomLoader returns true if a custom preset loader is configured.
func (r *PresetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ Loader = (*PresetResolver)(nil)
