package mdbundle

import (
	"errors"

	"github.com/alnah/go-mdbundle/internal/assets"
)

// DefaultPreset is the name of the built-in A4 preset.
const DefaultPreset = "default"

// Preset bundles page geometry, typography, and image scaling settings
// under a name.
type Preset struct {
	Name  string
	Page  PageSettings
	Text  TextSettings
	Image ImageSettings
}

// Options returns the service options that apply this preset. Place them
// before any explicit overrides when constructing a Service.
func (p *Preset) Options() []Option {
	return []Option{
		WithPageSettings(p.Page),
		WithTextSettings(p.Text),
		WithImageSettings(p.Image),
	}
}

// PresetLoader defines the contract for loading named presets.
// Implementations may load from filesystem, embedded assets, S3, database, etc.
//
// The library provides NewPresetLoader() for filesystem-based loading with
// fallback to embedded defaults. Implement this interface for custom backends.
type PresetLoader interface {
	// LoadPreset loads a preset by name (without the .yaml extension).
	// Returns ErrPresetNotFound if the preset doesn't exist.
	LoadPreset(name string) (*Preset, error)
}

// NewPresetLoader creates a PresetLoader for the given base path.
// If basePath is empty, returns a loader using only embedded presets.
// If basePath is set, custom presets take precedence with fallback to embedded.
//
// The basePath directory should contain presets/{name}.yaml files.
//
// Returns ErrInvalidPresetPath if basePath is set but not a valid,
// readable directory.
func NewPresetLoader(basePath string) (PresetLoader, error) {
	resolver, err := assets.NewPresetResolver(basePath)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return &presetLoaderAdapter{resolver: resolver}, nil
}

// presetLoaderAdapter wraps the internal PresetResolver to return public types.
type presetLoaderAdapter struct {
	resolver *assets.PresetResolver
}

func (a *presetLoaderAdapter) LoadPreset(name string) (*Preset, error) {
	p, err := a.resolver.LoadPreset(name)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return overlayPreset(p), nil
}

// overlayPreset merges a parsed preset onto the library defaults.
// Zero-valued preset fields keep the default, so partial preset files
// only state what they change.
func overlayPreset(p *assets.Preset) *Preset {
	out := &Preset{
		Name:  p.Name,
		Page:  DefaultPageSettings(),
		Text:  DefaultTextSettings(),
		Image: DefaultImageSettings(),
	}

	if p.Page.WidthMM > 0 {
		out.Page.WidthMM = p.Page.WidthMM
	}
	if p.Page.HeightMM > 0 {
		out.Page.HeightMM = p.Page.HeightMM
	}
	if p.Page.MarginMM > 0 {
		out.Page.MarginMM = p.Page.MarginMM
	}

	if p.Text.BodySizePt > 0 {
		out.Text.BodySizePt = p.Text.BodySizePt
	}
	if p.Text.CodeSizePt > 0 {
		out.Text.CodeSizePt = p.Text.CodeSizePt
	}
	if len(p.Text.HeadingSizesPt) == 6 {
		copy(out.Text.HeadingSizesPt[:], p.Text.HeadingSizesPt)
	}
	if p.Text.LineSpacing > 0 {
		out.Text.LineSpacing = p.Text.LineSpacing
	}

	if p.Image.MaxWidthFraction > 0 {
		out.Image.MaxWidthFraction = p.Image.MaxWidthFraction
	}
	if p.Image.MaxHeightMM > 0 {
		out.Image.MaxHeightMM = p.Image.MaxHeightMM
	}
	if p.Image.DPI > 0 {
		out.Image.DPI = p.Image.DPI
	}

	return out
}

// convertAssetError maps internal asset errors to public errors.
func convertAssetError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, assets.ErrPresetNotFound):
		return wrapError(ErrPresetNotFound, err)
	case errors.Is(err, assets.ErrInvalidPresetData):
		return wrapError(ErrInvalidPreset, err)
	case errors.Is(err, assets.ErrInvalidBasePath):
		return wrapError(ErrInvalidPresetPath, err)
	case errors.Is(err, assets.ErrPathTraversal):
		return wrapError(ErrInvalidPresetPath, err)
	case errors.Is(err, assets.ErrInvalidAssetName):
		return wrapError(ErrPresetNotFound, err) // Invalid name means not found
	default:
		return err
	}
}

// wrapError creates a new error that wraps the original with a public sentinel.
// The resulting error preserves the original message via Error() and supports
// errors.Is() matching against the public sentinel via Unwrap().
func wrapError(sentinel, original error) error {
	return &wrappedAssetError{sentinel: sentinel, original: original}
}

type wrappedAssetError struct {
	sentinel error
	original error
}

func (e *wrappedAssetError) Error() string {
	return e.original.Error()
}

// Unwrap returns the public sentinel for errors.Is() matching.
// Internal errors are not exposed since they're in internal/ packages.
func (e *wrappedAssetError) Unwrap() error {
	return e.sentinel
}
