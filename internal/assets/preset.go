package assets

import (
	"fmt"

	"github.com/alnah/go-mdbundle/internal/yamlutil"
)

// DefaultPresetName is the name of the built-in A4 preset.
const DefaultPresetName = "default"

// Preset is one named bundle of page, text, and image settings parsed
// from YAML. Zero-valued fields mean "keep the library default"; the
// public layer overlays presets onto its defaults.
type Preset struct {
	Name  string      `yaml:"-"`
	Page  PagePreset  `yaml:"page"`
	Text  TextPreset  `yaml:"text"`
	Image ImagePreset `yaml:"image"`
}

// PagePreset carries page geometry in millimeters.
type PagePreset struct {
	WidthMM  float64 `yaml:"width_mm"`
	HeightMM float64 `yaml:"height_mm"`
	MarginMM float64 `yaml:"margin_mm"`
}

// TextPreset carries typography settings in points.
type TextPreset struct {
	BodySizePt     float64   `yaml:"body_size_pt"`
	CodeSizePt     float64   `yaml:"code_size_pt"`
	HeadingSizesPt []float64 `yaml:"heading_sizes_pt"`
	LineSpacing    float64   `yaml:"line_spacing"`
}

// ImagePreset carries image scaling settings.
type ImagePreset struct {
	MaxWidthFraction float64 `yaml:"max_width_fraction"`
	MaxHeightMM      float64 `yaml:"max_height_mm"`
	DPI              float64 `yaml:"dpi"`
}

// parsePreset decodes and structurally validates one preset file. Unknown
// fields are rejected so typos fail loudly instead of silently keeping a
// default. Range validation of the merged settings happens in the public
// layer.
func parsePreset(name string, data []byte) (*Preset, error) {
	var p Preset
	if err := yamlutil.UnmarshalStrict(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPresetData, name, err)
	}
	p.Name = name
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// validate rejects structurally broken presets: negative values and
// heading lists that are not exactly one size per level.
func (p *Preset) validate() error {
	if n := len(p.Text.HeadingSizesPt); n != 0 && n != 6 {
		return fmt.Errorf("%w: %q: heading_sizes_pt needs 6 entries, got %d",
			ErrInvalidPresetData, p.Name, n)
	}

	values := []struct {
		field string
		v     float64
	}{
		{"page.width_mm", p.Page.WidthMM},
		{"page.height_mm", p.Page.HeightMM},
		{"page.margin_mm", p.Page.MarginMM},
		{"text.body_size_pt", p.Text.BodySizePt},
		{"text.code_size_pt", p.Text.CodeSizePt},
		{"text.line_spacing", p.Text.LineSpacing},
		{"image.max_width_fraction", p.Image.MaxWidthFraction},
		{"image.max_height_mm", p.Image.MaxHeightMM},
		{"image.dpi", p.Image.DPI},
	}
	for _, val := range values {
		if val.v < 0 {
			return fmt.Errorf("%w: %q: %s must not be negative",
				ErrInvalidPresetData, p.Name, val.field)
		}
	}
	for i, size := range p.Text.HeadingSizesPt {
		if size < 0 {
			return fmt.Errorf("%w: %q: heading_sizes_pt[%d] must not be negative",
				ErrInvalidPresetData, p.Name, i)
		}
	}
	return nil
}
