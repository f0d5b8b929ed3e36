package mdbundle

import (
	"fmt"
	"time"

	"github.com/alnah/go-mdbundle/internal/layout"
)

// InputKind classifies what the path handed to ProcessInput turned out
// to be. The set of kinds is closed; classification happens exactly once
// at the trust boundary.
type InputKind int

const (
	// InputMarkdownFile is a single .md or .markdown file.
	InputMarkdownFile InputKind = iota
	// InputDirectory is a directory scanned for Markdown files.
	InputDirectory
	// InputArchive is a .zip archive extracted to a temporary workspace.
	InputArchive
)

// String returns a human-readable kind name.
func (k InputKind) String() string {
	switch k {
	case InputMarkdownFile:
		return "markdown file"
	case InputDirectory:
		return "directory"
	case InputArchive:
		return "zip archive"
	default:
		return "unknown"
	}
}

// DefaultOutputName is the file name of the exported PDF, written into
// the workspace root (or next to the archive for archive inputs).
const DefaultOutputName = "markdown_export.pdf"

// DefaultCodeStyle is the syntax highlighting palette applied to fenced
// code blocks.
const DefaultCodeStyle = "github"

// Page dimension bounds in millimeters.
const (
	MinPageDimensionMM = 50.0
	MaxPageDimensionMM = 1000.0
)

// Font size bounds in points.
const (
	MinFontSizePt = 4.0
	MaxFontSizePt = 96.0
)

// Line spacing bounds, as a multiple of the font size.
const (
	MinLineSpacing = 1.0
	MaxLineSpacing = 3.0
)

// Image density bounds in pixels per inch.
const (
	MinImageDPI = 24.0
	MaxImageDPI = 1200.0
)

// PageSettings configures the page geometry. Dimensions are millimeters;
// the margin applies to all four sides.
type PageSettings struct {
	WidthMM  float64
	HeightMM float64
	MarginMM float64
}

// DefaultPageSettings returns A4 portrait with 15mm margins.
func DefaultPageSettings() PageSettings {
	cfg := layout.DefaultConfig()
	return PageSettings{
		WidthMM:  cfg.PageWidthMM,
		HeightMM: cfg.PageHeightMM,
		MarginMM: cfg.MarginMM,
	}
}

// Validate checks that the geometry describes a usable content area.
func (p PageSettings) Validate() error {
	if p.WidthMM < MinPageDimensionMM || p.WidthMM > MaxPageDimensionMM {
		return fmt.Errorf("%w: width %.1fmm (must be between %.0f and %.0f)",
			ErrInvalidPageSize, p.WidthMM, MinPageDimensionMM, MaxPageDimensionMM)
	}
	if p.HeightMM < MinPageDimensionMM || p.HeightMM > MaxPageDimensionMM {
		return fmt.Errorf("%w: height %.1fmm (must be between %.0f and %.0f)",
			ErrInvalidPageSize, p.HeightMM, MinPageDimensionMM, MaxPageDimensionMM)
	}
	if p.MarginMM < 0 {
		return fmt.Errorf("%w: %.1fmm (must not be negative)", ErrInvalidMargin, p.MarginMM)
	}
	shorter := p.WidthMM
	if p.HeightMM < shorter {
		shorter = p.HeightMM
	}
	if 2*p.MarginMM >= shorter {
		return fmt.Errorf("%w: %.1fmm leaves no content area on a %.0fx%.0fmm page",
			ErrInvalidMargin, p.MarginMM, p.WidthMM, p.HeightMM)
	}
	return nil
}

// TextSettings configures typography. Sizes are points; LineSpacing is a
// multiple of the font size.
type TextSettings struct {
	BodySizePt     float64
	CodeSizePt     float64
	HeadingSizesPt [6]float64 // indexed by heading level minus one
	LineSpacing    float64
}

// DefaultTextSettings returns 11pt body text, 9.5pt code, and 1.25 line
// spacing.
func DefaultTextSettings() TextSettings {
	cfg := layout.DefaultConfig()
	return TextSettings{
		BodySizePt:     cfg.BodySizePt,
		CodeSizePt:     cfg.CodeSizePt,
		HeadingSizesPt: cfg.HeadingSizesPt,
		LineSpacing:    cfg.LineHeightScale,
	}
}

// Validate checks that every size and the spacing are within bounds.
func (t TextSettings) Validate() error {
	sizes := []struct {
		name string
		pt   float64
	}{
		{"body", t.BodySizePt},
		{"code", t.CodeSizePt},
		{"h1", t.HeadingSizesPt[0]},
		{"h2", t.HeadingSizesPt[1]},
		{"h3", t.HeadingSizesPt[2]},
		{"h4", t.HeadingSizesPt[3]},
		{"h5", t.HeadingSizesPt[4]},
		{"h6", t.HeadingSizesPt[5]},
	}
	for _, s := range sizes {
		if s.pt < MinFontSizePt || s.pt > MaxFontSizePt {
			return fmt.Errorf("%w: %s %.1fpt (must be between %.0f and %.0f)",
				ErrInvalidFontSize, s.name, s.pt, MinFontSizePt, MaxFontSizePt)
		}
	}
	if t.LineSpacing < MinLineSpacing || t.LineSpacing > MaxLineSpacing {
		return fmt.Errorf("%w: %.2f (must be between %.1f and %.1f)",
			ErrInvalidLineSpacing, t.LineSpacing, MinLineSpacing, MaxLineSpacing)
	}
	return nil
}

// ImageSettings configures how embedded images are scaled onto the page.
type ImageSettings struct {
	// MaxWidthFraction caps image width to this fraction of the content
	// width, in (0, 1].
	MaxWidthFraction float64
	// MaxHeightMM caps image height. Zero disables the cap.
	MaxHeightMM float64
	// DPI maps pixel dimensions to physical size.
	DPI float64
}

// DefaultImageSettings returns full-width scaling at 96dpi with a 120mm
// height cap.
func DefaultImageSettings() ImageSettings {
	cfg := layout.DefaultConfig()
	return ImageSettings{
		MaxWidthFraction: cfg.ImageMaxWidthFrac,
		MaxHeightMM:      cfg.ImageMaxHeightMM,
		DPI:              cfg.ImageDPI,
	}
}

// Validate checks that the scaling parameters are within bounds.
func (i ImageSettings) Validate() error {
	if i.MaxWidthFraction <= 0 || i.MaxWidthFraction > 1 {
		return fmt.Errorf("%w: width fraction %.2f (must be in (0, 1])",
			ErrInvalidImageScale, i.MaxWidthFraction)
	}
	if i.MaxHeightMM < 0 {
		return fmt.Errorf("%w: max height %.1fmm (must not be negative)",
			ErrInvalidImageScale, i.MaxHeightMM)
	}
	if i.DPI < MinImageDPI || i.DPI > MaxImageDPI {
		return fmt.Errorf("%w: %.0f dpi (must be between %.0f and %.0f)",
			ErrInvalidImageScale, i.DPI, MinImageDPI, MaxImageDPI)
	}
	return nil
}

// Result summarizes one completed conversion.
type Result struct {
	OutputPath string
	PageCount  int
	Documents  int
	Warnings   []Warning
	Duration   time.Duration
}

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	page        PageSettings
	text        TextSettings
	image       ImageSettings
	outputDir   string // empty = job decides (root, or next to the archive)
	outputName  string
	codeStyle   string
	docHeadings *bool // nil = auto: headings only for multi-document jobs
	clock       func() time.Time
}

// WithPageSettings overrides the page geometry.
func WithPageSettings(p PageSettings) Option {
	return func(s *Service) {
		s.cfg.page = p
	}
}

// WithTextSettings overrides the typography.
func WithTextSettings(t TextSettings) Option {
	return func(s *Service) {
		s.cfg.text = t
	}
}

// WithImageSettings overrides image scaling.
func WithImageSettings(i ImageSettings) Option {
	return func(s *Service) {
		s.cfg.image = i
	}
}

// WithOutputDir redirects the exported PDF into an explicit directory
// instead of the job's workspace root. The directory is created if it
// does not exist.
func WithOutputDir(dir string) Option {
	return func(s *Service) {
		s.cfg.outputDir = dir
	}
}

// WithOutputName sets the file name of the exported PDF.
// Panics if name is empty (programmer error).
func WithOutputName(name string) Option {
	if name == "" {
		panic("mdbundle: WithOutputName requires a non-empty name")
	}
	return func(s *Service) {
		s.cfg.outputName = name
	}
}

// WithCodeStyle sets the syntax highlighting palette for fenced code
// blocks. An empty name disables coloring.
func WithCodeStyle(name string) Option {
	return func(s *Service) {
		s.cfg.codeStyle = name
	}
}

// WithDocumentHeadings forces per-document headings on or off. Without
// this option headings appear only when a job bundles more than one
// document.
func WithDocumentHeadings(enabled bool) Option {
	return func(s *Service) {
		s.cfg.docHeadings = &enabled
	}
}

// WithClock sets the time source for the PDF creation date. Fixing the
// clock makes output byte-for-byte reproducible.
// Panics if now is nil (programmer error).
func WithClock(now func() time.Time) Option {
	if now == nil {
		panic("mdbundle: WithClock requires a non-nil clock")
	}
	return func(s *Service) {
		s.cfg.clock = now
	}
}
