// Package layout paginates block content onto fixed-size pages. It turns a
// flat block sequence into pages of positioned fragments: text runs with a
// font and size, placed images, and horizontal rules. All placement math
// happens here; encoding the result into a document format is the caller's
// concern.
//
// Vertical layout uses a cursor measured in millimeters from the top of the
// content area. Emitted fragments use PDF conventions: points, origin at
// the bottom-left corner of the page, text positioned at the baseline.
package layout

// ptPerMM converts millimeters to points (1 pt = 0.352778 mm).
const ptPerMM = 1.0 / 0.352778

func mmFromPt(pt float64) float64 { return pt / ptPerMM }

func ptFromMM(mm float64) float64 { return mm * ptPerMM }

// Standard PDF base-14 font names used for text fragments.
const (
	FontBody       = "Helvetica"
	FontBold       = "Helvetica-Bold"
	FontItalic     = "Helvetica-Oblique"
	FontBoldItalic = "Helvetica-BoldOblique"
	FontMono       = "Courier"
)

// Config holds the page geometry and typography settings for one layout
// run. Dimensions are millimeters, type sizes and gaps are points.
type Config struct {
	PageWidthMM  float64
	PageHeightMM float64
	MarginMM     float64

	BodySizePt      float64
	CodeSizePt      float64
	HeadingSizesPt  [6]float64
	LineHeightScale float64

	ParagraphGapPt float64
	HeadingGapPt   float64
	ListItemGapPt  float64
	ListEndGapPt   float64
	CodeGapPt      float64
	ImageGapPt     float64

	ListIndentMM float64
	CodeIndentMM float64

	RuleAdvancePt float64
	RuleWidthPt   float64

	ImageDPI float64
	// ImageMaxWidthFrac caps image width to this fraction of the content
	// width. Zero or one means the full width is available.
	ImageMaxWidthFrac float64
	ImageMaxHeightMM  float64

	// CodeStyle names the syntax highlighting palette. Empty disables
	// coloring.
	CodeStyle string
}

// DefaultConfig returns the A4 portrait settings used when callers do not
// override geometry or typography.
func DefaultConfig() Config {
	return Config{
		PageWidthMM:  210,
		PageHeightMM: 297,
		MarginMM:     15,

		BodySizePt:      11,
		CodeSizePt:      9.5,
		HeadingSizesPt:  [6]float64{24, 18, 14, 12, 12, 12},
		LineHeightScale: 1.25,

		ParagraphGapPt: 6,
		HeadingGapPt:   8,
		ListItemGapPt:  2,
		ListEndGapPt:   4,
		CodeGapPt:      6,
		ImageGapPt:     6,

		ListIndentMM: 6,
		CodeIndentMM: 4,

		RuleAdvancePt: 8,
		RuleWidthPt:   0.5,

		ImageDPI:          96,
		ImageMaxWidthFrac: 1,
		ImageMaxHeightMM:  120,

		CodeStyle: "github",
	}
}

func (c Config) contentWidthMM() float64 { return c.PageWidthMM - 2*c.MarginMM }

func (c Config) contentHeightMM() float64 { return c.PageHeightMM - 2*c.MarginMM }

func (c Config) headingSizePt(level int) float64 {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return c.HeadingSizesPt[level-1]
}

// Color is an RGB text color. The zero value is black.
type Color struct {
	R, G, B uint8
}

// Fragment is one positioned drawing operation. The set of implementations
// in this package is complete.
type Fragment interface {
	fragment()
}

// TextFragment draws a single-style text span at a baseline position.
type TextFragment struct {
	XPt, YPt float64
	Font     string
	SizePt   float64
	Color    Color
	Text     string
}

// ImageFragment draws an image; X and Y address its lower-left corner.
type ImageFragment struct {
	XPt, YPt          float64
	WidthPt, HeightPt float64
	Path              string
}

// RuleFragment draws a horizontal line of the given length.
type RuleFragment struct {
	XPt, YPt    float64
	WidthPt     float64
	LineWidthPt float64
}

func (TextFragment) fragment()  {}
func (ImageFragment) fragment() {}
func (RuleFragment) fragment()  {}

var (
	_ Fragment = TextFragment{}
	_ Fragment = ImageFragment{}
	_ Fragment = RuleFragment{}
)

// Page is one laid-out page in point units.
type Page struct {
	WidthPt   float64
	HeightPt  float64
	Fragments []Fragment
}

// ImageMeta carries the pixel dimensions layout needs to scale an image.
// Available is false when the underlying asset failed to decode.
type ImageMeta struct {
	WidthPx   int
	HeightPx  int
	Available bool
}

// Manifest maps canonical image paths to their metadata.
type Manifest map[string]ImageMeta

// charWidthPt estimates the advance width of one character. Proportional
// faces average out near 52% of the em size; Courier is fixed at 60%.
func charWidthPt(mono bool, sizePt float64) float64 {
	if mono {
		return sizePt * 0.6
	}
	return sizePt * 0.52
}
