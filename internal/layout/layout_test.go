package layout_test

// Notes:
// - Geometry assertions recompute point values from millimeters locally
//   instead of exporting conversion helpers.
// - Syntax coloring assertions only check that coloring happened, not the
//   exact palette, to stay stable across highlighter updates.

import (
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/alnah/go-mdbundle/internal/blockmodel"
	"github.com/alnah/go-mdbundle/internal/layout"
)

const mmToPt = 1.0 / 0.352778

func pt(mm float64) float64 { return mm * mmToPt }

// ---------------------------------------------------------------------------
// Pages and flow
// ---------------------------------------------------------------------------

func TestLayout_EmptyInputYieldsOnePage(t *testing.T) {
	t.Parallel()

	pages := layout.Layout(layout.DefaultConfig(), nil, nil)
	if len(pages) != 1 {
		t.Fatalf("got %d pages, want 1", len(pages))
	}
	if len(pages[0].Fragments) != 0 {
		t.Errorf("empty input produced %d fragments", len(pages[0].Fragments))
	}
}

func TestLayout_PageDimensions(t *testing.T) {
	t.Parallel()

	pages := layout.Layout(layout.DefaultConfig(), nil, []blockmodel.Block{
		blockmodel.Paragraph{Runs: []blockmodel.Run{{Text: "hello"}}},
	})

	if math.Abs(pages[0].WidthPt-pt(210)) > 0.01 {
		t.Errorf("WidthPt = %f, want %f", pages[0].WidthPt, pt(210))
	}
	if math.Abs(pages[0].HeightPt-pt(297)) > 0.01 {
		t.Errorf("HeightPt = %f, want %f", pages[0].HeightPt, pt(297))
	}
}

func TestLayout_PageCountGrowsWithContent(t *testing.T) {
	t.Parallel()

	paragraphs := func(n int) []blockmodel.Block {
		blocks := make([]blockmodel.Block, n)
		for i := range blocks {
			blocks[i] = blockmodel.Paragraph{Runs: []blockmodel.Run{{Text: "one line of body text"}}}
		}
		return blocks
	}

	cfg := layout.DefaultConfig()
	few := layout.Layout(cfg, nil, paragraphs(5))
	many := layout.Layout(cfg, nil, paragraphs(300))

	if len(few) != 1 {
		t.Errorf("5 short paragraphs spread over %d pages, want 1", len(few))
	}
	if len(many) <= len(few) {
		t.Errorf("got %d pages for 300 paragraphs and %d for 5, want growth", len(many), len(few))
	}
}

func TestLayout_ParagraphSplitsAcrossPages(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("lorem ipsum dolor sit amet ", 400)
	pages := layout.Layout(layout.DefaultConfig(), nil, []blockmodel.Block{
		blockmodel.Paragraph{Runs: []blockmodel.Run{{Text: long}}},
	})

	if len(pages) < 2 {
		t.Fatalf("got %d pages, want the paragraph to overflow onto page 2", len(pages))
	}
	if len(pages[1].Fragments) == 0 {
		t.Error("continuation page has no fragments")
	}
}

func TestLayout_FragmentsStayInsideMargins(t *testing.T) {
	t.Parallel()

	cfg := layout.DefaultConfig()
	manifest := layout.Manifest{
		"/img/wide.png": {WidthPx: 3000, HeightPx: 1000, Available: true},
	}

	var blocks []blockmodel.Block
	for i := 0; i < 40; i++ {
		blocks = append(blocks,
			blockmodel.Heading{Level: 2, Runs: []blockmodel.Run{{Text: "Section heading"}}},
			blockmodel.Paragraph{Runs: []blockmodel.Run{{Text: strings.Repeat("wrapping body text ", 30)}}},
			blockmodel.ListItem{Index: 1, Depth: 1, Runs: []blockmodel.Run{{Text: "item"}}},
			blockmodel.CodeBlock{Language: "go", Lines: []string{"func main() {", "}"}},
			blockmodel.Image{Path: "/img/wide.png", Alt: "wide"},
			blockmodel.Rule{},
		)
	}
	pages := layout.Layout(cfg, manifest, blocks)

	left := pt(cfg.MarginMM)
	bottom := pt(cfg.MarginMM)
	top := pt(cfg.PageHeightMM - cfg.MarginMM)
	const eps = 0.01

	for p, page := range pages {
		for f, frag := range page.Fragments {
			var x, y float64
			switch v := frag.(type) {
			case layout.TextFragment:
				x, y = v.XPt, v.YPt
			case layout.ImageFragment:
				x, y = v.XPt, v.YPt
				if top := v.YPt + v.HeightPt; top > pt(cfg.PageHeightMM-cfg.MarginMM)+eps {
					t.Errorf("page %d fragment %d: image top %f above margin", p, f, top)
				}
			case layout.RuleFragment:
				x, y = v.XPt, v.YPt
			}
			if x < left-eps {
				t.Errorf("page %d fragment %d: x = %f crosses left margin %f", p, f, x, left)
			}
			if y < bottom-eps {
				t.Errorf("page %d fragment %d: y = %f crosses bottom margin %f", p, f, y, bottom)
			}
			if y > top+eps {
				t.Errorf("page %d fragment %d: y = %f above top margin %f", p, f, y, top)
			}
		}
	}
}

func TestLayout_HeadingKeptWithFollowingLine(t *testing.T) {
	t.Parallel()

	cfg := layout.DefaultConfig()
	cfg.PageWidthMM = 100
	cfg.PageHeightMM = 60
	cfg.MarginMM = 10

	blocks := []blockmodel.Block{
		blockmodel.Paragraph{Runs: []blockmodel.Run{{Text: "para one"}}},
		blockmodel.Paragraph{Runs: []blockmodel.Run{{Text: "para two"}}},
		blockmodel.Paragraph{Runs: []blockmodel.Run{{Text: "para three"}}},
		blockmodel.Paragraph{Runs: []blockmodel.Run{{Text: "para four"}}},
		blockmodel.Heading{Level: 1, Runs: []blockmodel.Run{{Text: "Title"}}},
		blockmodel.Paragraph{Runs: []blockmodel.Run{{Text: "body after"}}},
	}
	pages := layout.Layout(cfg, nil, blocks)

	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages))
	}
	if got := len(textFragments(pages[0])); got != 4 {
		t.Errorf("page 1 has %d text fragments, want the 4 paragraphs", got)
	}

	second := textFragments(pages[1])
	if len(second) < 2 {
		t.Fatalf("page 2 has %d text fragments, want heading plus body", len(second))
	}
	if second[0].Text != "Title" || second[0].Font != layout.FontBold {
		t.Errorf("page 2 starts with %+v, want bold Title", second[0])
	}
	if second[1].Text != "body after" {
		t.Errorf("heading not followed by body text, got %q", second[1].Text)
	}
}

// ---------------------------------------------------------------------------
// Block styling
// ---------------------------------------------------------------------------

func TestLayout_ListPrefixesAndIndent(t *testing.T) {
	t.Parallel()

	cfg := layout.DefaultConfig()
	pages := layout.Layout(cfg, nil, []blockmodel.Block{
		blockmodel.ListItem{Index: 1, Depth: 0, Runs: []blockmodel.Run{{Text: "alpha"}}},
		blockmodel.ListItem{Index: 1, Depth: 1, Runs: []blockmodel.Run{{Text: "nested"}}},
		blockmodel.ListItem{Ordered: true, Index: 3, Depth: 0, Runs: []blockmodel.Run{{Text: "third"}}},
	})

	frags := textFragments(pages[0])
	if len(frags) != 3 {
		t.Fatalf("got %d fragments, want 3: %+v", len(frags), frags)
	}

	if !strings.HasPrefix(frags[0].Text, "• ") {
		t.Errorf("unordered prefix = %q, want bullet", frags[0].Text)
	}
	if !strings.HasPrefix(frags[2].Text, "3. ") {
		t.Errorf("ordered prefix = %q, want %q", frags[2].Text, "3. ")
	}

	wantOuter := pt(cfg.MarginMM + cfg.ListIndentMM)
	wantInner := pt(cfg.MarginMM + 2*cfg.ListIndentMM)
	if math.Abs(frags[0].XPt-wantOuter) > 0.01 {
		t.Errorf("depth 0 x = %f, want %f", frags[0].XPt, wantOuter)
	}
	if math.Abs(frags[1].XPt-wantInner) > 0.01 {
		t.Errorf("depth 1 x = %f, want %f", frags[1].XPt, wantInner)
	}
}

func TestLayout_CodeLinesClippedNotWrapped(t *testing.T) {
	t.Parallel()

	cfg := layout.DefaultConfig()
	long := strings.Repeat("x", 400)
	pages := layout.Layout(cfg, nil, []blockmodel.Block{
		blockmodel.CodeBlock{Lines: []string{long, "short"}},
	})

	frags := textFragments(pages[0])
	if len(frags) != 2 {
		t.Fatalf("got %d fragments, want one per code line", len(frags))
	}

	availPt := pt(cfg.PageWidthMM - 2*cfg.MarginMM - cfg.CodeIndentMM)
	maxRunes := int(availPt / (cfg.CodeSizePt * 0.6))
	if got := utf8.RuneCountInString(frags[0].Text); got > maxRunes {
		t.Errorf("clipped line has %d runes, want at most %d", got, maxRunes)
	}
	if frags[0].Font != layout.FontMono {
		t.Errorf("code font = %q, want %q", frags[0].Font, layout.FontMono)
	}
}

func TestLayout_CodeColoring(t *testing.T) {
	t.Parallel()

	pages := layout.Layout(layout.DefaultConfig(), nil, []blockmodel.Block{
		blockmodel.CodeBlock{Language: "go", Lines: []string{`func main() { return }`}},
	})

	colored := false
	for _, frag := range textFragments(pages[0]) {
		if frag.Color != (layout.Color{}) {
			colored = true
			break
		}
	}
	if !colored {
		t.Error("no colored fragments for a Go code block")
	}

	pages = layout.Layout(layout.DefaultConfig(), nil, []blockmodel.Block{
		blockmodel.CodeBlock{Language: "no-such-language", Lines: []string{"plain text"}},
	})
	for _, frag := range textFragments(pages[0]) {
		if frag.Color != (layout.Color{}) {
			t.Errorf("unknown language produced colored fragment %+v", frag)
		}
	}
}

func TestLayout_RuleSpansContentWidth(t *testing.T) {
	t.Parallel()

	cfg := layout.DefaultConfig()
	pages := layout.Layout(cfg, nil, []blockmodel.Block{blockmodel.Rule{}})

	var rules []layout.RuleFragment
	for _, frag := range pages[0].Fragments {
		if r, ok := frag.(layout.RuleFragment); ok {
			rules = append(rules, r)
		}
	}
	if len(rules) != 1 {
		t.Fatalf("got %d rule fragments, want 1", len(rules))
	}
	if want := pt(cfg.PageWidthMM - 2*cfg.MarginMM); math.Abs(rules[0].WidthPt-want) > 0.01 {
		t.Errorf("rule width = %f, want %f", rules[0].WidthPt, want)
	}
	if rules[0].LineWidthPt != cfg.RuleWidthPt {
		t.Errorf("rule line width = %f, want %f", rules[0].LineWidthPt, cfg.RuleWidthPt)
	}
}

// ---------------------------------------------------------------------------
// Images
// ---------------------------------------------------------------------------

func TestLayout_ImageScaling(t *testing.T) {
	t.Parallel()

	cfg := layout.DefaultConfig()

	tests := []struct {
		name     string
		px       [2]int
		wantWMM  float64
		wantHMM  float64
		checkCap bool
	}{
		{
			// 378x189 px at 96 dpi is 100x50 mm, inside all limits.
			name:    "natural size",
			px:      [2]int{378, 189},
			wantWMM: float64(378) * 25.4 / 96,
			wantHMM: float64(189) * 25.4 / 96,
		},
		{
			// Wider than the 180 mm content area; shrinks proportionally.
			name:    "fit to content width",
			px:      [2]int{1600, 800},
			wantWMM: 180,
			wantHMM: 90,
		},
		{
			// Tall portrait image hits the height cap.
			name:     "height capped",
			px:       [2]int{200, 4000},
			wantHMM:  120,
			checkCap: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			manifest := layout.Manifest{
				"/img/pic.png": {WidthPx: tt.px[0], HeightPx: tt.px[1], Available: true},
			}
			pages := layout.Layout(cfg, manifest, []blockmodel.Block{
				blockmodel.Image{Path: "/img/pic.png", Alt: "pic"},
			})

			var img layout.ImageFragment
			found := false
			for _, frag := range pages[0].Fragments {
				if v, ok := frag.(layout.ImageFragment); ok {
					img, found = v, true
				}
			}
			if !found {
				t.Fatal("no image fragment placed")
			}

			if math.Abs(img.HeightPt-pt(tt.wantHMM)) > 0.05 {
				t.Errorf("height = %f pt, want %f", img.HeightPt, pt(tt.wantHMM))
			}
			if tt.checkCap {
				ratio := float64(tt.px[0]) / float64(tt.px[1])
				wantW := tt.wantHMM * ratio
				if math.Abs(img.WidthPt-pt(wantW)) > 0.05 {
					t.Errorf("width = %f pt, want %f", img.WidthPt, pt(wantW))
				}
				return
			}
			if math.Abs(img.WidthPt-pt(tt.wantWMM)) > 0.05 {
				t.Errorf("width = %f pt, want %f", img.WidthPt, pt(tt.wantWMM))
			}
		})
	}
}

func TestLayout_UnavailableImageRendersAltText(t *testing.T) {
	t.Parallel()

	manifest := layout.Manifest{
		"/img/broken.png": {Available: false},
	}
	pages := layout.Layout(layout.DefaultConfig(), manifest, []blockmodel.Block{
		blockmodel.Image{Path: "/img/broken.png", Alt: "a broken chart"},
		blockmodel.Image{Path: "/img/unknown.png"},
	})

	frags := textFragments(pages[0])
	if len(frags) != 2 {
		t.Fatalf("got %d text fragments, want 2 fallbacks", len(frags))
	}
	if frags[0].Text != "a broken chart" || frags[0].Font != layout.FontItalic {
		t.Errorf("fallback = %+v, want italic alt text", frags[0])
	}
	if frags[1].Text != "unknown.png" {
		t.Errorf("missing-alt fallback = %q, want file name", frags[1].Text)
	}

	for _, frag := range pages[0].Fragments {
		if _, ok := frag.(layout.ImageFragment); ok {
			t.Error("unavailable image still placed as image fragment")
		}
	}
}

// ---------------------------------------------------------------------------
// Wrapping
// ---------------------------------------------------------------------------

func TestLayout_LongWordSplits(t *testing.T) {
	t.Parallel()

	cfg := layout.DefaultConfig()
	word := strings.Repeat("a", 500)
	pages := layout.Layout(cfg, nil, []blockmodel.Block{
		blockmodel.Paragraph{Runs: []blockmodel.Run{{Text: word}}},
	})

	frags := textFragments(pages[0])
	if len(frags) < 2 {
		t.Fatalf("got %d fragments, want the word split across lines", len(frags))
	}

	maxRunes := int(pt(cfg.PageWidthMM-2*cfg.MarginMM) / (cfg.BodySizePt * 0.52))
	total := 0
	for _, frag := range frags {
		n := utf8.RuneCountInString(frag.Text)
		if n > maxRunes {
			t.Errorf("fragment of %d runes exceeds line budget %d", n, maxRunes)
		}
		total += n
	}
	if total != 500 {
		t.Errorf("split fragments cover %d runes, want 500", total)
	}
}

func TestLayout_StyledRunsShareLine(t *testing.T) {
	t.Parallel()

	pages := layout.Layout(layout.DefaultConfig(), nil, []blockmodel.Block{
		blockmodel.Paragraph{Runs: []blockmodel.Run{
			{Text: "plain "},
			{Text: "bold", Style: blockmodel.StyleBold},
			{Text: " tail"},
		}},
	})

	frags := textFragments(pages[0])
	if len(frags) != 3 {
		t.Fatalf("got %d fragments, want 3 styled spans", len(frags))
	}
	if frags[0].YPt != frags[1].YPt || frags[1].YPt != frags[2].YPt {
		t.Error("spans of one line placed on different baselines")
	}
	if frags[0].XPt >= frags[1].XPt || frags[1].XPt >= frags[2].XPt {
		t.Error("spans do not advance left to right")
	}
	if frags[1].Font != layout.FontBold {
		t.Errorf("bold span font = %q, want %q", frags[1].Font, layout.FontBold)
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func textFragments(page layout.Page) []layout.TextFragment {
	var out []layout.TextFragment
	for _, frag := range page.Fragments {
		if v, ok := frag.(layout.TextFragment); ok {
			out = append(out, v)
		}
	}
	return out
}
