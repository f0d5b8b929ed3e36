package layout

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/alnah/go-mdbundle/internal/blockmodel"
)

// Layout paginates blocks onto pages. Content flows continuously: a block
// that does not fit in the remaining space moves to a fresh page, and
// paragraphs may split across pages line by line. At least one page is
// always returned so an empty block sequence still yields a document.
func Layout(cfg Config, manifest Manifest, blocks []blockmodel.Block) []Page {
	e := &engine{cfg: cfg, manifest: manifest}

	for i, block := range blocks {
		switch v := block.(type) {
		case blockmodel.Heading:
			e.placeHeading(v)
		case blockmodel.Paragraph:
			e.placeParagraph(v.Runs, 0)
		case blockmodel.ListItem:
			e.placeListItem(v)
			if !nextIsListItem(blocks, i) {
				e.cursor += mmFromPt(cfg.ListEndGapPt)
			}
		case blockmodel.CodeBlock:
			e.placeCode(v)
		case blockmodel.Image:
			e.placeImage(v)
		case blockmodel.Rule:
			e.placeRule()
		}
	}

	e.closePage()
	return e.pages
}

type engine struct {
	cfg      Config
	manifest Manifest

	pages  []Page
	frags  []Fragment
	cursor float64 // mm below the top of the content area
}

// ensureSpace starts a new page when the next placement would cross the
// bottom margin. Placement at the top of a page never breaks, so content
// taller than a page still lands somewhere.
func (e *engine) ensureSpace(needMM float64) {
	if e.cursor > 0 && e.cursor+needMM > e.cfg.contentHeightMM() {
		e.closePage()
	}
}

func (e *engine) closePage() {
	e.pages = append(e.pages, Page{
		WidthPt:   ptFromMM(e.cfg.PageWidthMM),
		HeightPt:  ptFromMM(e.cfg.PageHeightMM),
		Fragments: e.frags,
	})
	e.frags = nil
	e.cursor = 0
}

// baselinePt converts the cursor position to a PDF baseline for a line of
// the given height: the line box spans [cursor, cursor+lineH) from the
// content top, and text sits on the box bottom.
func (e *engine) baselinePt(lineHMM float64) float64 {
	return ptFromMM(e.cfg.PageHeightMM - e.cfg.MarginMM - e.cursor - lineHMM)
}

func (e *engine) placeTextLine(segs []lineSegment, indentMM, sizePt float64) {
	lineH := mmFromPt(sizePt * e.cfg.LineHeightScale)
	e.ensureSpace(lineH)

	x := ptFromMM(e.cfg.MarginMM + indentMM)
	y := e.baselinePt(lineH)
	for _, seg := range segs {
		e.frags = append(e.frags, TextFragment{
			XPt:    x,
			YPt:    y,
			Font:   fontFor(seg.Style),
			SizePt: sizePt,
			Text:   seg.Text,
		})
		x += float64(utf8.RuneCountInString(seg.Text)) * charWidthPt(seg.Style.Code(), sizePt)
	}
	e.cursor += lineH
}

func (e *engine) placeHeading(h blockmodel.Heading) {
	size := e.cfg.headingSizePt(h.Level)

	runs := make([]blockmodel.Run, len(h.Runs))
	for i, run := range h.Runs {
		run.Style |= blockmodel.StyleBold
		runs[i] = run
	}
	lines := wrapRuns(runs, ptFromMM(e.cfg.contentWidthMM()), size)
	if len(lines) == 0 {
		return
	}

	// A heading stays with at least one line of the content below it
	// rather than stranding at a page bottom.
	lineH := mmFromPt(size * e.cfg.LineHeightScale)
	bodyLineH := mmFromPt(e.cfg.BodySizePt * e.cfg.LineHeightScale)
	e.ensureSpace(float64(len(lines))*lineH + bodyLineH)

	for _, line := range lines {
		e.placeTextLine(line, 0, size)
	}
	e.cursor += mmFromPt(e.cfg.HeadingGapPt)
}

func (e *engine) placeParagraph(runs []blockmodel.Run, indentMM float64) {
	lines := wrapRuns(runs, ptFromMM(e.cfg.contentWidthMM()-indentMM), e.cfg.BodySizePt)
	for _, line := range lines {
		e.placeTextLine(line, indentMM, e.cfg.BodySizePt)
	}
	if len(lines) > 0 {
		e.cursor += mmFromPt(e.cfg.ParagraphGapPt)
	}
}

func (e *engine) placeListItem(item blockmodel.ListItem) {
	indent := e.cfg.ListIndentMM * float64(item.Depth+1)

	prefix := "• "
	if item.Ordered {
		prefix = fmt.Sprintf("%d. ", item.Index)
	}
	runs := append([]blockmodel.Run{{Text: prefix}}, item.Runs...)

	lines := wrapRuns(runs, ptFromMM(e.cfg.contentWidthMM()-indent), e.cfg.BodySizePt)
	for _, line := range lines {
		e.placeTextLine(line, indent, e.cfg.BodySizePt)
	}
	e.cursor += mmFromPt(e.cfg.ListItemGapPt)
}

func (e *engine) placeCode(code blockmodel.CodeBlock) {
	size := e.cfg.CodeSizePt
	lineH := mmFromPt(size * e.cfg.LineHeightScale)
	availPt := ptFromMM(e.cfg.contentWidthMM() - e.cfg.CodeIndentMM)
	maxRunes := int(availPt / charWidthPt(true, size))

	// Tabs expand here so the clip budget counts real columns and no
	// control bytes reach the text fragments.
	lines := make([]string, len(code.Lines))
	for i, line := range code.Lines {
		lines[i] = strings.ReplaceAll(line, "\t", "    ")
	}

	colored := colorizeCode(lines, code.Language, e.cfg.CodeStyle)
	x := ptFromMM(e.cfg.MarginMM + e.cfg.CodeIndentMM)

	for _, spans := range colored {
		e.ensureSpace(lineH)
		y := e.baselinePt(lineH)
		pos := x
		for _, span := range clipSpans(spans, maxRunes) {
			e.frags = append(e.frags, TextFragment{
				XPt:    pos,
				YPt:    y,
				Font:   FontMono,
				SizePt: size,
				Color:  span.Color,
				Text:   span.Text,
			})
			pos += float64(utf8.RuneCountInString(span.Text)) * charWidthPt(true, size)
		}
		e.cursor += lineH
	}

	if len(colored) > 0 {
		e.cursor += mmFromPt(e.cfg.CodeGapPt)
	}
}

func (e *engine) placeImage(img blockmodel.Image) {
	meta, ok := e.manifest[img.Path]
	if !ok || !meta.Available || meta.WidthPx <= 0 || meta.HeightPx <= 0 {
		alt := img.Alt
		if alt == "" {
			alt = filepath.Base(img.Path)
		}
		e.placeParagraph([]blockmodel.Run{{Text: alt, Style: blockmodel.StyleItalic}}, 0)
		return
	}

	// Pixel dimensions map to physical size at the configured density,
	// then shrink to fit the content width and the height cap.
	wMM := float64(meta.WidthPx) * 25.4 / e.cfg.ImageDPI
	hMM := float64(meta.HeightPx) * 25.4 / e.cfg.ImageDPI
	maxW := e.cfg.contentWidthMM()
	if frac := e.cfg.ImageMaxWidthFrac; frac > 0 && frac < 1 {
		maxW *= frac
	}
	if wMM > maxW {
		hMM *= maxW / wMM
		wMM = maxW
	}
	if maxH := e.cfg.ImageMaxHeightMM; maxH > 0 && hMM > maxH {
		wMM *= maxH / hMM
		hMM = maxH
	}

	e.ensureSpace(hMM)
	e.frags = append(e.frags, ImageFragment{
		XPt:      ptFromMM(e.cfg.MarginMM),
		YPt:      ptFromMM(e.cfg.PageHeightMM - e.cfg.MarginMM - e.cursor - hMM),
		WidthPt:  ptFromMM(wMM),
		HeightPt: ptFromMM(hMM),
		Path:     img.Path,
	})
	e.cursor += hMM + mmFromPt(e.cfg.ImageGapPt)
}

func (e *engine) placeRule() {
	advance := mmFromPt(e.cfg.RuleAdvancePt)
	e.ensureSpace(advance)

	e.frags = append(e.frags, RuleFragment{
		XPt:         ptFromMM(e.cfg.MarginMM),
		YPt:         ptFromMM(e.cfg.PageHeightMM - e.cfg.MarginMM - e.cursor - advance/2),
		WidthPt:     ptFromMM(e.cfg.contentWidthMM()),
		LineWidthPt: e.cfg.RuleWidthPt,
	})
	e.cursor += advance
}

func fontFor(style blockmodel.Style) string {
	if style.Code() {
		return FontMono
	}
	switch {
	case style.Bold() && style.Italic():
		return FontBoldItalic
	case style.Bold():
		return FontBold
	case style.Italic():
		return FontItalic
	default:
		return FontBody
	}
}

func nextIsListItem(blocks []blockmodel.Block, i int) bool {
	if i+1 >= len(blocks) {
		return false
	}
	_, ok := blocks[i+1].(blockmodel.ListItem)
	return ok
}
