// Package blockmodel lowers parsed Markdown into a flat sequence of typed
// blocks that a layout engine can paginate. The block set is closed:
// headings, paragraphs, list items, code blocks, images, and horizontal
// rules. Inline formatting survives as styled runs; everything else
// (blockquote nesting, raw HTML, link targets) degrades to plain content.
//
// Parsing is strict CommonMark. Extended syntax such as tables is not
// recognized and flows through as literal paragraph text.
package blockmodel

// Style is a bitmask of inline text styles carried by a run.
type Style uint8

const (
	StyleBold Style = 1 << iota
	StyleItalic
	StyleCode
)

// Bold reports whether the bold bit is set.
func (s Style) Bold() bool { return s&StyleBold != 0 }

// Italic reports whether the italic bit is set.
func (s Style) Italic() bool { return s&StyleItalic != 0 }

// Code reports whether the inline-code bit is set.
func (s Style) Code() bool { return s&StyleCode != 0 }

// Run is a span of text with uniform styling.
type Run struct {
	Text  string
	Style Style
}

// Block is one renderable unit. The set of implementations in this package
// is complete; rendering code switches over them exhaustively.
type Block interface {
	block()
}

// Heading is a section title, level 1 through 6.
type Heading struct {
	Level int
	Runs  []Run
}

// Paragraph is a body text block.
type Paragraph struct {
	Runs []Run
}

// ListItem is a single bullet or numbered item. Depth counts nesting
// levels starting at zero; Index is the 1-based ordinal for ordered items.
type ListItem struct {
	Ordered bool
	Index   int
	Depth   int
	Runs    []Run
}

// CodeBlock is a fenced or indented code block, one entry per source line.
type CodeBlock struct {
	Language string
	Lines    []string
}

// Image is an embedded image whose reference resolved to a readable path.
type Image struct {
	Path string
	Alt  string
}

// Rule is a thematic break.
type Rule struct{}

func (Heading) block()   {}
func (Paragraph) block() {}
func (ListItem) block()  {}
func (CodeBlock) block() {}
func (Image) block()     {}
func (Rule) block()      {}

var (
	_ Block = Heading{}
	_ Block = Paragraph{}
	_ Block = ListItem{}
	_ Block = CodeBlock{}
	_ Block = Image{}
	_ Block = Rule{}
)
