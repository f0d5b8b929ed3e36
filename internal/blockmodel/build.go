package blockmodel

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Build parses Markdown source and lowers it to blocks. resolveImage maps
// a raw image reference to its readable path; references it rejects render
// as an italic alt-text paragraph instead of an Image block. A nil
// resolveImage rejects everything.
func Build(source []byte, resolveImage func(raw string) (path string, ok bool)) []Block {
	if resolveImage == nil {
		resolveImage = func(string) (string, bool) { return "", false }
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	b := &builder{source: source, resolve: resolveImage}
	b.walkBlocks(doc)
	return b.blocks
}

type builder struct {
	source  []byte
	resolve func(string) (string, bool)
	blocks  []Block
}

func (b *builder) walkBlocks(parent ast.Node) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch v := n.(type) {
		case *ast.Heading:
			c := &runCollector{source: b.source}
			c.walk(v, 0)
			if runs := c.finish(); len(runs) > 0 {
				b.blocks = append(b.blocks, Heading{Level: v.Level, Runs: runs})
			}
		case *ast.Paragraph:
			b.walkParagraph(v)
		case *ast.TextBlock:
			b.walkParagraph(v)
		case *ast.List:
			b.walkList(v, 0)
		case *ast.FencedCodeBlock:
			lang := ""
			if l := v.Language(b.source); l != nil {
				lang = string(l)
			}
			b.blocks = append(b.blocks, CodeBlock{Language: lang, Lines: blockLines(b.source, v)})
		case *ast.CodeBlock:
			b.blocks = append(b.blocks, CodeBlock{Lines: blockLines(b.source, v)})
		case *ast.ThematicBreak:
			b.blocks = append(b.blocks, Rule{})
		case *ast.Blockquote:
			// Quote markers are dropped; the quoted blocks render as
			// ordinary content.
			b.walkBlocks(v)
		case *ast.HTMLBlock:
			// Raw HTML is not rendered.
		}
	}
}

// walkParagraph emits paragraph text, splitting the block wherever an
// image sits between text spans so images become standalone blocks.
func (b *builder) walkParagraph(n ast.Node) {
	c := &runCollector{source: b.source}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if img, ok := child.(*ast.Image); ok {
			b.flushParagraph(c)
			b.emitImage(img)
			continue
		}
		c.walkNode(child, 0)
	}
	b.flushParagraph(c)
}

func (b *builder) flushParagraph(c *runCollector) {
	if runs := c.finish(); len(runs) > 0 {
		b.blocks = append(b.blocks, Paragraph{Runs: runs})
	}
}

func (b *builder) emitImage(img *ast.Image) {
	raw := string(img.Destination)
	alt := inlineText(b.source, img)

	if path, ok := b.resolve(raw); ok {
		b.blocks = append(b.blocks, Image{Path: path, Alt: alt})
		return
	}

	fallback := alt
	if fallback == "" {
		fallback = raw
	}
	if fallback != "" {
		b.blocks = append(b.blocks, Paragraph{Runs: []Run{{Text: fallback, Style: StyleItalic}}})
	}
}

// walkList emits one ListItem per item, then any nested list directly
// after its parent item so reading order is preserved.
func (b *builder) walkList(list *ast.List, depth int) {
	ordered := list.IsOrdered()
	index := list.Start
	if index < 1 {
		index = 1
	}

	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		li, ok := item.(*ast.ListItem)
		if !ok {
			continue
		}

		c := &runCollector{source: b.source}
		var nested []*ast.List
		for child := li.FirstChild(); child != nil; child = child.NextSibling() {
			switch v := child.(type) {
			case *ast.List:
				nested = append(nested, v)
			case *ast.TextBlock, *ast.Paragraph:
				if len(c.runs) > 0 {
					c.add(" ", 0)
				}
				c.walk(v, 0)
			}
		}

		if runs := c.finish(); len(runs) > 0 {
			b.blocks = append(b.blocks, ListItem{
				Ordered: ordered,
				Index:   index,
				Depth:   depth,
				Runs:    runs,
			})
		}
		index++

		for _, sub := range nested {
			b.walkList(sub, depth+1)
		}
	}
}

// runCollector accumulates styled runs from inline nodes, merging
// adjacent spans that share a style.
type runCollector struct {
	source []byte
	runs   []Run
}

func (c *runCollector) add(s string, style Style) {
	if s == "" {
		return
	}
	if n := len(c.runs); n > 0 && c.runs[n-1].Style == style {
		c.runs[n-1].Text += s
		return
	}
	c.runs = append(c.runs, Run{Text: s, Style: style})
}

func (c *runCollector) walk(n ast.Node, style Style) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		c.walkNode(child, style)
	}
}

func (c *runCollector) walkNode(n ast.Node, style Style) {
	switch v := n.(type) {
	case *ast.Text:
		c.add(string(v.Segment.Value(c.source)), style)
		// Line breaks inside a block collapse to a space; wrapping is
		// the layout engine's job.
		if v.SoftLineBreak() || v.HardLineBreak() {
			c.add(" ", style)
		}
	case *ast.String:
		c.add(string(v.Value), style)
	case *ast.Emphasis:
		if v.Level >= 2 {
			style |= StyleBold
		} else {
			style |= StyleItalic
		}
		c.walk(v, style)
	case *ast.CodeSpan:
		c.walk(v, style|StyleCode)
	case *ast.Link:
		// Only the link text is rendered.
		c.walk(v, style)
	case *ast.AutoLink:
		c.add(string(v.URL(c.source)), style)
	case *ast.Image:
		// An image nested inside other inline markup keeps only its
		// alt text.
		c.add(inlineText(c.source, v), style)
	case *ast.RawHTML:
		// Dropped.
	default:
		c.walk(n, style)
	}
}

// finish returns the collected runs with surrounding whitespace trimmed
// and resets the collector. Leading trim matters when a paragraph is
// split at an inline image: the text node after the image starts with
// the space that separated it.
func (c *runCollector) finish() []Run {
	runs := c.runs
	c.runs = nil
	for len(runs) > 0 {
		first := strings.TrimLeft(runs[0].Text, " ")
		if first != "" {
			runs[0].Text = first
			break
		}
		runs = runs[1:]
	}
	for len(runs) > 0 {
		last := strings.TrimRight(runs[len(runs)-1].Text, " ")
		if last != "" {
			runs[len(runs)-1].Text = last
			break
		}
		runs = runs[:len(runs)-1]
	}
	return runs
}

// inlineText flattens a node's inline content to plain text.
func inlineText(source []byte, n ast.Node) string {
	c := &runCollector{source: source}
	c.walk(n, 0)
	var sb strings.Builder
	for _, run := range c.finish() {
		sb.WriteString(run.Text)
	}
	return sb.String()
}

// blockLines extracts a code block's raw lines without trailing newlines.
func blockLines(source []byte, n ast.Node) []string {
	segments := n.Lines()
	lines := make([]string, 0, segments.Len())
	for i := 0; i < segments.Len(); i++ {
		seg := segments.At(i)
		lines = append(lines, strings.TrimRight(string(seg.Value(source)), "\n"))
	}
	return lines
}
