package layout

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// codeSpan is a colored slice of one code line.
type codeSpan struct {
	Text  string
	Color Color
}

// colorizeCode tokenizes a code block and returns one span list per input
// line. Unknown languages, tokenizer errors, or any line-count drift fall
// back to uncolored output so rendering never fails on highlighting.
func colorizeCode(lines []string, language, styleName string) [][]codeSpan {
	plain := func() [][]codeSpan {
		out := make([][]codeSpan, len(lines))
		for i, line := range lines {
			if line != "" {
				out[i] = []codeSpan{{Text: line}}
			}
		}
		return out
	}

	if language == "" || styleName == "" {
		return plain()
	}
	lexer := lexers.Get(language)
	if lexer == nil {
		return plain()
	}
	lexer = chroma.Coalesce(lexer)
	style := styles.Get(styleName)

	iterator, err := lexer.Tokenise(nil, strings.Join(lines, "\n"))
	if err != nil {
		return plain()
	}

	out := make([][]codeSpan, 1, len(lines)+1)
	row := 0
	for token := iterator(); token != chroma.EOF; token = iterator() {
		color := colorFor(style, token.Type)
		parts := strings.Split(token.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				out = append(out, nil)
				row++
			}
			if part == "" {
				continue
			}
			out[row] = append(out[row], codeSpan{Text: part, Color: color})
		}
	}

	if len(out) != len(lines) {
		return plain()
	}
	return out
}

func colorFor(style *chroma.Style, tokenType chroma.TokenType) Color {
	entry := style.Get(tokenType)
	if !entry.Colour.IsSet() {
		return Color{}
	}
	return Color{
		R: entry.Colour.Red(),
		G: entry.Colour.Green(),
		B: entry.Colour.Blue(),
	}
}

// clipSpans truncates a span list to at most maxRunes characters.
func clipSpans(spans []codeSpan, maxRunes int) []codeSpan {
	if maxRunes < 1 {
		return nil
	}
	var out []codeSpan
	budget := maxRunes
	for _, span := range spans {
		runes := []rune(span.Text)
		if len(runes) <= budget {
			out = append(out, span)
			budget -= len(runes)
			if budget == 0 {
				break
			}
			continue
		}
		out = append(out, codeSpan{Text: string(runes[:budget]), Color: span.Color})
		break
	}
	return out
}
