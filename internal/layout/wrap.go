package layout

import (
	"unicode/utf8"

	"github.com/alnah/go-mdbundle/internal/blockmodel"
)

// lineSegment is a single-style span within one wrapped line.
type lineSegment struct {
	Text  string
	Style blockmodel.Style
}

// wrapRuns packs styled runs into lines no wider than availPt using greedy
// word wrap. Whitespace collapses to single spaces; spaces falling on a
// line break are dropped; a word wider than the full line is split at the
// character that would overflow.
func wrapRuns(runs []blockmodel.Run, availPt, sizePt float64) [][]lineSegment {
	w := &wrapper{availPt: availPt, sizePt: sizePt}
	for _, run := range runs {
		for _, tok := range tokenize(run.Text) {
			w.place(tok, run.Style)
		}
	}
	w.flush()
	return w.lines
}

type wrapper struct {
	availPt float64
	sizePt  float64

	lines [][]lineSegment
	cur   []lineSegment
	curW  float64
}

func (w *wrapper) place(tok string, style blockmodel.Style) {
	cw := charWidthPt(style.Code(), w.sizePt)
	width := float64(utf8.RuneCountInString(tok)) * cw

	if tok == " " {
		if len(w.cur) == 0 || w.curW+width > w.availPt {
			return
		}
		w.append(" ", style, width)
		return
	}

	if w.curW+width > w.availPt && len(w.cur) > 0 {
		w.flush()
	}

	if width > w.availPt {
		maxRunes := int(w.availPt / cw)
		if maxRunes < 1 {
			maxRunes = 1
		}
		runes := []rune(tok)
		for len(runes) > maxRunes {
			w.append(string(runes[:maxRunes]), style, float64(maxRunes)*cw)
			w.flush()
			runes = runes[maxRunes:]
		}
		w.append(string(runes), style, float64(len(runes))*cw)
		return
	}

	w.append(tok, style, width)
}

func (w *wrapper) append(text string, style blockmodel.Style, width float64) {
	if n := len(w.cur); n > 0 && w.cur[n-1].Style == style {
		w.cur[n-1].Text += text
	} else {
		w.cur = append(w.cur, lineSegment{Text: text, Style: style})
	}
	w.curW += width
}

func (w *wrapper) flush() {
	// A space sitting at the break point carries no content.
	for n := len(w.cur); n > 0 && w.cur[n-1].Text == " "; n = len(w.cur) {
		w.cur = w.cur[:n-1]
	}
	if len(w.cur) == 0 {
		return
	}
	w.lines = append(w.lines, w.cur)
	w.cur = nil
	w.curW = 0
}

// tokenize splits text into words and single-space separators. Runs of
// spaces and tabs collapse to one separator.
func tokenize(s string) []string {
	var toks []string
	for i := 0; i < len(s); {
		if s[i] == ' ' || s[i] == '\t' {
			for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
				i++
			}
			toks = append(toks, " ")
			continue
		}
		j := i
		for j < len(s) && s[j] != ' ' && s[j] != '\t' {
			j++
		}
		toks = append(toks, s[i:j])
		i = j
	}
	return toks
}
