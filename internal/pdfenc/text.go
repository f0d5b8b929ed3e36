package pdfenc

import (
	"fmt"
	"strings"
)

// winAnsi maps the non-Latin-1 runes that WinAnsiEncoding places in the
// 0x80-0x9F range. ASCII and Latin-1 runes map to their own byte values.
var winAnsi = map[rune]byte{
	'€': 0x80, // euro sign
	'‚': 0x82,
	'ƒ': 0x83,
	'„': 0x84,
	'…': 0x85, // ellipsis
	'†': 0x86,
	'‡': 0x87,
	'ˆ': 0x88,
	'‰': 0x89,
	'Š': 0x8a,
	'‹': 0x8b,
	'Œ': 0x8c,
	'Ž': 0x8e,
	'‘': 0x91, // left single quote
	'’': 0x92, // right single quote
	'“': 0x93, // left double quote
	'”': 0x94, // right double quote
	'•': 0x95, // bullet
	'–': 0x96, // en dash
	'—': 0x97, // em dash
	'˜': 0x98,
	'™': 0x99, // trademark
	'š': 0x9a,
	'›': 0x9b,
	'œ': 0x9c,
	'ž': 0x9e,
	'Ÿ': 0x9f,
}

// escapeText transcodes UTF-8 text into the body of a PDF literal string:
// WinAnsi bytes with parentheses and backslashes escaped, and anything
// outside printable ASCII written as an octal escape. Runes WinAnsi
// cannot represent become '?'.
func escapeText(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		b := winAnsiByte(r)
		switch {
		case b == '(' || b == ')' || b == '\\':
			sb.WriteByte('\\')
			sb.WriteByte(b)
		case b >= 0x20 && b <= 0x7e:
			sb.WriteByte(b)
		default:
			fmt.Fprintf(&sb, "\\%03o", b)
		}
	}
	return sb.String()
}

func winAnsiByte(r rune) byte {
	switch {
	case r < 0x20:
		return '?'
	case r < 0x80:
		return byte(r)
	case r >= 0xa0 && r <= 0xff:
		return byte(r)
	default:
		if b, ok := winAnsi[r]; ok {
			return b
		}
		return '?'
	}
}
