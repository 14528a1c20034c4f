package syntax

import (
	"strings"
	"unicode/utf8"
)

const (
	rootGlyph = '√'
	piGlyph   = 'π'
)

// wordRewrites maps whole shorthand words to canonical vocabulary. Words are
// matched in a single scan, so the "log" produced for "ln" is never expanded
// again and an existing "log10" is a different word.
var wordRewrites = map[string]string{
	"log": "log10",
	"ln":  "log",
	"mod": "%",
}

// Canonicalize rewrites keypad shorthand into the canonical vocabulary the
// lexer accepts. It never fails: unknown text passes through unchanged.
//
// The root glyph opens a group ("√9" becomes "sqrt(9"), unless the glyph is
// already followed by an opening parenthesis, in which case that group is
// reused ("√(9)" becomes "sqrt(9)").
func Canonicalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw) + 8)

	for i := 0; i < len(raw); {
		r, size := utf8.DecodeRuneInString(raw[i:])
		switch {
		case r == rootGlyph:
			b.WriteString("sqrt")
			if !strings.HasPrefix(strings.TrimLeft(raw[i+size:], " \t"), "(") {
				b.WriteByte('(')
			}
			i += size

		case r == piGlyph:
			b.WriteString("pi")
			i += size

		case isLetter(raw[i]):
			n := wordLen(raw[i:])
			word := raw[i : i+n]
			if rw, ok := wordRewrites[word]; ok {
				word = rw
			}
			b.WriteString(word)
			i += n

		default:
			b.WriteString(raw[i : i+size])
			i += size
		}
	}
	return b.String()
}
