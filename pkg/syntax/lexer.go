package syntax

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/wildfunctions/sci_calc/pkg/expr"
)

const operatorChars = "+-*/^%"

// Lex converts canonical input into tokens terminated by an EOF token.
func Lex(src string) ([]Token, error) {
	var tokens []Token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		case isDigit(c) || c == '.':
			j := i
			hasDot := false
			for j < len(src) && (isDigit(src[j]) || src[j] == '.') {
				if src[j] == '.' {
					if hasDot {
						return nil, expr.Errorf(expr.InvalidCharacter, j, "unexpected '.' in number")
					}
					hasDot = true
				}
				j++
			}
			j += exponentLen(src[j:])
			lit := src[i:j]
			if lit == "." || strings.HasPrefix(lit, ".e") || strings.HasPrefix(lit, ".E") {
				return nil, expr.Errorf(expr.InvalidCharacter, i, "decimal point without digits")
			}
			// Out-of-range literals parse to ±Inf and surface as Overflow
			// during evaluation.
			val, err := strconv.ParseFloat(lit, 64)
			if err != nil && !errors.Is(err, strconv.ErrRange) {
				return nil, expr.Errorf(expr.InvalidCharacter, i, "invalid number %q", lit)
			}
			tokens = append(tokens, Token{Kind: Number, Text: lit, Value: val, Pos: i})
			i = j

		case isLetter(c):
			n := wordLen(src[i:])
			name := src[i : i+n]
			if !expr.IsIdent(name) {
				return nil, expr.Errorf(expr.UnknownIdentifier, i, "unknown identifier %q", name)
			}
			tokens = append(tokens, Token{Kind: Ident, Text: name, Pos: i})
			i += n

		case strings.IndexByte(operatorChars, c) >= 0:
			tokens = append(tokens, Token{Kind: Operator, Text: string(c), Pos: i})
			i++

		case c == '(':
			tokens = append(tokens, Token{Kind: LParen, Text: "(", Pos: i})
			i++

		case c == ')':
			tokens = append(tokens, Token{Kind: RParen, Text: ")", Pos: i})
			i++

		case c == '!':
			tokens = append(tokens, Token{Kind: Bang, Text: "!", Pos: i})
			i++

		default:
			r, _ := utf8.DecodeRuneInString(src[i:])
			return nil, expr.Errorf(expr.InvalidCharacter, i, "unexpected character %q", r)
		}
	}
	tokens = append(tokens, Token{Kind: EOF, Pos: len(src)})
	return tokens, nil
}

// exponentLen returns the length of an exponent suffix such as "e+21" at the
// start of s, or 0 when no digits follow the marker. A bare "e" is left for
// the constant.
func exponentLen(s string) int {
	if len(s) < 2 || (s[0] != 'e' && s[0] != 'E') {
		return 0
	}
	n := 1
	if s[n] == '+' || s[n] == '-' {
		n++
	}
	start := n
	for n < len(s) && isDigit(s[n]) {
		n++
	}
	if n == start {
		return 0
	}
	return n
}
