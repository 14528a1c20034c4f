package syntax

import (
	"fmt"

	"github.com/wildfunctions/sci_calc/pkg/expr"
)

// TokenKind identifies the lexical class of a token.
type TokenKind int

const (
	EOF TokenKind = iota
	Number
	Ident
	Operator
	LParen
	RParen
	Bang // postfix factorial
)

var tokenKindNames = map[TokenKind]string{
	EOF:      "EOF",
	Number:   "Number",
	Ident:    "Ident",
	Operator: "Operator",
	LParen:   "LParen",
	RParen:   "RParen",
	Bang:     "Bang",
}

func (k TokenKind) String() string {
	if s, ok := tokenKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is one lexical unit of canonical input. Pos is its byte offset.
type Token struct {
	Kind  TokenKind
	Text  string
	Value float64 // only for Number
	Pos   int
}

func (t Token) String() string {
	if t.Kind == EOF {
		return "EOF"
	}
	return t.Text
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

// wordLen returns the length of the identifier-shaped word at the start of s:
// a run of letters, extended by a trailing digit run only when the combined
// word is in the vocabulary (so "log10" is one word but "mod3" is "mod", "3").
func wordLen(s string) int {
	n := 0
	for n < len(s) && isLetter(s[n]) {
		n++
	}
	if n == 0 {
		return 0
	}
	m := n
	for m < len(s) && isDigit(s[m]) {
		m++
	}
	if m > n && expr.IsIdent(s[:m]) {
		return m
	}
	return n
}
