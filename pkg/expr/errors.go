package expr

import (
	"errors"
	"fmt"
)

// Kind classifies why an expression could not be evaluated.
type Kind int

const (
	KindNone Kind = iota
	InvalidCharacter
	UnknownIdentifier
	UnmatchedParenthesis
	UnexpectedToken
	EmptyExpression
	MissingArgument
	ExpressionTooComplex
	DivisionByZero
	DomainError
	Overflow
)

var kindNames = map[Kind]string{
	KindNone:             "None",
	InvalidCharacter:     "InvalidCharacter",
	UnknownIdentifier:    "UnknownIdentifier",
	UnmatchedParenthesis: "UnmatchedParenthesis",
	UnexpectedToken:      "UnexpectedToken",
	EmptyExpression:      "EmptyExpression",
	MissingArgument:      "MissingArgument",
	ExpressionTooComplex: "ExpressionTooComplex",
	DivisionByZero:       "DivisionByZero",
	DomainError:          "DomainError",
	Overflow:             "Overflow",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText lets kinds appear by name in JSON and YAML output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// NoPos marks an error that is not tied to a position in the input.
const NoPos = -1

// Error is returned by every stage of the evaluation pipeline.
// Pos is a byte offset into the canonical input, or NoPos.
type Error struct {
	Kind Kind
	Pos  int
	Msg  string
}

func (e *Error) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("%s at position %d: %s", e.Kind, e.Pos, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Is reports whether target is an *Error of the same kind, so that
// errors.Is(err, expr.ErrDomain) works regardless of position and message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Errorf builds an *Error of the given kind.
func Errorf(kind Kind, pos int, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Sentinels for errors.Is comparisons.
var (
	ErrInvalidCharacter     = &Error{Kind: InvalidCharacter, Pos: NoPos}
	ErrUnknownIdentifier    = &Error{Kind: UnknownIdentifier, Pos: NoPos}
	ErrUnmatchedParenthesis = &Error{Kind: UnmatchedParenthesis, Pos: NoPos}
	ErrUnexpectedToken      = &Error{Kind: UnexpectedToken, Pos: NoPos}
	ErrEmptyExpression      = &Error{Kind: EmptyExpression, Pos: NoPos}
	ErrMissingArgument      = &Error{Kind: MissingArgument, Pos: NoPos}
	ErrTooComplex           = &Error{Kind: ExpressionTooComplex, Pos: NoPos}
	ErrDivisionByZero       = &Error{Kind: DivisionByZero, Pos: NoPos}
	ErrDomain               = &Error{Kind: DomainError, Pos: NoPos}
	ErrOverflow             = &Error{Kind: Overflow, Pos: NoPos}
)

// KindOf returns the Kind carried by err, or KindNone if err is nil or
// did not come from the pipeline.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindNone
}
