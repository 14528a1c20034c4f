package syntax

import (
	"github.com/wildfunctions/sci_calc/pkg/expr"
)

// DefaultMaxDepth bounds parser recursion on pathological input such as
// thousands of nested parentheses.
const DefaultMaxDepth = 256

// Grammar, lowest to highest precedence:
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/" | "%") unary }
//	unary   = "-" unary | power
//	power   = postfix [ "^" unary ]          right-associative
//	postfix = primary { "!" }
//	primary = number | const | func "(" expr ")" | "(" expr ")"
type parser struct {
	tokens   []Token
	pos      int
	depth    int
	maxDepth int
	open     int // unclosed "(" seen so far
}

// Parse builds an expression tree from tokens produced by Lex. A maxDepth of
// zero or less selects DefaultMaxDepth.
func Parse(tokens []Token, maxDepth int) (expr.Node, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if len(tokens) == 0 || tokens[0].Kind == EOF {
		return nil, expr.Errorf(expr.EmptyExpression, expr.NoPos, "nothing to evaluate")
	}

	p := &parser{tokens: tokens, maxDepth: maxDepth}
	node, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	// Verify all input consumed
	switch t := p.peek(); t.Kind {
	case EOF:
		return node, nil
	case RParen:
		return nil, expr.Errorf(expr.UnmatchedParenthesis, t.Pos, "')' without matching '('")
	default:
		return nil, expr.Errorf(expr.UnexpectedToken, t.Pos, "unexpected %q after expression", t.Text)
	}
}

func (p *parser) peek() Token {
	if p.pos >= len(p.tokens) {
		end := 0
		if n := len(p.tokens); n > 0 {
			last := p.tokens[n-1]
			end = last.Pos + len(last.Text)
		}
		return Token{Kind: EOF, Pos: end}
	}
	return p.tokens[p.pos]
}

func (p *parser) advance() Token {
	t := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *parser) peekOp(ops ...string) bool {
	t := p.peek()
	if t.Kind != Operator {
		return false
	}
	for _, op := range ops {
		if t.Text == op {
			return true
		}
	}
	return false
}

var binaryOps = map[string]expr.BinaryOp{
	"+": expr.OpAdd,
	"-": expr.OpSub,
	"*": expr.OpMul,
	"/": expr.OpDiv,
	"%": expr.OpMod,
	"^": expr.OpPow,
}

// parseExpr handles + and -
func (p *parser) parseExpr() (expr.Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.peekOp("+", "-") {
		op := p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &expr.BinaryNode{Op: binaryOps[op.Text], Left: left, Right: right}
	}
	return left, nil
}

// parseTerm handles *, / and %
func (p *parser) parseTerm() (expr.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peekOp("*", "/", "%") {
		op := p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &expr.BinaryNode{Op: binaryOps[op.Text], Left: left, Right: right}
	}
	return left, nil
}

// parseUnary handles unary minus. Every recursive path of the grammar passes
// through here, so this is where nesting depth is counted.
func (p *parser) parseUnary() (expr.Node, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		return nil, expr.Errorf(expr.ExpressionTooComplex, p.peek().Pos,
			"expression nests deeper than %d levels", p.maxDepth)
	}

	if p.peekOp("-") {
		p.advance()
		child, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &expr.NegateNode{Child: child}, nil
	}
	return p.parsePower()
}

// parsePower handles right-associative ^. The exponent may itself be
// negated, as in 2^-1.
func (p *parser) parsePower() (expr.Node, error) {
	base, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if !p.peekOp("^") {
		return base, nil
	}
	p.advance()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &expr.BinaryNode{Op: expr.OpPow, Left: base, Right: exp}, nil
}

// parsePostfix handles factorial
func (p *parser) parsePostfix() (expr.Node, error) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == Bang {
		p.advance()
		node = &expr.FactorialNode{Child: node}
	}
	return node, nil
}

// parsePrimary handles numbers, constants, function calls and parentheses
func (p *parser) parsePrimary() (expr.Node, error) {
	t := p.advance()
	switch t.Kind {
	case Number:
		return &expr.LiteralNode{Val: t.Value}, nil

	case Ident:
		if !expr.IsFunc(t.Text) {
			return &expr.ConstantNode{Name: t.Text}, nil
		}
		open := p.peek()
		if open.Kind != LParen {
			return nil, expr.Errorf(expr.MissingArgument, t.Pos, "%s needs a parenthesized argument", t.Text)
		}
		p.advance()
		p.open++
		if p.peek().Kind == RParen {
			return nil, expr.Errorf(expr.MissingArgument, open.Pos, "%s() has no argument", t.Text)
		}
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectClose(open); err != nil {
			return nil, err
		}
		return &expr.FuncNode{Name: t.Text, Arg: arg}, nil

	case LParen:
		p.open++
		if next := p.peek(); next.Kind == RParen {
			return nil, expr.Errorf(expr.UnexpectedToken, next.Pos, "empty parentheses")
		}
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectClose(t); err != nil {
			return nil, err
		}
		return inner, nil

	case RParen:
		if p.open == 0 {
			return nil, expr.Errorf(expr.UnmatchedParenthesis, t.Pos, "')' without matching '('")
		}
		return nil, expr.Errorf(expr.UnexpectedToken, t.Pos, "unexpected ')'")

	case EOF:
		return nil, expr.Errorf(expr.UnexpectedToken, t.Pos, "unexpected end of expression")

	default:
		return nil, expr.Errorf(expr.UnexpectedToken, t.Pos, "unexpected %q", t.Text)
	}
}

// expectClose consumes the ")" matching open.
func (p *parser) expectClose(open Token) error {
	t := p.peek()
	switch t.Kind {
	case RParen:
		p.advance()
		p.open--
		return nil
	case EOF:
		return expr.Errorf(expr.UnmatchedParenthesis, open.Pos, "'(' is never closed")
	default:
		return expr.Errorf(expr.UnexpectedToken, t.Pos, "expected ')', got %q", t.Text)
	}
}
