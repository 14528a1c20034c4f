package expr

import (
	"fmt"
	"strconv"
)

var binaryOpSymbols = map[BinaryOp]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
	OpMod: "%",
	OpPow: "^",
}

func (op BinaryOp) String() string {
	if s, ok := binaryOpSymbols[op]; ok {
		return s
	}
	return fmt.Sprintf("BinaryOp(%d)", int(op))
}

// String methods render fully parenthesized canonical text that parses back
// to the same tree.

func (l *LiteralNode) String() string {
	return strconv.FormatFloat(l.Val, 'f', -1, 64)
}

func (c *ConstantNode) String() string {
	return c.Name
}

func (f *FuncNode) String() string {
	return fmt.Sprintf("%s(%s)", f.Name, f.Arg.String())
}

func (b *BinaryNode) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Op, b.Right.String())
}

func (f *FactorialNode) String() string {
	return fmt.Sprintf("(%s)!", f.Child.String())
}

func (n *NegateNode) String() string {
	return fmt.Sprintf("(-%s)", n.Child.String())
}
