package expr

// Node is the interface for all expression tree nodes.
// A tree owns its children exclusively; nodes are never shared.
type Node interface {
	String() string
	NodeCount() int
	Depth() int
}

// BinaryOp identifies a binary operation.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
)

// LiteralNode is a numeric literal.
type LiteralNode struct {
	Val float64
}

// ConstantNode is a named constant such as pi or e.
type ConstantNode struct {
	Name string
}

// FuncNode applies a named unary function to its argument.
type FuncNode struct {
	Name string
	Arg  Node
}

// BinaryNode applies a binary operation to two child expressions.
type BinaryNode struct {
	Op          BinaryOp
	Left, Right Node
}

// FactorialNode is the postfix factorial of its child.
type FactorialNode struct {
	Child Node
}

// NegateNode is unary minus.
type NegateNode struct {
	Child Node
}
