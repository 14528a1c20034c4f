package expr

import (
	"fmt"
	"math"
)

// MaxFactorial is the largest operand whose factorial fits in a float64.
const MaxFactorial = 170

// factorialF64 is computed at init and read-only afterwards.
var factorialF64 [MaxFactorial + 1]float64

// integerTolerance is how far a factorial operand may sit from a whole number.
const integerTolerance = 1e-9

func init() {
	factorialF64[0] = 1
	for i := 1; i < len(factorialF64); i++ {
		factorialF64[i] = factorialF64[i-1] * float64(i)
	}
}

// Eval walks the tree bottom-up and returns its value. Every intermediate
// result must be finite; anything else is reported as Overflow.
func Eval(node Node) (float64, error) {
	var (
		v   float64
		err error
	)

	switch n := node.(type) {
	case *LiteralNode:
		v = n.Val

	case *ConstantNode:
		v, err = GetConst(n.Name)
		if err != nil {
			return 0, Errorf(UnknownIdentifier, NoPos, "%v", err)
		}

	case *FuncNode:
		fn, ferr := GetFunc(n.Name)
		if ferr != nil {
			return 0, Errorf(UnknownIdentifier, NoPos, "%v", ferr)
		}
		arg, aerr := Eval(n.Arg)
		if aerr != nil {
			return 0, aerr
		}
		v, err = fn(arg)

	case *NegateNode:
		child, cerr := Eval(n.Child)
		if cerr != nil {
			return 0, cerr
		}
		v = -child

	case *FactorialNode:
		child, cerr := Eval(n.Child)
		if cerr != nil {
			return 0, cerr
		}
		v, err = factorial(child)

	case *BinaryNode:
		left, lerr := Eval(n.Left)
		if lerr != nil {
			return 0, lerr
		}
		right, rerr := Eval(n.Right)
		if rerr != nil {
			return 0, rerr
		}
		v, err = binary(n.Op, left, right)

	default:
		return 0, fmt.Errorf("expr: unknown node type %T", node)
	}

	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, Errorf(Overflow, NoPos, "result of %s is not finite", node)
	}
	return v, nil
}

func binary(op BinaryOp, left, right float64) (float64, error) {
	switch op {
	case OpAdd:
		return left + right, nil
	case OpSub:
		return left - right, nil
	case OpMul:
		return left * right, nil
	case OpDiv:
		if right == 0 {
			return 0, Errorf(DivisionByZero, NoPos, "%g / 0", left)
		}
		return left / right, nil
	case OpMod:
		if right == 0 {
			return 0, Errorf(DivisionByZero, NoPos, "%g %% 0", left)
		}
		// Floored modulo: the result takes the sign of the divisor.
		return left - right*math.Floor(left/right), nil
	case OpPow:
		return pow(left, right)
	default:
		return 0, fmt.Errorf("expr: unknown binary op %d", op)
	}
}

// pow computes base^exp in float64.
func pow(base, exp float64) (float64, error) {
	if base < 0 && exp != math.Trunc(exp) {
		return 0, Errorf(DomainError, NoPos, "%g ^ %g is not real", base, exp)
	}
	if base == 0 && exp < 0 {
		return 0, Errorf(DivisionByZero, NoPos, "0 ^ %g", exp)
	}
	return math.Pow(base, exp), nil
}

func factorial(x float64) (float64, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, Errorf(Overflow, NoPos, "factorial of %g", x)
	}
	r := math.Round(x)
	if math.Abs(x-r) > integerTolerance || r < 0 {
		return 0, Errorf(DomainError, NoPos, "factorial needs a non-negative integer, got %g", x)
	}
	if r > MaxFactorial {
		return 0, Errorf(Overflow, NoPos, "%g! exceeds float64 range", r)
	}
	return factorialF64[int(r)], nil
}
