package expr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeString(t *testing.T) {
	// -(2 + 3!) ^ sqrt(pi)
	node := &NegateNode{Child: bin(OpPow,
		bin(OpAdd, lit(2), &FactorialNode{Child: lit(3)}),
		call("sqrt", &ConstantNode{Name: "pi"}))}

	assert.Equal(t, "(-((2 + (3)!) ^ sqrt(pi)))", node.String())
	assert.Equal(t, "0.5", lit(0.5).String())
	assert.Equal(t, "%", OpMod.String())
}

func TestNodeCountAndDepth(t *testing.T) {
	leaf := lit(1)
	if leaf.NodeCount() != 1 || leaf.Depth() != 1 {
		t.Errorf("leaf: count=%d depth=%d, want 1, 1", leaf.NodeCount(), leaf.Depth())
	}

	// (1 + 2) * sin(3)
	node := bin(OpMul, bin(OpAdd, lit(1), lit(2)), call("sin", lit(3)))
	assert.Equal(t, 6, node.NodeCount())
	assert.Equal(t, 3, node.Depth())

	neg := &NegateNode{Child: &FactorialNode{Child: lit(4)}}
	assert.Equal(t, 3, neg.NodeCount())
	assert.Equal(t, 3, neg.Depth())
}

func TestRegistry(t *testing.T) {
	for _, name := range []string{"sin", "cos", "tan", "log10", "log", "sqrt", "abs"} {
		assert.True(t, IsFunc(name), "expected %s to be a function", name)
		assert.True(t, IsIdent(name))
	}
	for _, name := range []string{"pi", "e"} {
		assert.True(t, IsConst(name), "expected %s to be a constant", name)
		assert.False(t, IsFunc(name))
	}
	assert.False(t, IsIdent("ln"), "ln is shorthand, not vocabulary")
	assert.Len(t, Names(), 9)

	_, err := GetFunc("nope")
	assert.Error(t, err)
	_, err = GetConst("nope")
	assert.Error(t, err)
}

func TestErrorKinds(t *testing.T) {
	err := Errorf(DomainError, 4, "sqrt of negative number %g", -1.0)
	assert.Equal(t, "DomainError at position 4: sqrt of negative number -1", err.Error())

	wrapped := fmt.Errorf("evaluating: %w", err)
	assert.Equal(t, DomainError, KindOf(wrapped))
	assert.True(t, errors.Is(wrapped, ErrDomain))
	assert.False(t, errors.Is(wrapped, ErrOverflow))

	assert.Equal(t, KindNone, KindOf(nil))
	assert.Equal(t, KindNone, KindOf(errors.New("other")))

	noPos := Errorf(Overflow, NoPos, "too big")
	assert.Equal(t, "Overflow: too big", noPos.Error())

	text, _ := UnmatchedParenthesis.MarshalText()
	assert.Equal(t, "UnmatchedParenthesis", string(text))
	assert.Equal(t, "Kind(99)", Kind(99).String())
}
