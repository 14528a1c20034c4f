package calculator

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildfunctions/sci_calc/pkg/expr"
	"github.com/wildfunctions/sci_calc/pkg/history"
)

func newCalc(t *testing.T) *Calculator {
	t.Helper()
	c, err := New(DefaultConfig(), zerolog.Nop())
	require.NoError(t, err)
	return c
}

// enter submits each rune as its own keypad token, the way a UI would.
func enter(c *Calculator, keys string) {
	for _, r := range keys {
		c.SubmitChar(string(r))
	}
}

func evalString(t *testing.T, input string) (string, error) {
	t.Helper()
	c := newCalc(t)
	c.SubmitChar(input)
	return c.Evaluate()
}

func TestEvaluate_Results(t *testing.T) {
	cases := []struct {
		input, want string
	}{
		{"42", "42"},
		{"0.5", "0.5"},
		{"2+3*4", "14"},
		{"(2+3)*4", "20"},
		{"2^3^2", "512"},
		{"5!", "120"},
		{"10/4", "2.5"},
		{"7mod3", "1"},
		{"-7%3", "2"},
		{"√(16)", "4"},
		{"√16)", "4"},
		{"log(1000)", "3"},
		{"ln(e)", "1"},
		{"abs(-2.5)", "2.5"},
		{"cos(0)", "1"},
		{"2*π", "6.283185307179586"},
		{"0.1+0.2", "0.30000000000000004"},
		{"2^-2", "0.25"},
		{"-2^2", "-4"},
		{"3!!", "720"},
		{"1-1", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := evalString(t, tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	cases := []struct {
		input string
		kind  expr.Kind
	}{
		{"sqrt(-1)", expr.DomainError},
		{"1/0", expr.DivisionByZero},
		{"(-1)!", expr.DomainError},
		{"√9", expr.UnmatchedParenthesis},
		{"", expr.EmptyExpression},
		{"2+", expr.UnexpectedToken},
		{"2#3", expr.InvalidCharacter},
		{"foo(1)", expr.UnknownIdentifier},
		{"sin", expr.MissingArgument},
		{"171!", expr.Overflow},
		{"log(0)", expr.DomainError},
		{"ln(-1)", expr.DomainError},
		{"(-8)^(1/3)", expr.DomainError},
		{strings.Repeat("(", 300) + "1" + strings.Repeat(")", 300), expr.ExpressionTooComplex},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			_, err := evalString(t, tc.input)
			require.Error(t, err)
			assert.Equal(t, tc.kind, expr.KindOf(err), "%v", err)
		})
	}
}

func TestEvaluate_LiteralRoundTrip(t *testing.T) {
	for _, n := range []string{"0", "1", "42", "1234567", "3.14159", "0.001"} {
		got, err := evalString(t, n)
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}
}

func TestEvaluate_InputLengthLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxInputLength = 8
	c, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)

	c.SubmitChar("1+1+1+1+1")
	_, err = c.Evaluate()
	assert.ErrorIs(t, err, expr.ErrTooComplex)
}

func TestEvaluate_SuccessUpdatesDisplayAndHistory(t *testing.T) {
	c := newCalc(t)
	enter(c, "√(9)+π")

	got, err := c.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, "6.141592653589793", got)
	assert.Equal(t, got, c.Display(), "display shows the result, not the canonical form")
	assert.Equal(t, ModeComposing, c.Mode())
	assert.Equal(t, []history.Entry{{Expression: "√(9)+π", Result: got}}, c.History())

	// Continue editing from the result
	enter(c, "*0")
	got, err = c.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, "0", got)
	assert.Len(t, c.History(), 2)
}

func TestEvaluate_ContinuesFromExponentResult(t *testing.T) {
	cases := []struct {
		first, firstWant, next, nextWant string
	}{
		{"10^21", "1e+21", "*2", "2e+21"},
		{"0.0000001", "1e-7", "*2", "2e-7"},
		{"10^21", "1e+21", "/1e21", "1"},
	}
	for _, tc := range cases {
		t.Run(tc.first+tc.next, func(t *testing.T) {
			c := newCalc(t)
			enter(c, tc.first)
			got, err := c.Evaluate()
			require.NoError(t, err)
			require.Equal(t, tc.firstWant, got)

			enter(c, tc.next)
			got, err = c.Evaluate()
			require.NoError(t, err)
			assert.Equal(t, tc.nextWant, got)
			assert.Equal(t, tc.firstWant+tc.next, c.History()[1].Expression)
		})
	}
}

func TestEvaluate_FailureEntersErrorMode(t *testing.T) {
	c := newCalc(t)
	enter(c, "1+1")
	_, err := c.Evaluate()
	require.NoError(t, err)

	enter(c, "/0")
	_, err = c.Evaluate()
	require.ErrorIs(t, err, expr.ErrDivisionByZero)
	assert.Equal(t, ModeError, c.Mode())
	assert.Equal(t, "Error", c.Display())
	assert.Len(t, c.History(), 1, "failures never touch history")

	// Evaluating again reports the same error
	_, again := c.Evaluate()
	assert.Equal(t, err, again)
	assert.Equal(t, err, c.LastError())
}

func TestErrorMode_EditsClearSentinel(t *testing.T) {
	c := newCalc(t)
	c.SubmitChar("1/0")
	_, err := c.Evaluate()
	require.Error(t, err)

	c.SubmitChar("7")
	assert.Equal(t, ModeComposing, c.Mode())
	assert.Equal(t, "7", c.Display(), "the sentinel is never edited into the input")
	assert.NoError(t, c.LastError())

	c.SubmitChar(")")
	_, err = c.Evaluate()
	require.Error(t, err)
	c.DeleteLast()
	assert.Equal(t, ModeComposing, c.Mode())
	assert.Equal(t, "", c.Display())
}

func TestHistory_CountsOnlySuccesses(t *testing.T) {
	c := newCalc(t)
	inputs := []string{"1+1", "1/0", "2*3", "sqrt(-4)", "(", "10-1"}
	for _, in := range inputs {
		c.ClearAll()
		c.SubmitChar(in)
		_, _ = c.Evaluate()
	}
	assert.Equal(t, []history.Entry{
		{Expression: "1+1", Result: "2"},
		{Expression: "2*3", Result: "6"},
		{Expression: "10-1", Result: "9"},
	}, c.History())

	require.NoError(t, c.RemoveHistory(1))
	assert.Equal(t, []history.Entry{
		{Expression: "1+1", Result: "2"},
		{Expression: "10-1", Result: "9"},
	}, c.History())

	var ie *history.IndexError
	assert.ErrorAs(t, c.RemoveHistory(5), &ie)

	c.ClearHistory()
	assert.Empty(t, c.History())
}

func TestHistory_Cap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HistoryCap = 2
	c, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)

	for _, in := range []string{"1", "2", "3"} {
		c.ClearAll()
		c.SubmitChar(in)
		_, err := c.Evaluate()
		require.NoError(t, err)
	}
	assert.Equal(t, []history.Entry{
		{Expression: "2", Result: "2"},
		{Expression: "3", Result: "3"},
	}, c.History())
}

func TestBuffer_DeleteLast(t *testing.T) {
	c := newCalc(t)
	c.DeleteLast()
	assert.Equal(t, "", c.Display(), "delete on empty buffer is a no-op")

	enter(c, "2√π")
	c.DeleteLast()
	assert.Equal(t, "2√", c.Display(), "multi-byte glyphs are removed whole")
	c.DeleteLast()
	c.DeleteLast()
	c.DeleteLast()
	assert.Equal(t, "", c.Display())
}

func TestBuffer_ClearAll(t *testing.T) {
	c := newCalc(t)
	c.SubmitChar("sin(")
	c.ClearAll()
	assert.Equal(t, "", c.Display())
	assert.Equal(t, ModeComposing, c.Mode())

	c.SubmitChar("(")
	_, err := c.Evaluate()
	require.Error(t, err)
	c.ClearAll()
	assert.Equal(t, "", c.Display())
	assert.Equal(t, ModeComposing, c.Mode())
}

func TestBuffer_GlyphsStoredLiterally(t *testing.T) {
	c := newCalc(t)
	for _, key := range []string{"√", "4", ")", "+", "3", "!", "+", "ln", "(", "e", ")"} {
		c.SubmitChar(key)
	}
	assert.Equal(t, "√4)+3!+ln(e)", c.Display())

	got, err := c.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, "9", got)
	assert.Equal(t, "√4)+3!+ln(e)", c.History()[0].Expression)
}

func TestNew_RejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDepth = 0
	_, err := New(cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestCompute(t *testing.T) {
	v, err := Compute("2^10", DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 1024.0, v)

	_, err = Compute("1/0", DefaultConfig())
	assert.ErrorIs(t, err, expr.ErrDivisionByZero)
}
