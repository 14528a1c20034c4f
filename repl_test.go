package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildfunctions/sci_calc/pkg/calculator"
)

func newTestREPL(t *testing.T) (*repl, *bytes.Buffer) {
	t.Helper()
	calc, err := calculator.New(calculator.DefaultConfig(), zerolog.Nop())
	require.NoError(t, err)
	var out bytes.Buffer
	return &repl{calc: calc, out: &out, format: "text"}, &out
}

func TestREPLSession(t *testing.T) {
	r, out := newTestREPL(t)
	input := strings.Join([]string{
		"2+3",
		"*4",
		"√(16)",
		"1/0",
		"+1",
		":history",
		":q",
		"7",
	}, "\n")
	require.NoError(t, r.run(strings.NewReader(input)))

	got := out.String()
	assert.Contains(t, got, "> 5\n")
	assert.Contains(t, got, "> 20\n", "operator line continues from the result")
	assert.Contains(t, got, "> 4\n")
	assert.Contains(t, got, "Error: DivisionByZero")
	assert.Contains(t, got, "#1: 5*4 = 20")
	assert.NotContains(t, got, "> 7\n", "input after :q is not read")

	// "+1" after an error is a fresh expression, which has no unary plus.
	assert.Len(t, r.calc.History(), 3)
}

func TestREPLCommands(t *testing.T) {
	r, out := newTestREPL(t)
	for _, line := range []string{"1+1", "2+2", ":rm 0", ":rm 9", ":rm x"} {
		require.True(t, r.handle(line))
	}
	h := r.calc.History()
	require.Len(t, h, 1)
	assert.Equal(t, "2+2", h[0].Expression)
	assert.Contains(t, out.String(), "out of range")
	assert.Contains(t, out.String(), `invalid index "x"`)

	require.True(t, r.handle(":clear-history"))
	assert.Empty(t, r.calc.History())

	out.Reset()
	require.True(t, r.handle(":history"))
	assert.Equal(t, "No history yet\n", out.String())

	out.Reset()
	require.True(t, r.handle(":bogus"))
	assert.Contains(t, out.String(), "unknown command")

	assert.False(t, r.handle(":q"))
}

func TestREPLDeleteAndClear(t *testing.T) {
	r, out := newTestREPL(t)
	require.True(t, r.handle("123"))
	out.Reset()
	require.True(t, r.handle(":del"))
	assert.Equal(t, "12\n", out.String())

	require.True(t, r.handle(":c"))
	assert.Equal(t, "", r.calc.Display())
}

func TestREPLContinuesOnlyFromAResult(t *testing.T) {
	r, out := newTestREPL(t)
	require.True(t, r.handle("-3"))
	assert.Equal(t, "-3\n", out.String(), "leading minus on an empty display negates")

	out.Reset()
	require.True(t, r.handle("- 3"))
	assert.Equal(t, "-6\n", out.String())

	out.Reset()
	require.True(t, r.handle("-5+2"))
	assert.Equal(t, "-3\n", out.String(), "unspaced minus starts a new expression")

	out.Reset()
	require.True(t, r.handle("+ 9"))
	assert.Equal(t, "6\n", out.String())

	out.Reset()
	require.True(t, r.handle("mod 4"))
	assert.Equal(t, "2\n", out.String())

	out.Reset()
	require.True(t, r.handle("*-2"))
	assert.Equal(t, "-4\n", out.String())
}

func TestEvalOnce(t *testing.T) {
	r, _ := newTestREPL(t)

	var out bytes.Buffer
	assert.True(t, evalOnce(&out, r.calc, "2^10", "text"))
	assert.Equal(t, "1024\n", out.String())

	r.calc.ClearAll()
	out.Reset()
	assert.False(t, evalOnce(&out, r.calc, "sqrt(-4)", "json"))
	var report struct {
		Display   string `json:"display"`
		ErrorKind string `json:"error_kind"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "Error", report.Display)
	assert.Equal(t, "DomainError", report.ErrorKind)
}
