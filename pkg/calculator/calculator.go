package calculator

import (
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/wildfunctions/sci_calc/pkg/expr"
	"github.com/wildfunctions/sci_calc/pkg/history"
	"github.com/wildfunctions/sci_calc/pkg/syntax"
)

// Mode is the display state of a calculator.
type Mode int

const (
	ModeComposing Mode = iota
	ModeError
)

func (m Mode) String() string {
	if m == ModeError {
		return "error"
	}
	return "composing"
}

// Calculator owns the input buffer and history of one session. It is
// synchronous and not safe for concurrent use; callers serialize access.
type Calculator struct {
	cfg     Config
	logger  zerolog.Logger
	buf     string
	mode    Mode
	lastErr error
	history *history.Log
}

// New creates a calculator from the given config.
func New(cfg Config, logger zerolog.Logger) (*Calculator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{
		cfg:     cfg,
		logger:  logger,
		history: history.New(cfg.HistoryCap),
	}, nil
}

// Config returns the configuration the calculator was built with.
func (c *Calculator) Config() Config { return c.cfg }

// SubmitChar appends the literal text of a keypad token. Glyphs such as √
// and π are stored as typed; they are expanded only when evaluating.
// Submitting while an error is displayed clears the error first.
func (c *Calculator) SubmitChar(token string) {
	c.leaveError()
	c.buf += token
}

// DeleteLast removes the last character of the input. It does nothing on an
// empty input; while an error is displayed it only clears the error.
func (c *Calculator) DeleteLast() {
	if c.leaveError() {
		return
	}
	if c.buf == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(c.buf)
	c.buf = c.buf[:len(c.buf)-size]
}

// ClearAll empties the input and returns to composing mode.
func (c *Calculator) ClearAll() {
	c.buf = ""
	c.mode = ModeComposing
	c.lastErr = nil
}

// Evaluate runs the current input through the pipeline. On success the
// display becomes the formatted result and an entry is appended to the
// history. On failure the input is discarded, the display shows the error
// sentinel and history is untouched. Evaluating again while the error is
// displayed returns the same error.
func (c *Calculator) Evaluate() (string, error) {
	if c.mode == ModeError {
		return "", c.lastErr
	}

	input := c.buf
	v, err := compute(input, c.cfg, c.logger)
	if err != nil {
		c.logger.Debug().Str("input", input).Stringer("kind", expr.KindOf(err)).Err(err).Msg("evaluation failed")
		c.buf = ""
		c.mode = ModeError
		c.lastErr = err
		return "", err
	}

	result := FormatResult(v)
	c.history.Append(history.Entry{Expression: input, Result: result})
	c.buf = result
	c.logger.Debug().Str("input", input).Str("result", result).Msg("evaluated")
	return result, nil
}

// Display returns the text to show: the input being composed, the last
// result, or the error sentinel.
func (c *Calculator) Display() string {
	if c.mode == ModeError {
		return c.cfg.ErrorSentinel
	}
	return c.buf
}

// Mode returns the current display mode.
func (c *Calculator) Mode() Mode { return c.mode }

// LastError returns the error being displayed, or nil when composing.
func (c *Calculator) LastError() error { return c.lastErr }

// History returns a snapshot of the evaluation log, oldest first.
func (c *Calculator) History() []history.Entry { return c.history.List() }

// RemoveHistory deletes the history entry at index i.
func (c *Calculator) RemoveHistory(i int) error { return c.history.RemoveAt(i) }

// ClearHistory empties the evaluation log.
func (c *Calculator) ClearHistory() { c.history.Clear() }

// leaveError drops the error sentinel. It reports whether an error was shown.
func (c *Calculator) leaveError() bool {
	if c.mode != ModeError {
		return false
	}
	c.ClearAll()
	return true
}

// Compute evaluates input without any session state.
func Compute(input string, cfg Config) (float64, error) {
	return compute(input, cfg, zerolog.Nop())
}

func compute(input string, cfg Config, logger zerolog.Logger) (float64, error) {
	if len(input) > cfg.MaxInputLength {
		return 0, expr.Errorf(expr.ExpressionTooComplex, expr.NoPos,
			"input is %d bytes, limit is %d", len(input), cfg.MaxInputLength)
	}

	canonical := syntax.Canonicalize(input)
	tokens, err := syntax.Lex(canonical)
	if err != nil {
		return 0, err
	}
	tree, err := syntax.Parse(tokens, cfg.MaxDepth)
	if err != nil {
		return 0, err
	}
	logger.Debug().
		Str("canonical", canonical).
		Int("tokens", len(tokens)-1).
		Int("nodes", tree.NodeCount()).
		Int("depth", tree.Depth()).
		Msg("parsed")
	return expr.Eval(tree)
}
