package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wildfunctions/sci_calc/pkg/calculator"
)

const replHelp = `Enter an expression. A line starting with * / ^ % or mod, or with + or -
followed by a space ("- 3"), continues from the last result; "-5+2" starts a
new expression. Commands:
  :history        list past evaluations
  :rm N           remove history entry N
  :clear-history  empty the history
  :del            delete the last character
  :c              clear the input
  :q              quit`

// evalOnce evaluates expression and writes the outcome in the given format.
// It reports whether evaluation succeeded.
func evalOnce(w io.Writer, calc *calculator.Calculator, expression, format string) bool {
	calc.SubmitChar(expression)
	result, err := calc.Evaluate()
	if format == "json" {
		if werr := calculator.WriteJSONReport(w, calc.Report()); werr != nil {
			fmt.Fprintf(w, "error writing JSON: %v\n", werr)
			return false
		}
		return err == nil
	}
	if err != nil {
		fmt.Fprintf(w, "%s: %v\n", calc.Display(), err)
		return false
	}
	fmt.Fprintln(w, result)
	return true
}

type repl struct {
	calc   *calculator.Calculator
	out    io.Writer
	format string
}

// run reads lines until EOF or :q.
func (r *repl) run(in io.Reader) error {
	fmt.Fprintln(r.out, replHelp)
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(r.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}
		if !r.handle(strings.TrimSpace(scanner.Text())) {
			return nil
		}
	}
}

// handle processes one line and reports whether to keep reading.
func (r *repl) handle(line string) bool {
	if line == "" {
		return true
	}
	if strings.HasPrefix(line, ":") {
		return r.command(line)
	}

	if !r.continues(line) {
		r.calc.ClearAll()
	}
	evalOnce(r.out, r.calc, line, r.format)
	return true
}

// continues reports whether line extends the current display rather than
// starting a new expression. A leading + or - only continues when a space
// follows it, so "-5" is still a new negative number.
func (r *repl) continues(line string) bool {
	if r.calc.Mode() != calculator.ModeComposing || r.calc.Display() == "" {
		return false
	}
	switch {
	case strings.ContainsRune("*/^%", rune(line[0])), strings.HasPrefix(line, "mod"):
		return true
	case line[0] == '+' || line[0] == '-':
		return len(line) > 1 && (line[1] == ' ' || line[1] == '\t')
	}
	return false
}

func (r *repl) command(line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":q", ":quit":
		return false
	case ":history":
		calculator.WriteTextHistory(r.out, r.calc.History())
	case ":rm":
		if len(fields) != 2 {
			fmt.Fprintln(r.out, "usage: :rm N")
			break
		}
		i, err := strconv.Atoi(fields[1])
		if err != nil {
			fmt.Fprintf(r.out, "invalid index %q\n", fields[1])
			break
		}
		if err := r.calc.RemoveHistory(i); err != nil {
			fmt.Fprintln(r.out, err)
		}
	case ":clear-history":
		r.calc.ClearHistory()
	case ":del":
		r.calc.DeleteLast()
		fmt.Fprintln(r.out, r.calc.Display())
	case ":c":
		r.calc.ClearAll()
	case ":help":
		fmt.Fprintln(r.out, replHelp)
	default:
		fmt.Fprintf(r.out, "unknown command %s\n", fields[0])
	}
	return true
}
