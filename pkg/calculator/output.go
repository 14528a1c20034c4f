package calculator

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/wildfunctions/sci_calc/pkg/expr"
	"github.com/wildfunctions/sci_calc/pkg/history"
)

// Report is a point-in-time view of a session, used by the CLI and the
// session service.
type Report struct {
	Display   string          `json:"display"`
	Mode      string          `json:"mode"`
	Error     string          `json:"error,omitempty"`
	ErrorKind expr.Kind       `json:"error_kind,omitempty"`
	History   []history.Entry `json:"history"`
}

// Report returns the current state of the calculator.
func (c *Calculator) Report() Report {
	r := Report{
		Display: c.Display(),
		Mode:    c.mode.String(),
		History: c.History(),
	}
	if c.lastErr != nil {
		r.Error = c.lastErr.Error()
		r.ErrorKind = expr.KindOf(c.lastErr)
	}
	return r
}

// WriteTextHistory writes the history log, one numbered entry per line.
func WriteTextHistory(w io.Writer, entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No history yet")
		return
	}
	for i, e := range entries {
		fmt.Fprintf(w, "  #%d: %s\n", i, e)
	}
}

// WriteTextReport writes a report in human-readable format.
func WriteTextReport(w io.Writer, r Report) {
	fmt.Fprintf(w, "Display:   %s\n", r.Display)
	if r.Error != "" {
		fmt.Fprintf(w, "Error:     %s\n", r.Error)
	}
	fmt.Fprintf(w, "History:   %d entries\n", len(r.History))
	WriteTextHistory(w, r.History)
}

// WriteJSONReport writes a report as JSON.
func WriteJSONReport(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
