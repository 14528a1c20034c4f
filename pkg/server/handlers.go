package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wildfunctions/sci_calc/pkg/calculator"
	"github.com/wildfunctions/sci_calc/pkg/expr"
	"github.com/wildfunctions/sci_calc/pkg/history"
)

// Keypad operations accepted by apply.
const (
	opState         = "state"
	opSubmit        = "submit"
	opDelete        = "delete"
	opClear         = "clear"
	opEvaluate      = "evaluate"
	opHistoryRemove = "history_remove"
	opHistoryClear  = "history_clear"
)

// action is one keypad operation, shared by the REST routes and the
// WebSocket stream.
type action struct {
	Op    string `json:"op"`
	Token string `json:"token,omitempty"`
	Index *int   `json:"index,omitempty"` // history_remove only
}

type actionReply struct {
	Op        string            `json:"op"`
	Result    string            `json:"result,omitempty"`
	Error     string            `json:"error,omitempty"`
	ErrorKind expr.Kind         `json:"error_kind,omitempty"`
	State     calculator.Report `json:"state"`
}

// apply runs a against sess, which the caller holds locked, and returns the
// reply with the HTTP status that describes it.
func (s *Server) apply(ctx context.Context, sess *session, a action) (actionReply, int) {
	status := http.StatusOK
	reply := actionReply{Op: a.Op}

	switch a.Op {
	case opState:
	case opSubmit:
		sess.calc.SubmitChar(a.Token)
	case opDelete:
		sess.calc.DeleteLast()
	case opClear:
		sess.calc.ClearAll()
	case opEvaluate:
		var (
			result string
			err    error
		)
		if sess.calc.Mode() == calculator.ModeError {
			// Replays the displayed error; nothing is evaluated.
			_, err = sess.calc.Evaluate()
		} else {
			result, err = s.traceEvaluate(ctx, sess.ID, sess.calc.Display(), sess.calc.Evaluate)
		}
		if err != nil {
			reply.Error = err.Error()
			reply.ErrorKind = expr.KindOf(err)
			status = http.StatusUnprocessableEntity
		}
		reply.Result = result
	case opHistoryRemove:
		if a.Index == nil {
			reply.Error = "history_remove needs an index"
			status = http.StatusBadRequest
			break
		}
		if err := sess.calc.RemoveHistory(*a.Index); err != nil {
			reply.Error = err.Error()
			var ie *history.IndexError
			if errors.As(err, &ie) {
				status = http.StatusNotFound
			} else {
				status = http.StatusBadRequest
			}
		}
	case opHistoryClear:
		sess.calc.ClearHistory()
	default:
		reply.Error = fmt.Sprintf("unknown op %q", a.Op)
		status = http.StatusBadRequest
	}

	reply.State = sess.calc.Report()
	return reply, status
}

// traceEvaluate wraps one evaluation in a span and counts it.
func (s *Server) traceEvaluate(ctx context.Context, sessionID, input string, eval func() (string, error)) (string, error) {
	_, span := s.tracer.Start(ctx, "calculator.evaluate", trace.WithAttributes(
		attribute.String("session.id", sessionID),
		attribute.Int("input.length", len(input)),
	))
	defer span.End()

	result, err := eval()
	s.metrics.RecordEvaluation(err)
	if err != nil {
		kind := expr.KindOf(err).String()
		span.RecordError(err)
		span.SetStatus(codes.Error, kind)
		span.SetAttributes(attribute.String("error.kind", kind))
		return "", err
	}
	span.SetAttributes(attribute.String("result", result))
	return result, nil
}

// lockSession looks up the session named in the path and locks it. It writes
// a 404 and returns false when there is no such session.
func (s *Server) lockSession(w http.ResponseWriter, r *http.Request) (*session, bool) {
	sess, ok := s.sessions.get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	sess.mu.Lock()
	sess.touch(s.sessions.now())
	return sess, true
}

func (s *Server) runAction(w http.ResponseWriter, r *http.Request, a action) {
	sess, ok := s.lockSession(w, r)
	if !ok {
		return
	}
	defer sess.mu.Unlock()

	reply, status := s.apply(r.Context(), sess, a)
	writeJSON(w, status, reply)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.create()
	if errors.Is(err, errTooManySessions) {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("create session")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	sess.mu.Lock()
	state := sess.calc.Report()
	sess.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":    sess.ID,
		"state": state,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s.runAction(w, r, action{Op: opState})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.remove(r.PathValue("id")) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	s.runAction(w, r, action{Op: opSubmit, Token: req.Token})
}

func (s *Server) handleDeleteLast(w http.ResponseWriter, r *http.Request) {
	s.runAction(w, r, action{Op: opDelete})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.runAction(w, r, action{Op: opClear})
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	s.runAction(w, r, action{Op: opEvaluate})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lockSession(w, r)
	if !ok {
		return
	}
	entries := sess.calc.History()
	sess.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *Server) handleHistoryClear(w http.ResponseWriter, r *http.Request) {
	s.runAction(w, r, action{Op: opHistoryClear})
}

func (s *Server) handleHistoryRemove(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid history index %q", r.PathValue("index")))
		return
	}
	s.runAction(w, r, action{Op: opHistoryRemove, Index: &index})
}

// handleEval evaluates a complete expression without a session.
func (s *Server) handleEval(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Expression string `json:"expression"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	var value float64
	result, err := s.traceEvaluate(r.Context(), "", req.Expression, func() (string, error) {
		v, err := calculator.Compute(req.Expression, s.cfg.Calculator)
		if err != nil {
			return "", err
		}
		value = v
		return calculator.FormatResult(v), nil
	})
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"expression": req.Expression,
			"error":      err.Error(),
			"error_kind": expr.KindOf(err),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"expression": req.Expression,
		"result":     result,
		"value":      value,
	})
}
