package server

import (
	"testing"

	"github.com/wildfunctions/sci_calc/pkg/expr"
)

func TestMetricsEvaluations(t *testing.T) {
	m := NewMetrics()
	m.RecordEvaluation(nil)
	m.RecordEvaluation(expr.Errorf(expr.DivisionByZero, 1, "division by zero"))
	m.RecordEvaluation(expr.Errorf(expr.DivisionByZero, 3, "division by zero"))
	m.RecordEvaluation(expr.Errorf(expr.DomainError, expr.NoPos, "sqrt of negative"))

	snap := m.Snapshot()
	if snap.Evaluations != 4 {
		t.Errorf("evaluations = %d, want 4", snap.Evaluations)
	}
	if snap.Failures["DivisionByZero"] != 2 {
		t.Errorf("DivisionByZero = %d, want 2", snap.Failures["DivisionByZero"])
	}
	if snap.Failures["DomainError"] != 1 {
		t.Errorf("DomainError = %d, want 1", snap.Failures["DomainError"])
	}
}

func TestMetricsSessions(t *testing.T) {
	m := NewMetrics()
	m.RecordSessionCreated()
	m.RecordSessionCreated()
	m.RecordSessionsExpired(1)
	m.SetActiveSessions(1)

	snap := m.Snapshot()
	if snap.SessionsCreated != 2 {
		t.Errorf("created = %d, want 2", snap.SessionsCreated)
	}
	if snap.SessionsExpired != 1 {
		t.Errorf("expired = %d, want 1", snap.SessionsExpired)
	}
	if snap.ActiveSessions != 1 {
		t.Errorf("active = %d, want 1", snap.ActiveSessions)
	}
}

func TestMetricsSnapshotIsCopy(t *testing.T) {
	m := NewMetrics()
	m.RecordEvaluation(expr.Errorf(expr.Overflow, expr.NoPos, "overflow"))

	snap := m.Snapshot()
	snap.Failures["Overflow"] = 99

	if got := m.Snapshot().Failures["Overflow"]; got != 1 {
		t.Errorf("Overflow = %d after mutating snapshot, want 1", got)
	}
}
