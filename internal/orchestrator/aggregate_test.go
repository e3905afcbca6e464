package orchestrator

import (
	"testing"
	"time"

	"github.com/procmesh/procmesh/pkg/models"
)

func TestAggregate(t *testing.T) {
	results := []models.ExecutionResult{
		{AgentID: "1.1", Success: true},
		{AgentID: "1.2", Success: false, Error: "boom"},
		{AgentID: "1.3", Success: true},
	}

	s := Aggregate(3, results, 1500*time.Microsecond)

	if s.TotalChildren != 3 {
		t.Errorf("TotalChildren = %d, want 3", s.TotalChildren)
	}
	if s.Successful != 2 {
		t.Errorf("Successful = %d, want 2", s.Successful)
	}
	if s.Failed != 1 {
		t.Errorf("Failed = %d, want 1", s.Failed)
	}
	if s.ExecutionTimeMs != 1.5 {
		t.Errorf("ExecutionTimeMs = %v, want 1.5", s.ExecutionTimeMs)
	}
}

func TestAggregate_Empty(t *testing.T) {
	s := Aggregate(0, nil, 0)

	if s.TotalChildren != 0 || s.Successful != 0 || s.Failed != 0 {
		t.Errorf("empty aggregate = %+v, want all zero", s)
	}
}

func TestAggregate_TruncatedRun(t *testing.T) {
	// Fail-fast stopped after one success; the two unscheduled children
	// count as failed.
	results := []models.ExecutionResult{{AgentID: "1.1", Success: true}}

	s := Aggregate(3, results, time.Millisecond)

	if s.Successful != 1 {
		t.Errorf("Successful = %d, want 1", s.Successful)
	}
	if s.Failed != 2 {
		t.Errorf("Failed = %d, want 2", s.Failed)
	}
}
