package models

import "time"

// OrchestrationPattern selects how a composite schedules its children.
type OrchestrationPattern string

const (
	// PatternSequential runs children one at a time in declared order,
	// threading the shared context between them. This is the only
	// pattern: pipeline accumulation and the merge tie-break both
	// depend on a deterministic sequence.
	PatternSequential OrchestrationPattern = "SEQUENTIAL"
)

// Valid returns true if the pattern is a known value.
func (p OrchestrationPattern) Valid() bool {
	return p == PatternSequential
}

// ExecutionResult records the outcome of one child within a single
// composite run. It is scoped to that run and never reused.
type ExecutionResult struct {
	// AgentID is the taxonomy identifier of the child.
	AgentID string `json:"agent_id"`
	// Success reports whether the child completed without error.
	Success bool `json:"success"`
	// Result is the child's output data payload.
	Result map[string]any `json:"result"`
	// Metrics is a snapshot of the child's output metadata.
	Metrics map[string]any `json:"metrics"`
	// Error describes the failure. Empty on success.
	Error string `json:"error,omitempty"`
}

// NodeSummary aggregates the per-child outcomes of one composite run.
// Computed once per run, immutable afterward.
type NodeSummary struct {
	// TotalChildren is the number of children declared on the node.
	TotalChildren int `json:"total_children"`
	// Successful is the number of children that completed successfully.
	Successful int `json:"successful"`
	// Failed is TotalChildren minus Successful.
	Failed int `json:"failed"`
	// ExecutionTimeMs is the wall-clock duration of the whole run.
	ExecutionTimeMs float64 `json:"execution_time_ms"`
}

// CompositeResult is the full outcome of orchestrating one node.
// Its JSON shape is the stable wire contract for external consumers.
type CompositeResult struct {
	// RunID uniquely identifies this orchestration run.
	RunID string `json:"run_id,omitempty"`
	// APQCID is the taxonomy identifier of the node that ran.
	APQCID string `json:"apqc_id"`
	// Level is the node's taxonomy level (1-5).
	Level int `json:"level"`
	// Success is true only when every child succeeded. Partial success
	// is visible in Summary but never flips this flag.
	Success bool `json:"success"`
	// ChildResults holds one entry per child, in execution order.
	ChildResults []ExecutionResult `json:"child_results"`
	// Summary aggregates the child outcomes.
	Summary NodeSummary `json:"summary"`
	// FinalData is the shared context after the last child ran.
	FinalData map[string]any `json:"final_data"`
	// Timestamp is when the run completed.
	Timestamp time.Time `json:"timestamp"`
}
