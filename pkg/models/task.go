// Package models defines the shared data types exchanged between the
// registry, the orchestrator, and external callers. The JSON tags on the
// result types are a stable wire contract consumed by dashboards and
// HTTP front ends and must not change shape.
package models

// Metadata keys injected by a composite into every child input.
const (
	// MetaParentAgent is the identifier of the composite that built the input.
	MetaParentAgent = "parentAgent"
	// MetaChildIndex is the 1-based position of the child in its parent.
	MetaChildIndex = "childIndex"
	// MetaTotalChildren is the number of children in the parent node.
	MetaTotalChildren = "totalChildren"
)

// TaskInput is the input handed to a TaskUnit's Execute.
type TaskInput struct {
	// TaskID identifies this invocation, e.g. "9.2_child_1".
	TaskID string `json:"task_id"`
	// Data is the business payload. For a child of a composite this is
	// the shared pipeline context accumulated from earlier siblings.
	Data map[string]any `json:"data"`
	// Metadata carries orchestration context (parent agent, child index).
	Metadata map[string]any `json:"metadata,omitempty"`
}

// CloneData returns a shallow copy of the input's data map. Callers that
// mutate their working context must operate on a copy so the original
// input is never aliased across siblings or concurrent runs.
func (in TaskInput) CloneData() map[string]any {
	out := make(map[string]any, len(in.Data))
	for k, v := range in.Data {
		out[k] = v
	}
	return out
}

// TaskOutput is the outcome of a single TaskUnit execution.
// Invariant: Success == false exactly when ErrorMessage is non-empty.
type TaskOutput struct {
	// Success reports whether the unit completed without error.
	Success bool `json:"success"`
	// Data is the unit's output payload, merged into the pipeline
	// context by the parent composite when Success is true.
	Data map[string]any `json:"data,omitempty"`
	// ErrorMessage describes the failure. Empty on success.
	ErrorMessage string `json:"error_message,omitempty"`
	// ExecutionTimeMs is the wall-clock execution time in milliseconds.
	ExecutionTimeMs float64 `json:"execution_time_ms"`
	// Metadata carries unit-specific metrics and annotations.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Succeeded builds a successful TaskOutput.
func Succeeded(data map[string]any, elapsedMs float64) TaskOutput {
	return TaskOutput{Success: true, Data: data, ExecutionTimeMs: elapsedMs}
}

// Failed builds a failed TaskOutput. An empty message is replaced with a
// placeholder so the success/error invariant holds.
func Failed(message string, elapsedMs float64) TaskOutput {
	if message == "" {
		message = "unspecified error"
	}
	return TaskOutput{Success: false, ErrorMessage: message, ExecutionTimeMs: elapsedMs}
}

// Normalize repairs an output that violates the success/error invariant:
// a failure without a message gets a placeholder, a success carrying an
// error message keeps the message and is demoted to failure.
func (o TaskOutput) Normalize() TaskOutput {
	if !o.Success && o.ErrorMessage == "" {
		o.ErrorMessage = "unspecified error"
	}
	if o.Success && o.ErrorMessage != "" {
		o.Success = false
	}
	return o
}
