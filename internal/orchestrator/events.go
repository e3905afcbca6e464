package orchestrator

import (
	"time"

	"github.com/procmesh/procmesh/pkg/taxonomy"
)

// EventType represents the type of orchestration event.
type EventType string

const (
	// EventRunStarted indicates a composite run has started.
	EventRunStarted EventType = "run_started"
	// EventChildStarted indicates a child is about to execute.
	EventChildStarted EventType = "child_started"
	// EventChildCompleted indicates a child completed successfully.
	EventChildCompleted EventType = "child_completed"
	// EventChildFailed indicates a child failed (including registry
	// misses and timeouts).
	EventChildFailed EventType = "child_failed"
	// EventRunCompleted indicates the composite run finished.
	EventRunCompleted EventType = "run_completed"
)

// Event is emitted by the orchestrator as a run progresses. Events feed
// dashboards and progress displays; dropping them never affects the run.
type Event struct {
	// Type is the kind of event.
	Type EventType
	// NodeID is the identifier of the node being orchestrated.
	NodeID taxonomy.ID
	// ChildID is the identifier of the related child, if applicable.
	ChildID taxonomy.ID
	// ChildIndex is the 1-based position of the child, if applicable.
	ChildIndex int
	// Message provides additional context.
	Message string
	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// emit sends an event without blocking. Events are best-effort: if the
// receiver lags, the event is dropped rather than stalling the run.
func (o *Orchestrator) emit(ev Event) {
	if o.opts.Events == nil {
		return
	}
	ev.Timestamp = time.Now()
	select {
	case o.opts.Events <- ev:
	default:
	}
}
