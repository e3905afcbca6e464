package orchestrator

import "time"

// Options configures an Orchestrator. The zero value reproduces the base
// engine behavior: no timeouts, no deadline, skip-and-continue on every
// child failure.
type Options struct {
	// ChildTimeout bounds each child's execution. After the timeout the
	// child is recorded as failed and the loop proceeds to the next
	// sibling. Zero means unlimited.
	ChildTimeout time.Duration
	// NodeDeadline bounds a whole run. Once exceeded, no further
	// children are scheduled; children that never ran count as failed
	// in the summary. Zero means unlimited.
	NodeDeadline time.Duration
	// FailFast stops scheduling further children after the first
	// failure. Off by default: a single bad leaf in a branch with up
	// to 140 children must not block visibility into the rest.
	FailFast bool
	// Logger receives debug output. Nil disables logging.
	Logger *DebugLogger
	// Events receives run events if non-nil. Sends never block: when
	// the channel is full, events are dropped.
	Events chan<- Event
}
