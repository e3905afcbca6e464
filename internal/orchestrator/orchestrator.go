package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/procmesh/procmesh/internal/registry"
	"github.com/procmesh/procmesh/internal/unit"
	"github.com/procmesh/procmesh/pkg/models"
	"github.com/procmesh/procmesh/pkg/taxonomy"
)

// Orchestrator runs composite nodes against a capability registry.
// The registry is shared read-only, so independent Run calls may execute
// concurrently; each run owns its own context map and result slice.
type Orchestrator struct {
	registry *registry.CapabilityRegistry
	opts     Options
}

// New creates an Orchestrator bound to a registry.
func New(reg *registry.CapabilityRegistry, opts Options) *Orchestrator {
	return &Orchestrator{registry: reg, opts: opts}
}

// Registry returns the registry this orchestrator resolves children from.
func (o *Orchestrator) Registry() *registry.CapabilityRegistry {
	return o.registry
}

// Run executes node's children sequentially, in declared order, threading
// a shared context between them: each successful child's output is merged
// into the context seen by later siblings (later keys overwrite earlier
// ones on collision). A failed child leaves the context untouched and the
// loop proceeds to the next sibling.
//
// Run returns an error only for structural problems in the node
// definition. Child failures of every kind — validation, domain errors,
// registry misses, timeouts — are recorded in the result and never abort
// the run.
func (o *Orchestrator) Run(ctx context.Context, node CompositeNode, input models.TaskInput) (models.CompositeResult, error) {
	if err := node.Validate(); err != nil {
		return models.CompositeResult{}, fmt.Errorf("malformed node: %w", err)
	}

	start := time.Now()
	shared := input.CloneData()
	results := make([]models.ExecutionResult, 0, len(node.Children))
	total := len(node.Children)

	o.opts.Logger.Log("run %s: %d children", node.ID, total)
	o.emit(Event{Type: EventRunStarted, NodeID: node.ID})

	var deadline time.Time
	if o.opts.NodeDeadline > 0 {
		deadline = start.Add(o.opts.NodeDeadline)
	}

	for i, childID := range node.Children {
		index := i + 1

		if ctx.Err() != nil {
			o.opts.Logger.Log("run %s: context cancelled before child %d/%d", node.ID, index, total)
			break
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			o.opts.Logger.Log("run %s: node deadline exceeded before child %d/%d", node.ID, index, total)
			break
		}

		o.emit(Event{Type: EventChildStarted, NodeID: node.ID, ChildID: childID, ChildIndex: index})

		result := o.runChild(ctx, node, childID, index, total, shared)
		results = append(results, result)

		if result.Success {
			shared = mergeContext(shared, result.Result)
			o.emit(Event{Type: EventChildCompleted, NodeID: node.ID, ChildID: childID, ChildIndex: index})
		} else {
			o.opts.Logger.Log("run %s: child %s failed: %s", node.ID, childID, result.Error)
			o.emit(Event{Type: EventChildFailed, NodeID: node.ID, ChildID: childID, ChildIndex: index, Message: result.Error})
			if o.opts.FailFast {
				break
			}
		}
	}

	summary := Aggregate(total, results, time.Since(start))

	result := models.CompositeResult{
		APQCID:       node.ID.String(),
		Level:        node.Level,
		Success:      summary.Successful == summary.TotalChildren,
		ChildResults: results,
		Summary:      summary,
		FinalData:    shared,
		Timestamp:    time.Now().UTC(),
	}

	o.opts.Logger.Log("run %s: done, %d/%d succeeded in %.1fms",
		node.ID, summary.Successful, summary.TotalChildren, summary.ExecutionTimeMs)
	o.emit(Event{Type: EventRunCompleted, NodeID: node.ID,
		Message: fmt.Sprintf("%d/%d succeeded", summary.Successful, summary.TotalChildren)})

	return result, nil
}

// runChild resolves and executes one child, converting every failure mode
// into an ExecutionResult.
func (o *Orchestrator) runChild(ctx context.Context, node CompositeNode, childID taxonomy.ID, index, total int, shared map[string]any) models.ExecutionResult {
	u, err := o.registry.Lookup(childID)
	if err != nil {
		// A registry miss degrades only this child; siblings still run.
		return models.ExecutionResult{
			AgentID: childID.String(),
			Success: false,
			Error:   fmt.Sprintf("child not registered: %v", err),
		}
	}

	// Each child receives its own copy of the shared context. A unit that
	// mutates its input, or one still running past its timeout, touches
	// only that copy, never the map the next sibling merges into.
	data := make(map[string]any, len(shared))
	for k, v := range shared {
		data[k] = v
	}

	childInput := models.TaskInput{
		TaskID: fmt.Sprintf("%s_child_%d", node.ID, index),
		Data:   data,
		Metadata: map[string]any{
			models.MetaParentAgent:   node.ID.String(),
			models.MetaChildIndex:    index,
			models.MetaTotalChildren: total,
		},
	}

	output := o.executeChild(ctx, u, childInput)

	return models.ExecutionResult{
		AgentID: childID.String(),
		Success: output.Success,
		Result:  output.Data,
		Metrics: output.Metadata,
		Error:   output.ErrorMessage,
	}
}

// executeChild runs the unit through the hardened boundary, applying the
// per-child timeout when configured. A timed-out child's late result is
// discarded; the goroutine is left to finish on its own.
func (o *Orchestrator) executeChild(ctx context.Context, u unit.TaskUnit, input models.TaskInput) models.TaskOutput {
	if o.opts.ChildTimeout <= 0 {
		return unit.Run(ctx, u, input)
	}

	cctx, cancel := context.WithTimeout(ctx, o.opts.ChildTimeout)
	defer cancel()

	start := time.Now()
	done := make(chan models.TaskOutput, 1)
	go func() {
		done <- unit.Run(cctx, u, input)
	}()

	select {
	case out := <-done:
		return out
	case <-cctx.Done():
		elapsed := float64(time.Since(start)) / float64(time.Millisecond)
		return models.Failed(fmt.Sprintf("child execution aborted: %v", cctx.Err()), elapsed)
	}
}

// mergeContext returns a new map holding base overlaid with delta.
// The merge is shallow: top-level keys from delta overwrite base, and
// execution order is the sole tie-break. Copy-on-write keeps earlier
// inputs from being aliased by later mutations.
func mergeContext(base, delta map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(delta))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range delta {
		merged[k] = v
	}
	return merged
}
