// Package engine is the external entry point of procmesh: it resolves a
// taxonomy identifier, executes it (a whole composite run or a single
// leaf), and returns the stable wire-shaped outcome that HTTP routers,
// CLIs, and test harnesses consume.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/procmesh/procmesh/internal/orchestrator"
	"github.com/procmesh/procmesh/internal/registry"
	"github.com/procmesh/procmesh/internal/state"
	"github.com/procmesh/procmesh/internal/unit"
	"github.com/procmesh/procmesh/pkg/models"
	"github.com/procmesh/procmesh/pkg/taxonomy"
)

// Engine wires the registry and orchestrator behind the public Execute /
// GetCapabilities / GetStatus operations.
type Engine struct {
	registry *registry.CapabilityRegistry
	orch     *orchestrator.Orchestrator
	// history records composite runs when non-nil.
	history *state.DB
}

// New creates an Engine. history may be nil to disable run recording.
func New(reg *registry.CapabilityRegistry, orch *orchestrator.Orchestrator, history *state.DB) *Engine {
	return &Engine{registry: reg, orch: orch, history: history}
}

// Registry returns the engine's capability registry.
func (e *Engine) Registry() *registry.CapabilityRegistry {
	return e.registry
}

// Outcome is the result of one Execute call. Exactly one of Composite and
// Leaf is set: composites produce a full orchestration result, leaves a
// single TaskOutput.
type Outcome struct {
	// RunID uniquely identifies this invocation.
	RunID string `json:"run_id"`
	// Composite is the orchestration result when id named a composite.
	Composite *models.CompositeResult `json:"-"`
	// Leaf is the unit output when id named a leaf.
	Leaf *models.TaskOutput `json:"-"`
}

// MarshalJSON emits the wire shape: the composite result object for
// composite runs, the task output (with run id and timestamp) for leaves.
func (o Outcome) MarshalJSON() ([]byte, error) {
	if o.Composite != nil {
		return json.Marshal(o.Composite)
	}
	if o.Leaf != nil {
		return json.Marshal(struct {
			RunID string `json:"run_id"`
			models.TaskOutput
			Timestamp time.Time `json:"timestamp"`
		}{o.RunID, *o.Leaf, time.Now().UTC()})
	}
	return nil, fmt.Errorf("empty outcome")
}

// Execute runs the unit registered under rawID with the given data and
// metadata. Business failures are reported inside the outcome; the
// returned error covers only structural problems (malformed or unknown
// identifier).
func (e *Engine) Execute(ctx context.Context, rawID string, data, metadata map[string]any) (*Outcome, error) {
	id, err := taxonomy.Parse(rawID)
	if err != nil {
		return nil, err
	}

	u, err := e.registry.Lookup(id)
	if err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	input := models.TaskInput{TaskID: id.String(), Data: data, Metadata: metadata}

	if comp, ok := u.(*orchestrator.Composite); ok {
		result, err := e.orch.Run(ctx, comp.Node(), input)
		if err != nil {
			return nil, fmt.Errorf("run %s: %w", id, err)
		}
		result.RunID = runID

		if e.history != nil {
			// History is best-effort: the caller still gets the full
			// result when recording fails.
			_ = e.history.RecordRun(result)
		}
		return &Outcome{RunID: runID, Composite: &result}, nil
	}

	out := unit.Run(ctx, u, input)
	return &Outcome{RunID: runID, Leaf: &out}, nil
}

// GetCapabilities returns the capability descriptor declared by the unit
// registered under rawID.
func (e *Engine) GetCapabilities(rawID string) (models.CapabilityDescriptor, error) {
	id, err := taxonomy.Parse(rawID)
	if err != nil {
		return models.CapabilityDescriptor{}, err
	}
	return e.registry.Describe(id)
}

// Status reports a unit's readiness and capabilities for discovery
// collaborators.
type Status struct {
	// Status is "ready" for every registered unit: the registry is
	// populated before orchestration begins, so presence means ready.
	Status string `json:"status"`
	// Capabilities is the unit's declared capability descriptor.
	Capabilities models.CapabilityDescriptor `json:"capabilities"`
}

// GetStatus returns the status of the unit registered under rawID.
func (e *Engine) GetStatus(rawID string) (Status, error) {
	d, err := e.GetCapabilities(rawID)
	if err != nil {
		return Status{}, err
	}
	return Status{Status: "ready", Capabilities: d}, nil
}
