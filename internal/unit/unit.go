// Package unit defines the TaskUnit contract shared by every executable
// node in the process taxonomy. Leaf business-logic agents and composite
// nodes implement the same three methods, so a composite's children may
// themselves be composites without any special casing.
package unit

import (
	"context"
	"fmt"
	"time"

	"github.com/procmesh/procmesh/pkg/models"
)

// TaskUnit is the atomic capability contract.
//
// Execute must never panic and never return an output violating the
// success/error invariant: business failures are data, not control flow.
// Callers that cannot trust an implementation should go through Run.
type TaskUnit interface {
	// Validate checks the input against the unit's declared schema.
	// It must not mutate the input.
	Validate(input models.TaskInput) error

	// Execute runs Validate first and, on validation failure, returns a
	// failed TaskOutput without touching domain logic. Domain errors are
	// converted to failed outputs at this boundary.
	Execute(ctx context.Context, input models.TaskInput) models.TaskOutput

	// DeclareCapability describes what the unit can do. Pure; called
	// once at registration time.
	DeclareCapability() models.CapabilityDescriptor
}

// Run executes a unit through a hardened boundary: panics from arbitrary
// implementations are recovered into failed outputs and the success/error
// invariant is enforced on whatever comes back. The orchestrator calls
// every child through Run, so a run always yields a well-formed output.
func Run(ctx context.Context, u TaskUnit, input models.TaskInput) (out models.TaskOutput) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out = models.Failed(fmt.Sprintf("unit panicked: %v", r), elapsedMs(start))
		}
	}()

	return u.Execute(ctx, input).Normalize()
}

// elapsedMs returns milliseconds since start as a float.
func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}
