package unit

import (
	"context"
	"fmt"
	"time"

	"github.com/procmesh/procmesh/pkg/models"
)

// BusinessFunc is the domain logic of a leaf agent: it receives the
// pipeline context and returns the data the agent contributes to it.
// Errors and panics are absorbed by the surrounding Leaf.
type BusinessFunc func(ctx context.Context, data map[string]any) (map[string]any, error)

// Leaf adapts a plain business function into a TaskUnit. It owns input
// validation against the declared required fields, timing, and the
// conversion of domain errors and panics into failed outputs.
type Leaf struct {
	descriptor models.CapabilityDescriptor
	// required lists the input data fields the function needs.
	required []string
	fn       BusinessFunc
}

// NewLeaf creates a leaf unit from a capability descriptor, the input
// fields it requires, and its business function.
func NewLeaf(descriptor models.CapabilityDescriptor, required []string, fn BusinessFunc) *Leaf {
	return &Leaf{descriptor: descriptor, required: required, fn: fn}
}

// Validate checks that every required field is present in the input data.
func (l *Leaf) Validate(input models.TaskInput) error {
	for _, field := range l.required {
		if _, ok := input.Data[field]; !ok {
			return NewValidationError(field, "required field is missing")
		}
	}
	return nil
}

// Execute validates the input, then runs the business function with
// panic recovery. No error or panic crosses this boundary; every outcome
// is a well-formed TaskOutput.
func (l *Leaf) Execute(ctx context.Context, input models.TaskInput) models.TaskOutput {
	start := time.Now()

	if err := l.Validate(input); err != nil {
		return models.Failed(err.Error(), elapsedMs(start))
	}

	data, err := l.run(ctx, input)
	if err != nil {
		execErr := &ExecutionError{Unit: l.descriptor.CapabilityID, Err: err}
		return models.Failed(execErr.Error(), elapsedMs(start))
	}
	return models.Succeeded(data, elapsedMs(start))
}

// run invokes the business function, converting panics to errors.
func (l *Leaf) run(ctx context.Context, input models.TaskInput) (data map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in business logic: %v", r)
		}
	}()

	// Hand the function a copy so domain code can never alias the
	// caller's context map.
	return l.fn(ctx, input.CloneData())
}

// DeclareCapability returns the descriptor declared at construction.
func (l *Leaf) DeclareCapability() models.CapabilityDescriptor {
	return l.descriptor
}
