package orchestrator

import (
	"context"
	"fmt"

	"github.com/procmesh/procmesh/pkg/models"
)

// Composite binds a CompositeNode to an Orchestrator and implements the
// same TaskUnit contract as a leaf. Registering composites alongside
// leaves is what lets a Level-1 node transparently drive a four-deep
// tree: a parent resolves a child identifier and executes it without
// knowing whether a whole sub-tree sits behind it.
type Composite struct {
	node CompositeNode
	orch *Orchestrator
}

// NewComposite creates a composite unit for node, executed through orch.
func NewComposite(node CompositeNode, orch *Orchestrator) *Composite {
	return &Composite{node: node, orch: orch}
}

// Node returns the underlying node definition.
func (c *Composite) Node() CompositeNode {
	return c.node
}

// Validate accepts any input: a composite has no schema of its own, its
// children validate their own slices of the shared context.
func (c *Composite) Validate(input models.TaskInput) error {
	return nil
}

// Execute runs the node and folds the composite result into a TaskOutput
// so parent composites need no special casing. The final shared context
// becomes the output data; the summary travels in the metadata.
func (c *Composite) Execute(ctx context.Context, input models.TaskInput) models.TaskOutput {
	result, err := c.orch.Run(ctx, c.node, input)
	if err != nil {
		return models.Failed(err.Error(), 0)
	}

	out := models.TaskOutput{
		Success:         result.Success,
		Data:            result.FinalData,
		ExecutionTimeMs: result.Summary.ExecutionTimeMs,
		Metadata: map[string]any{
			"apqc_id":        result.APQCID,
			"level":          result.Level,
			"total_children": result.Summary.TotalChildren,
			"successful":     result.Summary.Successful,
			"failed":         result.Summary.Failed,
		},
	}
	if !result.Success {
		out.ErrorMessage = fmt.Sprintf("%d of %d children failed",
			result.Summary.Failed, result.Summary.TotalChildren)
	}
	return out
}

// DeclareCapability describes the composite from its node definition.
func (c *Composite) DeclareCapability() models.CapabilityDescriptor {
	return models.CapabilityDescriptor{
		CapabilityID:       c.node.ID.String(),
		Name:               c.node.Name,
		Proficiency:        models.ProficiencyCompetent,
		ConfidenceScore:    1.0,
		Domain:             "orchestration",
		ProtocolsSupported: []string{"pipeline"},
	}
}
