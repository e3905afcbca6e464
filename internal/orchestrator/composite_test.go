package orchestrator

import (
	"context"
	"strings"
	"testing"

	"github.com/procmesh/procmesh/internal/registry"
	"github.com/procmesh/procmesh/internal/unit"
	"github.com/procmesh/procmesh/pkg/models"
)

// Builds a three-level tree (1 -> 1.1 -> leaves) and runs the root,
// exercising composite recursion through the shared TaskUnit contract.
func TestComposite_NestedExecution(t *testing.T) {
	r := registry.New()
	o := New(r, Options{})

	mustRegister(t, r, "1.1.1", emitLeaf("1.1.1", map[string]any{"step1": true}))
	mustRegister(t, r, "1.1.2", emitLeaf("1.1.2", map[string]any{"step2": true}))

	inner := mustNode(t, "1.1", 2, "1.1.1", "1.1.2")
	mustRegister(t, r, "1.1", NewComposite(inner, o))

	root := mustNode(t, "1", 1, "1.1")
	result, err := o.Run(context.Background(), root, models.TaskInput{TaskID: "1"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !result.Success {
		t.Fatalf("nested run should succeed, child error: %v", result.ChildResults)
	}
	if result.FinalData["step1"] != true || result.FinalData["step2"] != true {
		t.Errorf("leaf outputs should bubble up through the composite, finalData = %v", result.FinalData)
	}
}

func TestComposite_PartialFailureBubblesUp(t *testing.T) {
	r := registry.New()
	o := New(r, Options{})

	mustRegister(t, r, "2.1.1", emitLeaf("2.1.1", map[string]any{"ok": true}))
	mustRegister(t, r, "2.1.2", failLeaf("2.1.2", "inner failure"))

	inner := mustNode(t, "2.1", 2, "2.1.1", "2.1.2")
	comp := NewComposite(inner, o)

	out := comp.Execute(context.Background(), models.TaskInput{TaskID: "2.1"})

	if out.Success {
		t.Fatal("composite with a failed child must fail")
	}
	if !strings.Contains(out.ErrorMessage, "1 of 2 children failed") {
		t.Errorf("error = %q, want a children-failed count", out.ErrorMessage)
	}
	// Successful children still contribute to the composite's output.
	if out.Data["ok"] != true {
		t.Errorf("composite output data = %v, want contribution from successful child", out.Data)
	}
	if out.Metadata["failed"] != 1 {
		t.Errorf("metadata[failed] = %v, want 1", out.Metadata["failed"])
	}
}

func TestComposite_DeclareCapability(t *testing.T) {
	node := CompositeNode{ID: "3.1", Name: "Manage accounts payable", Level: 2, Pattern: models.PatternSequential}
	comp := NewComposite(node, New(registry.New(), Options{}))

	d := comp.DeclareCapability()
	if d.CapabilityID != "3.1" {
		t.Errorf("CapabilityID = %q, want 3.1", d.CapabilityID)
	}
	if d.Name != "Manage accounts payable" {
		t.Errorf("Name = %q", d.Name)
	}
	if !d.SupportsProtocol("pipeline") {
		t.Error("composites speak the pipeline protocol")
	}
}

func TestComposite_ValidateAcceptsAnyInput(t *testing.T) {
	comp := NewComposite(CompositeNode{ID: "4", Level: 1}, New(registry.New(), Options{}))

	if err := comp.Validate(models.TaskInput{}); err != nil {
		t.Errorf("composite Validate should accept any input, got %v", err)
	}
}

var _ unit.TaskUnit = (*Composite)(nil)
