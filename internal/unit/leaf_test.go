package unit

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/procmesh/procmesh/pkg/models"
)

func testDescriptor(id string) models.CapabilityDescriptor {
	return models.CapabilityDescriptor{
		CapabilityID:    id,
		Name:            "test unit " + id,
		Proficiency:     models.ProficiencyCompetent,
		ConfidenceScore: 0.9,
		Domain:          "testing",
	}
}

func TestLeaf_Execute_Success(t *testing.T) {
	leaf := NewLeaf(testDescriptor("9.2.1.1"), nil, func(ctx context.Context, data map[string]any) (map[string]any, error) {
		return map[string]any{"invoice_count": 5}, nil
	})

	out := leaf.Execute(context.Background(), models.TaskInput{TaskID: "9.2.1.1"})

	if !out.Success {
		t.Fatalf("expected success, got error %q", out.ErrorMessage)
	}
	if out.Data["invoice_count"] != 5 {
		t.Errorf("invoice_count = %v, want 5", out.Data["invoice_count"])
	}
	if out.ExecutionTimeMs < 0 {
		t.Errorf("ExecutionTimeMs = %v, want >= 0", out.ExecutionTimeMs)
	}
}

func TestLeaf_Execute_ValidationFailureSkipsDomainLogic(t *testing.T) {
	ran := false
	leaf := NewLeaf(testDescriptor("9.2.1.2"), []string{"invoice_count"}, func(ctx context.Context, data map[string]any) (map[string]any, error) {
		ran = true
		return nil, nil
	})

	out := leaf.Execute(context.Background(), models.TaskInput{TaskID: "9.2.1.2"})

	if out.Success {
		t.Fatal("expected validation failure")
	}
	if !strings.Contains(out.ErrorMessage, "invoice_count") {
		t.Errorf("error should name the missing field, got %q", out.ErrorMessage)
	}
	if ran {
		t.Error("domain logic must not run when validation fails")
	}
}

func TestLeaf_Execute_DomainErrorBecomesFailedOutput(t *testing.T) {
	leaf := NewLeaf(testDescriptor("1.1"), nil, func(ctx context.Context, data map[string]any) (map[string]any, error) {
		return nil, errors.New("ledger unavailable")
	})

	out := leaf.Execute(context.Background(), models.TaskInput{TaskID: "1.1"})

	if out.Success {
		t.Fatal("expected failure")
	}
	if !strings.Contains(out.ErrorMessage, "ledger unavailable") {
		t.Errorf("error message should carry the domain error, got %q", out.ErrorMessage)
	}
}

func TestLeaf_Execute_PanicDoesNotEscape(t *testing.T) {
	leaf := NewLeaf(testDescriptor("1.2"), nil, func(ctx context.Context, data map[string]any) (map[string]any, error) {
		panic("arithmetic exploded")
	})

	out := leaf.Execute(context.Background(), models.TaskInput{TaskID: "1.2"})

	if out.Success {
		t.Fatal("expected failure from panicking unit")
	}
	if out.ErrorMessage == "" {
		t.Error("failed output must carry a non-empty error message")
	}
	if !strings.Contains(out.ErrorMessage, "arithmetic exploded") {
		t.Errorf("error message should carry the panic value, got %q", out.ErrorMessage)
	}
}

func TestLeaf_Execute_DoesNotMutateCallerData(t *testing.T) {
	leaf := NewLeaf(testDescriptor("1.3"), nil, func(ctx context.Context, data map[string]any) (map[string]any, error) {
		data["injected"] = true
		return data, nil
	})

	input := models.TaskInput{TaskID: "1.3", Data: map[string]any{"x": 1}}
	leaf.Execute(context.Background(), input)

	if _, ok := input.Data["injected"]; ok {
		t.Error("business function mutated the caller's input data")
	}
}

func TestRun_RecoversPanickingImplementation(t *testing.T) {
	out := Run(context.Background(), panicUnit{}, models.TaskInput{TaskID: "x"})

	if out.Success {
		t.Fatal("expected failure")
	}
	if out.ErrorMessage == "" {
		t.Error("recovered output must carry an error message")
	}
}

func TestRun_NormalizesInvariantViolations(t *testing.T) {
	out := Run(context.Background(), sloppyUnit{}, models.TaskInput{TaskID: "x"})

	if out.Success {
		t.Fatal("a failure without a message must stay a failure")
	}
	if out.ErrorMessage == "" {
		t.Error("Run must supply a message for message-less failures")
	}
}

// panicUnit panics straight from Execute, bypassing the Leaf safety net.
type panicUnit struct{}

func (panicUnit) Validate(models.TaskInput) error { return nil }
func (panicUnit) Execute(context.Context, models.TaskInput) models.TaskOutput {
	panic("rogue implementation")
}
func (panicUnit) DeclareCapability() models.CapabilityDescriptor {
	return testDescriptor("panic")
}

// sloppyUnit returns a failure with no error message.
type sloppyUnit struct{}

func (sloppyUnit) Validate(models.TaskInput) error { return nil }
func (sloppyUnit) Execute(context.Context, models.TaskInput) models.TaskOutput {
	return models.TaskOutput{Success: false}
}
func (sloppyUnit) DeclareCapability() models.CapabilityDescriptor {
	return testDescriptor("sloppy")
}
