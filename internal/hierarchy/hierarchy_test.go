package hierarchy

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/procmesh/procmesh/internal/orchestrator"
	"github.com/procmesh/procmesh/internal/registry"
	"github.com/procmesh/procmesh/internal/unit"
	"github.com/procmesh/procmesh/pkg/models"
)

const sampleDefinitions = `
nodes:
  - id: "9"
    name: "Manage financial resources"
    children: ["9.2"]
  - id: "9.2"
    name: "Invoice and service billing"
    children: ["9.2.1.1", "9.2.1.2"]
`

func TestParse(t *testing.T) {
	defs, err := Parse([]byte(sampleDefinitions))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("got %d definitions, want 2", len(defs))
	}
	if defs[1].ID != "9.2" || len(defs[1].Children) != 2 {
		t.Errorf("unexpected second definition: %+v", defs[1])
	}
}

func TestParse_RejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"malformed id", `nodes: [{id: "x.y", name: n}]`},
		{"duplicate node", `nodes: [{id: "9"}, {id: "9"}]`},
		{"self child", `nodes: [{id: "9", children: ["9"]}]`},
		{"duplicate child", `nodes: [{id: "9", children: ["9.1", "9.1"]}]`},
		{"cycle", `nodes: [{id: "1", children: ["2"]}, {id: "2", children: ["1"]}]`},
		{"not yaml", `{{{{`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.yaml)); err == nil {
				t.Error("Parse should have failed")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tree.yaml")
	if err := os.WriteFile(path, []byte(sampleDefinitions), 0644); err != nil {
		t.Fatal(err)
	}

	defs, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(defs) != 2 {
		t.Errorf("got %d definitions, want 2", len(defs))
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load of a missing file should fail")
	}
}

func TestCompose_EndToEnd(t *testing.T) {
	defs, err := Parse([]byte(sampleDefinitions))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	reg := registry.New()
	orch := orchestrator.New(reg, orchestrator.Options{})

	leaf := func(id string, data map[string]any) *unit.Leaf {
		return unit.NewLeaf(models.CapabilityDescriptor{CapabilityID: id, Name: id, Domain: "billing"}, nil,
			func(ctx context.Context, in map[string]any) (map[string]any, error) {
				return data, nil
			})
	}
	if err := reg.Register("9.2.1.1", leaf("9.2.1.1", map[string]any{"invoice_count": 5})); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register("9.2.1.2", leaf("9.2.1.2", map[string]any{"total_amount": 600.0})); err != nil {
		t.Fatal(err)
	}

	if err := Compose(defs, orch); err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if reg.Count() != 4 {
		t.Errorf("registry holds %d units, want 4 (two leaves, two composites)", reg.Count())
	}

	// Executing the Level-1 composite recurses through 9.2 to the leaves.
	root, err := reg.Lookup("9")
	if err != nil {
		t.Fatalf("Lookup(9) failed: %v", err)
	}
	out := root.Execute(context.Background(), models.TaskInput{TaskID: "9"})
	if !out.Success {
		t.Fatalf("root execution failed: %s", out.ErrorMessage)
	}
	if out.Data["invoice_count"] != 5 || out.Data["total_amount"] != 600.0 {
		t.Errorf("leaf outputs should reach the root, got %v", out.Data)
	}
}

func TestCompose_DuplicateRegistration(t *testing.T) {
	reg := registry.New()
	orch := orchestrator.New(reg, orchestrator.Options{})

	defs := []Definition{{ID: "9", Name: "n"}}
	if err := Compose(defs, orch); err != nil {
		t.Fatalf("first Compose failed: %v", err)
	}
	if err := Compose(defs, orch); err == nil {
		t.Error("composing the same definitions twice should fail on duplicate registration")
	}
}

func TestWatcher_RevalidatesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tree.yaml")
	if err := os.WriteFile(path, []byte(sampleDefinitions), 0644); err != nil {
		t.Fatal(err)
	}

	results := make(chan error, 16)
	w, err := NewWatcher(path, func(p string, err error) {
		results <- err
	})
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()
	go w.Run()

	// A valid edit reports no error. Editors and filesystems may emit
	// more than one event per save, so take the first result only.
	if err := os.WriteFile(path, []byte(sampleDefinitions), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case err := <-results:
		if err != nil {
			t.Errorf("valid definitions reported error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watcher result")
	}

	// A broken edit eventually reports the validation error, possibly
	// after trailing nil results from the earlier save.
	if err := os.WriteFile(path, []byte(`nodes: [{id: "9", children: ["9"]}]`), 0644); err != nil {
		t.Fatal(err)
	}
	deadline := time.After(5 * time.Second)
	for {
		select {
		case err := <-results:
			if err == nil {
				continue
			}
			if !strings.Contains(err.Error(), "itself") {
				t.Errorf("unexpected error: %v", err)
			}
			return
		case <-deadline:
			t.Fatal("timed out waiting for validation error")
		}
	}
}
