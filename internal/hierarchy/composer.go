package hierarchy

import (
	"fmt"

	"github.com/procmesh/procmesh/internal/orchestrator"
	"github.com/procmesh/procmesh/pkg/taxonomy"
)

// Compose builds a CompositeNode for every definition and registers it in
// the orchestrator's registry under its identifier. Because composites
// implement the same TaskUnit contract as leaves, a Level-1 definition
// whose children are Level-2 definitions yields a tree that executes
// recursively to the Level-5 leaves with no special casing.
//
// Leaves referenced by the definitions must be registered separately;
// Compose does not require them to exist yet, since children are resolved
// at run time.
func Compose(defs []Definition, orch *orchestrator.Orchestrator) error {
	if err := Validate(defs); err != nil {
		return err
	}

	for _, def := range defs {
		id := taxonomy.ID(def.ID)
		children := make([]taxonomy.ID, len(def.Children))
		for i, c := range def.Children {
			children[i] = taxonomy.ID(c)
		}

		node, err := orchestrator.NewNode(id, def.Name, id.Level(), children)
		if err != nil {
			return fmt.Errorf("compose %q: %w", id, err)
		}
		if err := orch.Registry().Register(id, orchestrator.NewComposite(node, orch)); err != nil {
			return fmt.Errorf("compose %q: %w", id, err)
		}
	}
	return nil
}
