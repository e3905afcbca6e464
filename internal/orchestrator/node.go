// Package orchestrator executes composite taxonomy nodes: it resolves
// each child through the capability registry, runs the children strictly
// in declared order with a shared pipeline context, and aggregates the
// per-child outcomes into a summary. Child failures are data, never
// control flow; a run always returns a well-formed result.
package orchestrator

import (
	"fmt"

	"github.com/procmesh/procmesh/pkg/models"
	"github.com/procmesh/procmesh/pkg/taxonomy"
)

// CompositeNode describes one node of the process tree: its identifier,
// its taxonomy level, and the ordered identifiers of its children.
// Child order is semantically significant: it fixes both the execution
// sequence and the overwrite tie-break when merging child outputs.
type CompositeNode struct {
	// ID is the node's taxonomy identifier.
	ID taxonomy.ID
	// Name is the human-readable process name.
	Name string
	// Level is the taxonomy level (1 = Category ... 5 = Task).
	Level int
	// Children are the taxonomy identifiers of the node's children,
	// in execution order.
	Children []taxonomy.ID
	// Pattern is the child scheduling pattern. Only SEQUENTIAL is
	// supported.
	Pattern models.OrchestrationPattern
}

// NewNode builds a validated CompositeNode. Malformed definitions are
// programmer errors and are reported eagerly, unlike child failures at
// run time.
func NewNode(id taxonomy.ID, name string, level int, children []taxonomy.ID) (CompositeNode, error) {
	node := CompositeNode{
		ID:       id,
		Name:     name,
		Level:    level,
		Children: children,
		Pattern:  models.PatternSequential,
	}
	if err := node.Validate(); err != nil {
		return CompositeNode{}, err
	}
	return node, nil
}

// Validate checks the node definition for structural errors.
func (n CompositeNode) Validate() error {
	if _, err := taxonomy.Parse(n.ID.String()); err != nil {
		return fmt.Errorf("node %q: %w", n.ID, err)
	}
	if n.Level < 1 || n.Level > taxonomy.MaxLevel {
		return fmt.Errorf("node %q: level %d out of range [1,%d]", n.ID, n.Level, taxonomy.MaxLevel)
	}
	if n.Pattern != "" && !n.Pattern.Valid() {
		return fmt.Errorf("node %q: unsupported orchestration pattern %q", n.ID, n.Pattern)
	}
	seen := make(map[taxonomy.ID]struct{}, len(n.Children))
	for _, child := range n.Children {
		if _, err := taxonomy.Parse(child.String()); err != nil {
			return fmt.Errorf("node %q: child %w", n.ID, err)
		}
		if _, dup := seen[child]; dup {
			return fmt.Errorf("node %q: duplicate child %q", n.ID, child)
		}
		seen[child] = struct{}{}
	}
	return nil
}
