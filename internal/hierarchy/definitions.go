// Package hierarchy loads process-tree definitions and composes them into
// registered composite nodes. A definitions file declares each composite's
// identifier, name, and ordered children; leaves are registered separately
// by their own packages, so a child identifier with no definition of its
// own is assumed to be a leaf.
package hierarchy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/procmesh/procmesh/pkg/taxonomy"
)

// Definition is one composite node as declared in the definitions file.
type Definition struct {
	// ID is the node's taxonomy identifier.
	ID string `yaml:"id"`
	// Name is the human-readable process name.
	Name string `yaml:"name"`
	// Children are the node's child identifiers, in execution order.
	Children []string `yaml:"children"`
}

// File is the top-level shape of a definitions YAML file.
type File struct {
	Nodes []Definition `yaml:"nodes"`
}

// Load reads and parses a definitions file, then validates it.
func Load(path string) ([]Definition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definitions: %w", err)
	}
	return Parse(raw)
}

// Parse parses definitions from YAML and validates them.
func Parse(raw []byte) ([]Definition, error) {
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse definitions: %w", err)
	}
	if err := Validate(f.Nodes); err != nil {
		return nil, err
	}
	return f.Nodes, nil
}

// Validate checks definitions for structural errors: malformed or
// duplicate identifiers, duplicate children, self-references, and cycles
// among the defined composites.
func Validate(defs []Definition) error {
	byID := make(map[taxonomy.ID][]taxonomy.ID, len(defs))

	for _, def := range defs {
		id, err := taxonomy.Parse(def.ID)
		if err != nil {
			return err
		}
		if _, dup := byID[id]; dup {
			return fmt.Errorf("duplicate node definition %q", id)
		}

		seen := make(map[taxonomy.ID]struct{}, len(def.Children))
		children := make([]taxonomy.ID, 0, len(def.Children))
		for _, rawChild := range def.Children {
			child, err := taxonomy.Parse(rawChild)
			if err != nil {
				return fmt.Errorf("node %q: %w", id, err)
			}
			if child == id {
				return fmt.Errorf("node %q lists itself as a child", id)
			}
			if _, dup := seen[child]; dup {
				return fmt.Errorf("node %q: duplicate child %q", id, child)
			}
			seen[child] = struct{}{}
			children = append(children, child)
		}
		byID[id] = children
	}

	return detectCycles(byID)
}

// detectCycles walks the defined composite edges depth-first and reports
// the first cycle found. Edges to undefined identifiers (leaves) are
// terminal and cannot participate in a cycle.
func detectCycles(edges map[taxonomy.ID][]taxonomy.ID) error {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[taxonomy.ID]int, len(edges))

	var visit func(id taxonomy.ID) error
	visit = func(id taxonomy.ID) error {
		switch state[id] {
		case visiting:
			return fmt.Errorf("cycle detected through node %q", id)
		case done:
			return nil
		}
		state[id] = visiting
		for _, child := range edges[id] {
			if _, defined := edges[child]; !defined {
				continue
			}
			if err := visit(child); err != nil {
				return err
			}
		}
		state[id] = done
		return nil
	}

	for id := range edges {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}
