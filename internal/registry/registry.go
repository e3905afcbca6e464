// Package registry maps taxonomy identifiers to executable TaskUnits.
// A registry is populated single-threaded during bootstrap, then shared
// read-only across concurrent orchestration runs.
package registry

import (
	"sort"
	"sync"

	"github.com/procmesh/procmesh/internal/unit"
	"github.com/procmesh/procmesh/pkg/models"
	"github.com/procmesh/procmesh/pkg/taxonomy"
)

// CapabilityRegistry provides thread-safe storage and lookup of TaskUnits
// keyed by taxonomy identifier. Registration is strict: binding an
// identifier twice is an error, never a silent overwrite.
type CapabilityRegistry struct {
	// units maps taxonomy identifiers to registered units.
	units map[taxonomy.ID]unit.TaskUnit
	// descriptors caches each unit's capability declaration, captured
	// once at registration.
	descriptors map[taxonomy.ID]models.CapabilityDescriptor
	// mu protects all fields.
	mu sync.RWMutex
}

// New creates an empty CapabilityRegistry.
func New() *CapabilityRegistry {
	return &CapabilityRegistry{
		units:       make(map[taxonomy.ID]unit.TaskUnit),
		descriptors: make(map[taxonomy.ID]models.CapabilityDescriptor),
	}
}

// Register binds id to u. It returns a DuplicateRegistrationError if the
// identifier is already bound and an error if it is malformed.
func (r *CapabilityRegistry) Register(id taxonomy.ID, u unit.TaskUnit) error {
	if _, err := taxonomy.Parse(id.String()); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.units[id]; exists {
		return &DuplicateRegistrationError{ID: id}
	}
	r.units[id] = u
	r.descriptors[id] = u.DeclareCapability()
	return nil
}

// Lookup returns the unit bound to id, or a NotFoundError.
func (r *CapabilityRegistry) Lookup(id taxonomy.ID) (unit.TaskUnit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.units[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return u, nil
}

// Describe returns the capability descriptor declared by the unit bound
// to id, or a NotFoundError.
func (r *CapabilityRegistry) Describe(id taxonomy.ID) (models.CapabilityDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.descriptors[id]
	if !ok {
		return models.CapabilityDescriptor{}, &NotFoundError{ID: id}
	}
	return d, nil
}

// LookupByTag returns every unit whose descriptor matches tag, either as
// its business domain or as a supported protocol. Used by discovery
// collaborators; the orchestrator itself resolves by identifier only.
func (r *CapabilityRegistry) LookupByTag(tag string) []unit.TaskUnit {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []unit.TaskUnit
	for _, id := range r.sortedIDs() {
		d := r.descriptors[id]
		if d.Domain == tag || d.SupportsProtocol(tag) {
			matches = append(matches, r.units[id])
		}
	}
	return matches
}

// IDs returns all registered identifiers in sorted order.
func (r *CapabilityRegistry) IDs() []taxonomy.ID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedIDs()
}

// sortedIDs returns registered identifiers in taxonomy order
// (segment-wise numeric, so "9.2" lists before "10").
// Callers must hold at least a read lock.
func (r *CapabilityRegistry) sortedIDs() []taxonomy.ID {
	ids := make([]taxonomy.ID, 0, len(r.units))
	for id := range r.units {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return taxonomy.Compare(ids[i], ids[j]) < 0 })
	return ids
}

// Count returns the number of registered units.
func (r *CapabilityRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.units)
}
