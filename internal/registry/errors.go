package registry

import (
	"fmt"

	"github.com/procmesh/procmesh/pkg/taxonomy"
)

// NotFoundError indicates no unit is bound to the requested identifier.
// At orchestration time the miss degrades a single child to failure and
// never aborts its siblings.
type NotFoundError struct {
	// ID is the identifier that missed.
	ID taxonomy.ID
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no unit registered for %q", e.ID)
}

// DuplicateRegistrationError indicates an identifier was registered twice.
// Raised only during single-threaded bootstrap, where it is fatal.
type DuplicateRegistrationError struct {
	// ID is the identifier that was already bound.
	ID taxonomy.ID
}

// Error implements the error interface.
func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("unit already registered for %q", e.ID)
}
