// Package taxonomy provides parsing and validation for the five-level
// business-process taxonomy identifiers (Category -> Process Group ->
// Process -> Activity -> Task), e.g. "9.2.1.1".
package taxonomy

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxLevel is the deepest taxonomy level (Task).
const MaxLevel = 5

// idPattern matches a dot-separated identifier of 1 to 5 numeric segments.
var idPattern = regexp.MustCompile(`^\d+(\.\d+){0,4}$`)

// ID is a taxonomy identifier. It doubles as the registry key and as the
// parent/child relation key: "9.2" is the parent of "9.2.1".
type ID string

// Parse validates raw and returns it as an ID.
func Parse(raw string) (ID, error) {
	if raw == "" {
		return "", fmt.Errorf("taxonomy id is empty")
	}
	if !idPattern.MatchString(raw) {
		return "", fmt.Errorf("invalid taxonomy id %q: want 1-5 dot-separated numeric segments", raw)
	}
	return ID(raw), nil
}

// MustParse parses raw and panics on failure. Intended for static
// definitions and tests.
func MustParse(raw string) ID {
	id, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return id
}

// Valid returns true if the identifier is well-formed.
func (id ID) Valid() bool {
	return idPattern.MatchString(string(id))
}

// String returns the identifier as a plain string.
func (id ID) String() string {
	return string(id)
}

// Level returns the taxonomy level (1-5), i.e. the segment count.
// Returns 0 for a malformed identifier.
func (id ID) Level() int {
	if !id.Valid() {
		return 0
	}
	return strings.Count(string(id), ".") + 1
}

// Parent returns the identifier one level up, or "" for a Level-1 node.
func (id ID) Parent() ID {
	i := strings.LastIndex(string(id), ".")
	if i < 0 {
		return ""
	}
	return id[:i]
}

// IsAncestorOf returns true if other sits strictly below id in the tree.
func (id ID) IsAncestorOf(other ID) bool {
	return id != other && strings.HasPrefix(string(other), string(id)+".")
}

// Segments returns the numeric segments of the identifier.
func (id ID) Segments() []string {
	return strings.Split(string(id), ".")
}

// Compare orders identifiers by segment-wise numeric comparison, so
// "9.2" sorts before "10" and a parent sorts before its children.
// It returns -1, 0, or 1.
func Compare(a, b ID) int {
	as, bs := a.Segments(), b.Segments()
	for i := 0; i < len(as) && i < len(bs); i++ {
		if c := compareSegment(as[i], bs[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	default:
		return 0
	}
}

// compareSegment compares two digit strings numerically. Leading zeros
// are stripped first, then a shorter digit string is the smaller number
// and equal lengths fall back to byte order.
func compareSegment(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
