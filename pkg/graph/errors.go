package graph

import (
	"errors"
	"fmt"
)

// Sentinel errors for graph integrity checks.
var (
	// ErrInvalidNodeID is returned by [Graph.Validate] when a node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.Validate] when two nodes
	// share an ID. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")
)

// UnknownNodeError reports a wire endpoint that names a node not present in
// the graph.
type UnknownNodeError struct {
	NodeID string
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("wire references unknown node %q", e.NodeID)
}

// UnknownKindError reports a node whose kind tag is not in the registry.
type UnknownKindError struct {
	NodeID string
	Kind   string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("node %q has unknown kind %q", e.NodeID, e.Kind)
}

// CycleError reports a directed cycle reachable from an output node.
// Construction aborts immediately: no expression is produced for any output
// when the graph contains a reachable cycle.
type CycleError struct {
	NodeID string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("graph contains a cycle through node %q", e.NodeID)
}

// MissingInputError reports a required input pin with nothing wired to it.
type MissingInputError struct {
	NodeID string
	Slot   string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("node %q has no input wired to %q", e.NodeID, e.Slot)
}

// InsufficientControlPointsError reports a combinator with fewer ordered
// control points than it needs.
type InsufficientControlPointsError struct {
	NodeID   string
	Required int
	Found    int
}

func (e *InsufficientControlPointsError) Error() string {
	return fmt.Sprintf("node %q needs at least %d control points, found %d", e.NodeID, e.Required, e.Found)
}

// TypeMismatchError reports a wire whose producer value kind is incompatible
// with the consumer pin: a scalar into an expression pin, an expression into
// a scalar pin, the wrong scalar kind, or a slot the node kind does not
// declare.
type TypeMismatchError struct {
	NodeID string
	Slot   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("node %q: incompatible value wired to %q", e.NodeID, e.Slot)
}

// InvalidOptionError reports an enum-valued node field set to a value the
// node kind does not define, such as a fractal source of "Garbage". Options
// are validated during Build so a bad graph fails before compilation.
type InvalidOptionError struct {
	NodeID string
	Option string
	Value  string
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("node %q: unknown %s option %q", e.NodeID, e.Option, e.Value)
}

// IsBuildError reports whether err (anywhere in its chain) is one of the
// structured errors Build produces for a malformed graph, as opposed to an
// I/O or serialization failure.
func IsBuildError(err error) bool {
	var (
		unknownNode *UnknownNodeError
		unknownKind *UnknownKindError
		cycle       *CycleError
		missing     *MissingInputError
		points      *InsufficientControlPointsError
		mismatch    *TypeMismatchError
		option      *InvalidOptionError
	)
	return errors.As(err, &unknownNode) ||
		errors.As(err, &unknownKind) ||
		errors.As(err, &cycle) ||
		errors.As(err, &missing) ||
		errors.As(err, &points) ||
		errors.As(err, &mismatch) ||
		errors.As(err, &option) ||
		errors.Is(err, ErrInvalidNodeID) ||
		errors.Is(err, ErrDuplicateNodeID)
}
