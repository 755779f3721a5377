package graph

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for graph operations.
var (
	ErrDanglingEdge     = errors.New("edge references a missing node")
	ErrCyclicGraph      = errors.New("graph contains a cycle")
	ErrUnrecognizedType = errors.New("unrecognized type label")
	ErrInvalidDocument  = errors.New("invalid graph document")
)

// DanglingEdgeError reports an edge whose target is absent from the node set.
type DanglingEdgeError struct {
	Source string
	Target string
	Type   EdgeType
}

// Error implements the error interface.
func (e *DanglingEdgeError) Error() string {
	return fmt.Sprintf("edge %s -> %s (%s): target %q not found", e.Source, e.Target, e.Type, e.Target)
}

// Unwrap returns the sentinel error.
func (e *DanglingEdgeError) Unwrap() error {
	return ErrDanglingEdge
}

// CyclicGraphError reports a cycle met while walking a tree. Path starts at
// the tree root and ends with the node that closed the cycle.
type CyclicGraphError struct {
	Path []string
}

// Error implements the error interface.
func (e *CyclicGraphError) Error() string {
	return fmt.Sprintf("cycle detected: %s", strings.Join(e.Path, " -> "))
}

// Unwrap returns the sentinel error.
func (e *CyclicGraphError) Unwrap() error {
	return ErrCyclicGraph
}

// UnrecognizedTypeError reports a node or edge label outside the vocabulary.
type UnrecognizedTypeError struct {
	Kind  string // "node" or "edge"
	Label string
	Index int // position in the document, -1 when not applicable
}

// Error implements the error interface.
func (e *UnrecognizedTypeError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s %d: unrecognized %s type %q", e.Kind, e.Index, e.Kind, e.Label)
	}
	return fmt.Sprintf("unrecognized %s type %q", e.Kind, e.Label)
}

// Unwrap returns the sentinel error.
func (e *UnrecognizedTypeError) Unwrap() error {
	return ErrUnrecognizedType
}

// DocumentError reports a structurally invalid entry in a graph document.
type DocumentError struct {
	Path   string
	Reason string
}

// Error implements the error interface.
func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// Unwrap returns the sentinel error.
func (e *DocumentError) Unwrap() error {
	return ErrInvalidDocument
}
