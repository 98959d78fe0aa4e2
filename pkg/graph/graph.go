// Package graph models the editor's node graph - nodes with typed input
// pins connected by wires - and lowers it into expression trees (pkg/expr).
//
// The graph is a read-only input: building expressions never mutates it.
// Wires carry either sub-expressions (from generator/combinator nodes) or
// scalar values (from Float/Int constant nodes); the slot schemas in
// schema.go declare which pins accept which, and the builder rejects
// mismatches with structured errors instead of crashing.
package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/google/uuid"
)

// Node kinds that are not expression variants.
const (
	// KindFloat is a named float constant; wiring it into a scalar pin
	// yields a named, patchable parameter.
	KindFloat = "Float"
	// KindInt is a named unsigned-integer constant (seeds, octaves).
	KindInt = "Int"
	// KindOutput designates a sink whose input becomes one named tree in
	// the built document.
	KindOutput = "Output"
)

// Graph is the canonical serialization format for a node graph.
// The format is human-readable and round-trips losslessly.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Wires []Wire `json:"wires"`
}

// Node is one node of the editor graph: a kind tag plus its field values.
// Which fields are meaningful depends on the kind; see the slot schemas.
type Node struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`

	// Name labels Float/Int constants (the patch name their value gets)
	// and Output nodes (the document output name).
	Name string `json:"name,omitempty"`

	// Value / IntValue hold a constant node's payload.
	Value    float64 `json:"value,omitempty"`
	IntValue uint32  `json:"int_value,omitempty"`

	// Floats / Ints hold inline anonymous scalar fields keyed by slot
	// name, used when a pin is not wired to a constant node.
	Floats map[string]float64 `json:"floats,omitempty"`
	Ints   map[string]uint32  `json:"ints,omitempty"`

	// Options holds enum-valued fields: "source" (fractal generator),
	// "distance" and "return" (Worley), "noise" (turbulence).
	Options map[string]string `json:"options,omitempty"`

	// Points are a Curve node's (input, output) control points.
	Points [][2]float64 `json:"points,omitempty"`

	// Levels are a Terrace node's control points.
	Levels []float64 `json:"levels,omitempty"`

	// Inverted flips a Terrace node's step curvature.
	Inverted bool `json:"inverted,omitempty"`

	// Dimensions records which dimensionality a generator targets
	// (0 = any).
	Dimensions int `json:"dimensions,omitempty"`
}

// Wire is a directed connection from a producer node's output to one named
// input slot of a consumer node.
type Wire struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Input string `json:"input"`
}

// NewID mints a fresh node identifier.
func NewID() string { return uuid.NewString() }

// AddNode appends a node, minting an ID if the node has none, and returns
// the node's ID.
func (g *Graph) AddNode(n Node) string {
	if n.ID == "" {
		n.ID = NewID()
	}
	g.Nodes = append(g.Nodes, n)
	return n.ID
}

// Connect appends a wire from the producer node to the named input slot of
// the consumer node.
func (g *Graph) Connect(from, to, input string) {
	g.Wires = append(g.Wires, Wire{From: from, To: to, Input: input})
}

// Node returns the node with the given ID, or nil if not found.
func (g *Graph) Node(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// Outputs returns the graph's output nodes in declaration order.
func (g *Graph) Outputs() []*Node {
	var outs []*Node
	for i := range g.Nodes {
		if g.Nodes[i].Kind == KindOutput {
			outs = append(outs, &g.Nodes[i])
		}
	}
	return outs
}

// Validate checks structural integrity: unique non-empty node IDs and wire
// endpoints that exist. Build runs it implicitly.
func (g *Graph) Validate() error {
	seen := make(map[string]struct{}, len(g.Nodes))
	for i := range g.Nodes {
		id := g.Nodes[i].ID
		if id == "" {
			return fmt.Errorf("node %d: %w", i, ErrInvalidNodeID)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("node %q: %w", id, ErrDuplicateNodeID)
		}
		seen[id] = struct{}{}
	}
	for _, w := range g.Wires {
		if _, ok := seen[w.From]; !ok {
			return &UnknownNodeError{NodeID: w.From}
		}
		if _, ok := seen[w.To]; !ok {
			return &UnknownNodeError{NodeID: w.To}
		}
	}
	return nil
}

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a graph to JSON bytes.
// Nodes are sorted by ID for deterministic output.
func MarshalGraph(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraph writes a graph as JSON to an io.Writer.
func WriteGraph(g *Graph, w io.Writer) error {
	out := Graph{
		Nodes: slices.Clone(g.Nodes),
		Wires: slices.Clone(g.Wires),
	}
	slices.SortFunc(out.Nodes, func(a, b Node) int {
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteGraphFile writes a graph to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraph(g, f)
}

// ReadGraph decodes a JSON graph from an io.Reader and validates it.
func ReadGraph(r io.Reader) (*Graph, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &g, nil
}

// ReadGraphFile reads a JSON file and returns the decoded graph.
func ReadGraphFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	g, err := ReadGraph(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return g, nil
}
