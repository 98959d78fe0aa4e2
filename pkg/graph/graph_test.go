package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/noisegraph/noisegraph/pkg/expr"
)

func TestMarshalGraphRoundTrip(t *testing.T) {
	g := &Graph{}
	perlin := g.AddNode(Node{
		Kind: string(expr.KindPerlin),
		Ints: map[string]uint32{"seed": 99},
	})
	curve := g.AddNode(Node{
		Kind:   string(expr.KindCurve),
		Points: [][2]float64{{-1, -1}, {0, 0}, {0.5, 0.8}, {1, 1}},
	})
	out := g.AddNode(Node{Kind: KindOutput, Name: "height"})
	g.Connect(perlin, curve, "source")
	g.Connect(curve, out, "source")

	data, err := MarshalGraph(g)
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}

	got, err := ReadGraph(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadGraph: %v", err)
	}

	if len(got.Nodes) != 3 {
		t.Fatalf("nodes = %d, want 3", len(got.Nodes))
	}
	if len(got.Wires) != 2 {
		t.Fatalf("wires = %d, want 2", len(got.Wires))
	}

	n := got.Node(curve)
	if n == nil {
		t.Fatalf("node %s not found after round trip", curve)
	}
	if len(n.Points) != 4 || n.Points[2] != [2]float64{0.5, 0.8} {
		t.Errorf("points = %v, want the original control points", n.Points)
	}

	// Round-tripped graphs build the same trees.
	want, err := Build(g)
	if err != nil {
		t.Fatalf("Build original: %v", err)
	}
	after, err := Build(got)
	if err != nil {
		t.Fatalf("Build decoded: %v", err)
	}
	wantJSON, _ := expr.Marshal(want["height"])
	afterJSON, _ := expr.Marshal(after["height"])
	if !bytes.Equal(wantJSON, afterJSON) {
		t.Error("built trees differ after graph round trip")
	}
}

func TestMarshalGraphDeterministic(t *testing.T) {
	g := &Graph{}
	a := g.AddNode(Node{Kind: string(expr.KindPerlin)})
	b := g.AddNode(Node{Kind: KindOutput, Name: "out"})
	g.Connect(a, b, "source")

	first, err := MarshalGraph(g)
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}
	second, err := MarshalGraph(g)
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("repeated marshals differ")
	}
}

func TestReadGraph(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{
			name: "Valid",
			input: `{
				"nodes": [
					{"id": "a", "kind": "Perlin"},
					{"id": "b", "kind": "output", "name": "out"}
				],
				"wires": [{"from": "a", "to": "b", "input": "source"}]
			}`,
		},
		{
			name:    "InvalidJSON",
			input:   `{nodes: []}`,
			wantErr: errInvalid,
		},
		{
			name: "MissingNodeID",
			input: `{
				"nodes": [{"kind": "Perlin"}]
			}`,
			wantErr: ErrInvalidNodeID,
		},
		{
			name: "DuplicateNodeID",
			input: `{
				"nodes": [
					{"id": "a", "kind": "Perlin"},
					{"id": "a", "kind": "Abs"}
				]
			}`,
			wantErr: ErrDuplicateNodeID,
		},
		{
			name: "DanglingWire",
			input: `{
				"nodes": [{"id": "a", "kind": "Perlin"}],
				"wires": [{"from": "a", "to": "ghost", "input": "source"}]
			}`,
			wantErr: errInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ReadGraph(strings.NewReader(tt.input))
			if tt.wantErr != nil {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.wantErr != errInvalid && !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadGraph: %v", err)
			}
			if g.Node("a") == nil {
				t.Error("node a not found")
			}
		})
	}
}

// errInvalid marks table rows that expect any error.
var errInvalid = errors.New("any error")

func TestWriteGraphFileRoundTrip(t *testing.T) {
	g := &Graph{}
	a := g.AddNode(Node{Kind: string(expr.KindPerlin)})
	b := g.AddNode(Node{Kind: KindOutput, Name: "out"})
	g.Connect(a, b, "source")

	path := filepath.Join(t.TempDir(), "graph.json")
	if err := WriteGraphFile(g, path); err != nil {
		t.Fatalf("WriteGraphFile: %v", err)
	}

	got, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile: %v", err)
	}
	if len(got.Nodes) != 2 {
		t.Errorf("nodes = %d, want 2", len(got.Nodes))
	}
}

func TestReadGraphFileNotFound(t *testing.T) {
	_, err := ReadGraphFile(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Error("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want wrapped os.ErrNotExist", err)
	}
}

func TestWriteGraphIndented(t *testing.T) {
	g := &Graph{}
	g.AddNode(Node{Kind: string(expr.KindPerlin)})

	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		t.Fatalf("WriteGraph: %v", err)
	}

	var check Graph
	if err := json.Unmarshal(buf.Bytes(), &check); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Error("output is not indented")
	}
}
