package render

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/noisegraph/noisegraph/pkg/graph"
)

func testGraph() *graph.Graph {
	g := &graph.Graph{}
	freq := g.AddNode(graph.Node{Kind: graph.KindFloat, Name: "frequency", Value: 2.5})
	fbm := g.AddNode(graph.Node{Kind: "Fbm", Ints: map[string]uint32{"octaves": 4}})
	out := g.AddNode(graph.Node{Kind: graph.KindOutput, Name: "height"})
	g.Connect(freq, fbm, "frequency")
	g.Connect(fbm, out, "source")
	return g
}

func TestToDOT(t *testing.T) {
	g := testGraph()
	dot := ToDOT(g, Options{})

	for _, want := range []string{
		"digraph G {",
		"frequency = 2.5",
		"Fbm",
		"Output\nheight",
		`[label="source"`,
		"peripheries=2",
		"shape=ellipse",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q in output:\n%s", want, dot)
		}
	}
}

func TestToDOTDetailed(t *testing.T) {
	g := testGraph()
	dot := ToDOT(g, Options{Detailed: true})

	if !strings.Contains(dot, "octaves: 4") {
		t.Errorf("detailed label missing inline scalar, got:\n%s", dot)
	}
}

func TestToDOTDeterministic(t *testing.T) {
	g := testGraph()
	a := ToDOT(g, Options{Detailed: true})
	b := ToDOT(g, Options{Detailed: true})
	if a != b {
		t.Error("ToDOT() output differs between calls")
	}
}

func TestHeightmapPNG(t *testing.T) {
	values := []float64{-1, -0.5, 0, 0.5, 1, 2} // last value out of range
	data, err := HeightmapPNG(values, 3, 2)
	if err != nil {
		t.Fatalf("HeightmapPNG() error = %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 3 || bounds.Dy() != 2 {
		t.Errorf("bounds = %dx%d, want 3x2", bounds.Dx(), bounds.Dy())
	}

	r, _, _, _ := img.At(0, 0).RGBA()
	if r != 0 {
		t.Errorf("value -1 should map to black, got %d", r)
	}
	r, _, _, _ = img.At(1, 1).RGBA()
	if r>>8 != 255 {
		t.Errorf("value 1 should map to white, got %d", r>>8)
	}
	r, _, _, _ = img.At(2, 1).RGBA()
	if r>>8 != 255 {
		t.Errorf("out-of-range value should clamp to white, got %d", r>>8)
	}
}

func TestHeightmapPNGErrors(t *testing.T) {
	if _, err := HeightmapPNG([]float64{0}, 0, 1); err == nil {
		t.Error("expected error for zero width")
	}
	if _, err := HeightmapPNG([]float64{0, 0}, 3, 2); err == nil {
		t.Error("expected error for mismatched value count")
	}
}
