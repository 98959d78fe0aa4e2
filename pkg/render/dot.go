package render

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/noisegraph/noisegraph/pkg/expr"
	"github.com/noisegraph/noisegraph/pkg/graph"
)

// Options configures graph diagram rendering.
type Options struct {
	// Detailed includes scalar fields and enum options in node labels.
	// When false, only the kind (and name, if any) is shown.
	Detailed bool
}

// ToDOT converts a node graph to Graphviz DOT format.
// The resulting DOT string can be rendered with [RenderSVG] or [RenderPNG].
//
// Constant nodes (Float, Int) are drawn as ellipses and output nodes with a
// double border, so the value flow from parameters through generators to
// outputs reads at a glance.
func ToDOT(g *graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for i := range g.Nodes {
		n := &g.Nodes[i]
		label := fmtLabel(n, opts.Detailed)
		attrs := fmtAttrs(n, label)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, w := range g.Wires {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q, fontsize=10];\n", w.From, w.To, w.Input)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *graph.Node, detailed bool) string {
	head := n.Kind
	if n.Name != "" {
		head = fmt.Sprintf("%s\n%s", n.Kind, n.Name)
	}
	switch n.Kind {
	case graph.KindFloat:
		head = fmt.Sprintf("%s = %g", n.Name, n.Value)
	case graph.KindInt:
		head = fmt.Sprintf("%s = %d", n.Name, n.IntValue)
	}
	if !detailed {
		return head
	}

	var parts []string
	for _, k := range slices.Sorted(maps.Keys(n.Floats)) {
		parts = append(parts, fmt.Sprintf("%s: %g", k, n.Floats[k]))
	}
	for _, k := range slices.Sorted(maps.Keys(n.Ints)) {
		parts = append(parts, fmt.Sprintf("%s: %d", k, n.Ints[k]))
	}
	for _, k := range slices.Sorted(maps.Keys(n.Options)) {
		parts = append(parts, fmt.Sprintf("%s: %s", k, n.Options[k]))
	}
	if len(parts) == 0 {
		return head
	}
	return head + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n *graph.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case n.Kind == graph.KindFloat || n.Kind == graph.KindInt:
		attrs = append(attrs, "shape=ellipse", "style=filled", "fillcolor=lightyellow")
	case n.Kind == graph.KindOutput:
		attrs = append(attrs, "peripheries=2", "fillcolor=lightblue")
	case isGenerator(n.Kind):
		attrs = append(attrs, "fillcolor=lightgreen")
	default:
		attrs = append(attrs, "fillcolor=white")
	}
	return attrs
}

func isGenerator(kind string) bool {
	switch expr.Kind(kind) {
	case expr.KindPerlin, expr.KindPerlinSurflet, expr.KindSimplex,
		expr.KindOpenSimplex, expr.KindSuperSimplex, expr.KindValue,
		expr.KindWorley, expr.KindCheckerboard, expr.KindCylinders,
		expr.KindConstant, expr.KindBasicMulti, expr.KindBillow,
		expr.KindFbm, expr.KindHybridMulti, expr.KindRidgedMulti:
		return true
	}
	return false
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.PNG)
}

func renderFormat(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
