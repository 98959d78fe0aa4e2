// Package render turns node graphs and sampled grids into visual artifacts.
//
// # Graph diagrams
//
// [ToDOT] converts a node graph to Graphviz DOT source, with nodes colored
// by role (generators, combinators, transforms, constants, outputs) and
// wires labeled by the input pin they feed. [RenderSVG] and [RenderPNG]
// rasterize DOT in-process via [github.com/goccy/go-graphviz]:
//
//	dot := render.ToDOT(g, render.Options{})
//	svg, err := render.RenderSVG(ctx, dot)
//
// # Heightmaps
//
// [HeightmapPNG] encodes a sampled grid of noise values as a grayscale PNG,
// mapping the canonical [-1, 1] output range to black..white.
package render
