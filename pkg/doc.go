// Package pkg provides the core libraries for Noisegraph procedural noise
// composition.
//
// # Overview
//
// Noisegraph builds procedural noise fields from composable node graphs:
// generators (Perlin, simplex, value, Worley) feed combinators and transforms
// that shape the signal into named outputs. The pkg directory is organized
// into five main areas:
//
//  1. [expr] - Expression tree (typed nodes, serialization, patching, compilation)
//  2. [graph] - Node graph documents and the graph → expression builder
//  3. [noise] - Noise sources and the compiled Function interface
//  4. [pipeline] - Orchestration (load → build → patch → sample → render)
//  5. [render], [store], [cache], [server] - Diagrams, persistence, caching, HTTP API
//
// # Architecture
//
// The typical data flow through Noisegraph:
//
//	Graph JSON (nodes + wires)
//	         ↓
//	    [graph] package (validate, topological walk)
//	         ↓
//	    [expr] package (expression document, patching, compilation)
//	         ↓
//	    [noise] package (callable f(coordinate) → float64)
//	         ↓
//	    sampled grids / DOT, SVG, PNG diagrams
//
// # Quick Start
//
// Build a graph and sample one of its outputs:
//
//	import (
//	    "github.com/noisegraph/noisegraph/pkg/expr"
//	    "github.com/noisegraph/noisegraph/pkg/graph"
//	)
//
//	// 1. Construct a graph
//	var g graph.Graph
//	perlin := g.AddNode(graph.Node{Kind: string(expr.KindPerlin), Ints: map[string]uint32{"seed": 42}})
//	out := g.AddNode(graph.Node{Kind: graph.KindOutput, Name: "height"})
//	g.Connect(perlin, out, "source")
//
//	// 2. Build the output expressions
//	outputs, _ := graph.Build(&g)
//
//	// 3. Compile an output for 2D sampling
//	fn, _ := expr.Compile(outputs["height"], 2)
//	v := fn.Eval([]float64{0.5, 1.25})
//
// # Main Packages
//
// ## Core Domain Logic
//
// [expr] - The expression tree: a tagged union over generator, combinator,
// and transform nodes with lossless JSON round-tripping, name-indexed scalar
// patching, and compilation to callable noise functions.
//
// [graph] - Node graph documents (nodes + wires) with ID validation, cycle
// detection, and the builder that lowers a graph to an expression document.
//
// [noise] - Gradient, value, and cellular noise sources behind a single
// Function interface, supporting 2 to 4 dimensions.
//
// ## Orchestration
//
// [pipeline] - Complete execution pipeline (load → build → patch → sample →
// render) used by the CLI and the HTTP server. Each stage is cached by
// content hash so repeated runs reuse prior work.
//
// ## Infrastructure
//
// [cache] - Content-addressed result caching with file, memory, Redis, and
// null backends plus the key derivation shared by all of them.
//
// [store] - Named graph persistence with file, memory, and MongoDB backends.
//
// [server] - The HTTP API: graph CRUD plus build, sample, and render
// endpoints over chi.
//
// ## Visualization
//
// [render] - Graphviz diagram generation (DOT, SVG, PNG) and grayscale
// heightmap PNG encoding for sampled grids.
//
// ## Shared
//
// [errors] - Structured errors with stable codes and input validators.
//
// [observability] - Hook interfaces the pipeline, cache, and server report
// into.
//
// # Common Workflows
//
// Patch named parameters before compiling:
//
//	patches, _ := expr.ParsePatchFile("patches.toml")
//	count := patches.ApplyAll(doc)
//
// Run the full pipeline with caching:
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, logger)
//	result, _ := runner.Execute(ctx, pipeline.Options{GraphPath: "terrain.json"})
//
// Render a diagram:
//
//	dot := render.ToDOT(g, render.Options{Detailed: true})
//	svg, _ := render.RenderSVG(ctx, dot)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                # All tests
//	go test ./pkg/expr/...           # Specific package
//	go test -run Example             # Examples only
//
// [expr]: https://pkg.go.dev/github.com/noisegraph/noisegraph/pkg/expr
// [graph]: https://pkg.go.dev/github.com/noisegraph/noisegraph/pkg/graph
// [noise]: https://pkg.go.dev/github.com/noisegraph/noisegraph/pkg/noise
// [pipeline]: https://pkg.go.dev/github.com/noisegraph/noisegraph/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/noisegraph/noisegraph/pkg/render
// [store]: https://pkg.go.dev/github.com/noisegraph/noisegraph/pkg/store
// [cache]: https://pkg.go.dev/github.com/noisegraph/noisegraph/pkg/cache
// [server]: https://pkg.go.dev/github.com/noisegraph/noisegraph/pkg/server
// [errors]: https://pkg.go.dev/github.com/noisegraph/noisegraph/pkg/errors
// [observability]: https://pkg.go.dev/github.com/noisegraph/noisegraph/pkg/observability
package pkg
