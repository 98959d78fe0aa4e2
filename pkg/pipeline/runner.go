package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/noisegraph/noisegraph/pkg/cache"
	"github.com/noisegraph/noisegraph/pkg/errors"
	"github.com/noisegraph/noisegraph/pkg/expr"
	"github.com/noisegraph/noisegraph/pkg/graph"
	"github.com/noisegraph/noisegraph/pkg/observability"
	"github.com/noisegraph/noisegraph/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete build → patch → compile → sample → render
// pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Grids:     make(map[string]*Grid),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Build
	g, err := r.LoadGraph(opts)
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}
	if h, err := GraphHash(g); err == nil {
		result.GraphHash = h
	}

	buildStart := time.Now()
	doc, buildHit, err := r.BuildWithCacheInfo(ctx, g, result.GraphHash, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Document = doc
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = len(g.Nodes)
	result.Stats.OutputCount = len(doc.Outputs)
	result.CacheInfo.DocumentHit = buildHit

	r.Logger.Info("built document",
		"nodes", len(g.Nodes),
		"outputs", len(doc.Outputs),
		"duration", result.Stats.BuildTime)

	// Stage 2: Patch
	patchHash := ""
	if opts.Patches != nil {
		result.Stats.PatchedCount = opts.Patches.ApplyAll(doc)
		patchHash = hashPatches(opts.Patches)
		r.Logger.Info("applied patches", "parameters", result.Stats.PatchedCount)
	}

	// The document hash keys sampled grids; it covers patching because the
	// hash is taken over the patched bytes.
	docData, err := expr.MarshalDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("serialize document: %w", err)
	}
	result.DocumentHash = cache.Hash(docData)

	// Stage 3: Compile and sample
	outputs, err := selectOutputs(doc, opts.Output)
	if err != nil {
		return nil, err
	}

	sampleStart := time.Now()
	allHit := true
	for _, name := range outputs {
		grid, hit, err := r.SampleWithCacheInfo(ctx, doc, result.DocumentHash, patchHash, name, opts)
		if err != nil {
			return nil, fmt.Errorf("sample %s: %w", name, err)
		}
		result.Grids[name] = grid
		allHit = allHit && hit
	}
	result.Stats.SampleTime = time.Since(sampleStart)
	result.CacheInfo.SampleHit = allHit && len(outputs) > 0

	r.Logger.Info("sampled outputs",
		"outputs", len(outputs),
		"grid", fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"duration", result.Stats.SampleTime)

	// Stage 4: Render
	if len(opts.Formats) > 0 {
		renderStart := time.Now()
		artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, g, result.GraphHash, opts)
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		result.Artifacts = artifacts
		result.Stats.RenderTime = time.Since(renderStart)
		result.CacheInfo.RenderHit = renderHit

		r.Logger.Info("rendered diagrams",
			"formats", opts.Formats,
			"duration", result.Stats.RenderTime)
	}

	return result, nil
}

// GraphHash returns the content hash of a graph's canonical serialization.
func GraphHash(g *graph.Graph) (string, error) {
	data, err := graph.MarshalGraph(g)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

// LoadGraph reads the input graph from GraphData or GraphPath.
func (r *Runner) LoadGraph(opts Options) (*graph.Graph, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return nil, err
	}
	if len(opts.GraphData) > 0 {
		return graph.ReadGraph(bytes.NewReader(opts.GraphData))
	}
	return graph.ReadGraphFile(opts.GraphPath)
}

// BuildWithCacheInfo builds the expression document with caching and
// returns cache hit info.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, g *graph.Graph, graphHash string, opts Options) (*expr.Document, bool, error) {
	cacheKey := r.Keyer.DocumentKey(graphHash)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			doc, err := expr.UnmarshalDocument(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "document")
				return doc, true, nil // Cache hit
			}
		}
		observability.Cache().OnCacheMiss(ctx, "document")
	}

	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, len(g.Nodes))
	start := time.Now()
	outputs, err := graph.Build(g)
	hooks.OnBuildComplete(ctx, len(outputs), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	doc := &expr.Document{Outputs: outputs}

	// Cache the result
	if !opts.Refresh {
		if data, err := expr.MarshalDocument(doc); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLDocument)
			observability.Cache().OnCacheSet(ctx, "document", len(data))
		}
	}

	return doc, false, nil // Cache miss
}

// Build is a convenience wrapper that loads the graph, builds the document,
// and discards the cache hit info.
func (r *Runner) Build(ctx context.Context, opts Options) (*expr.Document, error) {
	g, err := r.LoadGraph(opts)
	if err != nil {
		return nil, err
	}
	hash, err := GraphHash(g)
	if err != nil {
		return nil, err
	}
	doc, _, err := r.BuildWithCacheInfo(ctx, g, hash, opts)
	return doc, err
}

// SampleWithCacheInfo compiles one output and samples it over the grid
// described by opts, with caching, and returns cache hit info.
func (r *Runner) SampleWithCacheInfo(ctx context.Context, doc *expr.Document, docHash, patchHash, output string, opts Options) (*Grid, bool, error) {
	cacheKey := r.Keyer.SampleKey(docHash, opts.SampleKeyOpts(output, patchHash))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			grid, err := UnmarshalGrid(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "sample")
				return grid, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "sample")
	}

	e, ok := doc.Outputs[output]
	if !ok {
		return nil, false, errors.New(errors.ErrCodeOutputNotFound,
			"document has no output named %q", output)
	}

	hooks := observability.Pipeline()
	hooks.OnCompileStart(ctx, output, opts.Dimensions)
	compileStart := time.Now()
	fn, err := expr.Compile(e, opts.Dimensions)
	hooks.OnCompileComplete(ctx, output, time.Since(compileStart), err)
	if err != nil {
		return nil, false, err
	}

	hooks.OnSampleStart(ctx, output, opts.Width*opts.Height)
	sampleStart := time.Now()
	grid := sampleGrid(fn, output, opts)
	hooks.OnSampleComplete(ctx, output, time.Since(sampleStart), nil)

	if data, err := MarshalGrid(grid); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLSample)
		observability.Cache().OnCacheSet(ctx, "sample", len(data))
	}

	return grid, false, nil // Cache miss
}

// RenderWithCacheInfo renders graph diagrams with caching and returns
// cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *graph.Graph, graphHash string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	// Try to get all formats from cache
	allCached := !opts.Refresh
	artifacts := make(map[string][]byte)

	if allCached {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.RenderKey(graphHash, opts.RenderKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "render")
		return artifacts, true, nil // All artifacts from cache
	}

	// Render all formats
	hooks := observability.Pipeline()
	dot := render.ToDOT(g, render.Options{Detailed: opts.Detailed})
	rendered := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		hooks.OnRenderStart(ctx, format)
		start := time.Now()
		data, err := renderArtifact(ctx, dot, format)
		hooks.OnRenderComplete(ctx, format, time.Since(start), err)
		if err != nil {
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		rendered[format] = data
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.RenderKey(graphHash, opts.RenderKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLRender)
		observability.Cache().OnCacheSet(ctx, "render", len(data))
	}

	return rendered, false, nil // Cache miss
}

func renderArtifact(ctx context.Context, dot, format string) ([]byte, error) {
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return render.RenderSVG(ctx, dot)
	case FormatPNG:
		return render.RenderPNG(ctx, dot)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"unsupported render format %q", format)
	}
}

// selectOutputs resolves the outputs to compile: the requested one, or all
// of them in sorted order.
func selectOutputs(doc *expr.Document, requested string) ([]string, error) {
	if requested != "" {
		if _, ok := doc.Outputs[requested]; !ok {
			return nil, errors.New(errors.ErrCodeOutputNotFound,
				"document has no output named %q", requested)
		}
		return []string{requested}, nil
	}
	return slices.Sorted(maps.Keys(doc.Outputs)), nil
}

// hashPatches derives a stable content hash for a patch set. JSON object
// keys marshal in sorted order, so equal sets hash equally.
func hashPatches(ps *expr.PatchSet) string {
	data, err := json.Marshal(ps)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
