// Package pipeline orchestrates the load → build → patch → compile →
// sample → render flow with content-addressed caching.
//
// The [Runner] is the single entry point shared by the CLI and the HTTP
// server: both hand it an [Options] value and get back a [Result] holding
// the built document, sampled grids, and any rendered graph artifacts.
// Every expensive stage is cached by the hash of its exact inputs, so a
// repeated run with the same graph, patches, and sampling options is a
// cache hit end to end.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/noisegraph/noisegraph/pkg/cache"
	"github.com/noisegraph/noisegraph/pkg/errors"
	"github.com/noisegraph/noisegraph/pkg/expr"
)

// Render formats for graph diagrams.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// ValidFormats lists the graph render formats Execute accepts.
var ValidFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
	FormatPNG: true,
}

// Sampling defaults applied by ValidateAndSetDefaults.
const (
	DefaultDimensions = 2
	DefaultWidth      = 256
	DefaultHeight     = 256
	DefaultScale      = 0.05
)

// Options configures a pipeline run. Zero values get sensible defaults from
// ValidateAndSetDefaults; Execute calls it implicitly.
type Options struct {
	// Graph input. Exactly one of GraphPath or GraphData must be set:
	// GraphPath names a graph JSON file on disk, GraphData carries the
	// serialized graph directly (the server reads graphs from its store).
	GraphPath string
	GraphData []byte

	// Output selects a single named output to compile and sample.
	// Empty means every output in the document.
	Output string

	// Dimensions is the coordinate dimensionality functions are compiled
	// for (2-4). Defaults to 2.
	Dimensions int

	// Sampling window: a Width x Height grid of points starting at Origin,
	// Scale world units apart.
	Width  int
	Height int
	Scale  float64
	Origin [4]float64

	// Patches are named scalar overrides applied to the built document
	// before compilation. Nil means no patching.
	Patches *expr.PatchSet

	// Formats lists graph diagram formats to render (dot, svg, png).
	// Empty means no diagram rendering.
	Formats []string

	// Detailed includes scalar fields in diagram node labels.
	Detailed bool

	// Refresh bypasses the cache and recomputes every stage.
	Refresh bool

	// Logger receives progress output. Defaults to a silent logger.
	Logger *log.Logger

	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// It is idempotent; repeated calls after the first are no-ops.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if err := o.validateForSample(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// ValidateForBuild checks the options the build stage needs.
func (o *Options) ValidateForBuild() error {
	if o.GraphPath == "" && len(o.GraphData) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "either GraphPath or GraphData must be set")
	}
	if o.GraphPath != "" && len(o.GraphData) > 0 {
		return errors.New(errors.ErrCodeInvalidInput, "GraphPath and GraphData are mutually exclusive")
	}
	if o.GraphPath != "" {
		if err := errors.ValidatePath(o.GraphPath); err != nil {
			return err
		}
	}
	return nil
}

// validateForSample checks and defaults the compile and sampling options.
func (o *Options) validateForSample() error {
	if o.Output != "" {
		if err := errors.ValidateOutputName(o.Output); err != nil {
			return err
		}
	}

	if o.Dimensions == 0 {
		o.Dimensions = DefaultDimensions
	}
	if err := errors.ValidateDimensions(o.Dimensions); err != nil {
		return err
	}

	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput,
			"grid size must be positive, got %dx%d", o.Width, o.Height)
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive")
	}
	return nil
}

// ValidateForRender checks the render formats.
func (o *Options) ValidateForRender() error {
	for _, f := range o.Formats {
		if err := errors.ValidateRenderFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// SampleKeyOpts builds the cache key options for one output's sampled grid.
func (o *Options) SampleKeyOpts(output, patchHash string) cache.SampleKeyOpts {
	return cache.SampleKeyOpts{
		Output:     output,
		Dimensions: o.Dimensions,
		PatchHash:  patchHash,
		Width:      o.Width,
		Height:     o.Height,
		Scale:      o.Scale,
	}
}

// RenderKeyOpts builds the cache key options for one graph diagram format.
func (o *Options) RenderKeyOpts(format string) cache.RenderKeyOpts {
	return cache.RenderKeyOpts{Format: format}
}

// Stats holds timing and size information from a pipeline run.
type Stats struct {
	BuildTime  time.Duration `json:"build_time"`
	SampleTime time.Duration `json:"sample_time"`
	RenderTime time.Duration `json:"render_time"`

	NodeCount    int `json:"node_count"`
	OutputCount  int `json:"output_count"`
	PatchedCount int `json:"patched_count"`
}

// CacheInfo reports which stages were served from cache.
type CacheInfo struct {
	DocumentHit bool `json:"document_hit"`
	SampleHit   bool `json:"sample_hit"`
	RenderHit   bool `json:"render_hit"`
}

// Result is the output of a complete pipeline run.
type Result struct {
	// Document is the built (and possibly patched) expression document.
	Document *expr.Document

	// GraphHash is the content hash of the serialized input graph.
	GraphHash string

	// DocumentHash is the content hash of the document after patching;
	// sampled grids are keyed by it.
	DocumentHash string

	// Grids holds one sampled grid per compiled output, keyed by output
	// name.
	Grids map[string]*Grid

	// Artifacts holds rendered graph diagrams keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}
