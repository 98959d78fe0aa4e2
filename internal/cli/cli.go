// Package cli implements the noisegraph command-line interface.
//
// This package provides commands for building expression documents from
// node graphs, evaluating and sampling compiled noise functions, rendering
// graph diagrams, managing saved graphs, and serving the HTTP API. The CLI
// is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - build: Lower a node graph into a serialized expression document
//   - eval: Evaluate an output at a single coordinate
//   - sample: Sample an output over a grid and export it
//   - render: Generate DOT, SVG, or PNG diagrams of a graph
//   - graphs: Manage the saved-graph store
//   - serve: Run the HTTP API
//   - cache: Manage the pipeline result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/noisegraph/noisegraph/pkg/buildinfo"
	"github.com/noisegraph/noisegraph/pkg/cache"
	"github.com/noisegraph/noisegraph/pkg/errors"
	"github.com/noisegraph/noisegraph/pkg/expr"
	"github.com/noisegraph/noisegraph/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "noisegraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "noisegraph",
		Short:        "Noisegraph composes and samples procedural noise functions",
		Long:         `Noisegraph is a CLI tool for composing procedural noise functions as node graphs, compiling them into callable scalar fields, and sampling them into heightmaps.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	// Register all subcommands
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.evalCommand())
	root.AddCommand(c.sampleCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.graphsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/noisegraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// loadPatches assembles a patch set from a TOML file plus --set and
// --set-int flags. Flag values override file values for the same name.
func loadPatches(patchFile string, sets, intSets []string) (*expr.PatchSet, error) {
	ps := &expr.PatchSet{
		Floats: make(map[string]float64),
		Ints:   make(map[string]uint32),
	}

	if patchFile != "" {
		fromFile, err := expr.ParsePatchFile(patchFile)
		if err != nil {
			return nil, err
		}
		for k, v := range fromFile.Floats {
			ps.Floats[k] = v
		}
		for k, v := range fromFile.Ints {
			ps.Ints[k] = v
		}
	}

	for _, s := range sets {
		name, value, err := splitSet(s)
		if err != nil {
			return nil, err
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidPatch, "--set %s: %q is not a number", name, value)
		}
		ps.Floats[name] = f
	}
	for _, s := range intSets {
		name, value, err := splitSet(s)
		if err != nil {
			return nil, err
		}
		u, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidPatch, "--set-int %s: %q is not an unsigned integer", name, value)
		}
		ps.Ints[name] = uint32(u)
	}

	if len(ps.Floats) == 0 && len(ps.Ints) == 0 {
		return nil, nil
	}
	return ps, nil
}

func splitSet(s string) (string, string, error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return "", "", errors.New(errors.ErrCodeInvalidPatch, "patch flag must be name=value, got %q", s)
	}
	if err := errors.ValidateParameterName(name); err != nil {
		return "", "", err
	}
	return name, value, nil
}

// parseOrigin parses a comma-separated coordinate like "1.5,0,-2".
func parseOrigin(s string) ([4]float64, error) {
	var origin [4]float64
	if s == "" {
		return origin, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) > 4 {
		return origin, fmt.Errorf("coordinate has %d components, at most 4 allowed", len(parts))
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return origin, fmt.Errorf("coordinate component %q is not a number", p)
		}
		origin[i] = v
	}
	return origin, nil
}
