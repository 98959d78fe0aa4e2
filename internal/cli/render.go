package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noisegraph/noisegraph/pkg/pipeline"
)

// renderCommand creates the render command for graph diagram output.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		detailed   bool
		noCache    bool
		refresh    bool
	)

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Render a node graph as a diagram",
		Long: `Render a node graph as a DOT, SVG, or PNG diagram.

Generators, combinators, constants, and outputs are drawn with distinct
shapes and colors, and every wire is labeled with the input pin it feeds.
Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr)

			runner, err := c.newRunner(noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			opts := pipeline.Options{
				GraphPath: args[0],
				Formats:   formats,
				Detailed:  detailed,
				Refresh:   refresh,
			}
			if err := opts.ValidateForRender(); err != nil {
				return err
			}

			g, err := runner.LoadGraph(opts)
			if err != nil {
				return err
			}
			graphHash, err := pipeline.GraphHash(g)
			if err != nil {
				return err
			}

			spinner := newSpinnerWithContext(cmd.Context(), "Rendering...")
			spinner.Start()
			artifacts, cached, err := runner.RenderWithCacheInfo(cmd.Context(), g, graphHash, opts)
			if err != nil {
				spinner.StopWithError("Rendering failed")
				return err
			}
			spinner.Stop()

			base := output
			if base == "" {
				base = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}
			for _, format := range formats {
				path := artifactPath(base, format, len(formats))
				if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				printSuccess("Rendered %s", format)
				printFile(path)
			}
			if cached {
				printDetail("served from cache")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png (comma-separated)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include scalar fields in node labels")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache and re-render")

	return cmd
}

// artifactPath chooses the output path for one format: the --output flag as
// given for a single format, suffixed with the format for several.
func artifactPath(base, format string, count int) string {
	if count == 1 && strings.Contains(filepath.Base(base), ".") {
		return base
	}
	return base + "." + format
}
