package cli

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/noisegraph/noisegraph/pkg/pipeline"
	"github.com/noisegraph/noisegraph/pkg/render"
)

// sampleCommand creates the sample command for grid sampling and export.
func (c *CLI) sampleCommand() *cobra.Command {
	var (
		output     string
		outputName string
		dimensions int
		width      int
		height     int
		scale      float64
		originStr  string
		asJSON     bool
		patchFile  string
		sets       []string
		intSets    []string
		noCache    bool
		refresh    bool
	)

	cmd := &cobra.Command{
		Use:   "sample [graph.json]",
		Short: "Sample an output over a grid and export it",
		Long: `Sample a graph output over a rectangular grid.

The grid starts at --origin and steps --scale world units per cell. By
default the sampled values are written as a grayscale heightmap PNG; with
--json the raw grid (values plus sampling metadata) is written instead.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			origin, err := parseOrigin(originStr)
			if err != nil {
				return err
			}
			patches, err := loadPatches(patchFile, sets, intSets)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			spinner := newSpinnerWithContext(cmd.Context(), "Sampling...")
			spinner.Start()

			result, err := runner.Execute(cmd.Context(), pipeline.Options{
				GraphPath:  args[0],
				Output:     outputName,
				Dimensions: dimensions,
				Width:      width,
				Height:     height,
				Scale:      scale,
				Origin:     origin,
				Patches:    patches,
				Refresh:    refresh,
			})
			if err != nil {
				spinner.StopWithError("Sampling failed")
				return err
			}
			spinner.Stop()

			for _, name := range sortedGridNames(result) {
				grid := result.Grids[name]
				path := gridPath(output, name, len(result.Grids), asJSON)

				var data []byte
				if asJSON {
					data, err = pipeline.MarshalGrid(grid)
				} else {
					data, err = render.HeightmapPNG(grid.Values, grid.Width, grid.Height)
				}
				if err != nil {
					return fmt.Errorf("export %s: %w", name, err)
				}
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}

				printSuccess("Sampled %q (%dx%d)", name, grid.Width, grid.Height)
				printFile(path)
				printGridStats(grid, result.CacheInfo.SampleHit)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single output) or base path (multiple)")
	cmd.Flags().StringVarP(&outputName, "name", "n", "", "graph output to sample (default all)")
	cmd.Flags().IntVarP(&dimensions, "dimensions", "d", 0, "coordinate dimensionality (2-4, default 2)")
	cmd.Flags().IntVar(&width, "width", 0, "grid columns (default 256)")
	cmd.Flags().IntVar(&height, "height", 0, "grid rows (default 256)")
	cmd.Flags().Float64Var(&scale, "scale", 0, "world units per grid cell (default 0.05)")
	cmd.Flags().StringVar(&originStr, "origin", "", "grid origin coordinate, comma-separated")
	cmd.Flags().BoolVar(&asJSON, "json", false, "write raw grid JSON instead of a heightmap PNG")
	cmd.Flags().StringVar(&patchFile, "patches", "", "TOML file of named parameter overrides")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "override a float parameter: name=value (repeatable)")
	cmd.Flags().StringArrayVar(&intSets, "set-int", nil, "override an integer parameter: name=value (repeatable)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache and recompute")

	return cmd
}

func sortedGridNames(result *pipeline.Result) []string {
	return slices.Sorted(maps.Keys(result.Grids))
}

// gridPath chooses the output path for one grid: the --output flag as given
// for a single grid, suffixed with the output name for several.
func gridPath(base, name string, count int, asJSON bool) string {
	ext := ".png"
	if asJSON {
		ext = ".json"
	}
	if base == "" {
		return name + ext
	}
	if count == 1 {
		return base
	}
	return base + "-" + name + ext
}
