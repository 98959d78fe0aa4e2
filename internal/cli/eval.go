package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noisegraph/noisegraph/pkg/expr"
	"github.com/noisegraph/noisegraph/pkg/pipeline"
)

// evalCommand creates the eval command for single-point evaluation.
func (c *CLI) evalCommand() *cobra.Command {
	var (
		at         string
		outputName string
		patchFile  string
		sets       []string
		intSets    []string
	)

	cmd := &cobra.Command{
		Use:   "eval [graph.json]",
		Short: "Evaluate an output at a single coordinate",
		Long: `Evaluate a graph's outputs at one coordinate.

The coordinate given with --at determines the dimensionality: "1.5,0.25"
compiles for 2 dimensions, "0,0,4" for 3. Each selected output is compiled
and evaluated once, and the values are printed one per line.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dims := strings.Count(at, ",") + 1
			origin, err := parseOrigin(at)
			if err != nil {
				return err
			}

			patches, err := loadPatches(patchFile, sets, intSets)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(true)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			doc, err := runner.Build(cmd.Context(), pipeline.Options{GraphPath: args[0]})
			if err != nil {
				return err
			}
			if patches != nil {
				patches.ApplyAll(doc)
			}

			names := []string{outputName}
			if outputName == "" {
				names = slices.Sorted(maps.Keys(doc.Outputs))
			}

			point := origin[:dims]
			for _, name := range names {
				e, ok := doc.Outputs[name]
				if !ok {
					return fmt.Errorf("document has no output named %q", name)
				}
				fn, err := expr.Compile(e, dims)
				if err != nil {
					return fmt.Errorf("compile %s: %w", name, err)
				}
				printKeyValue(name, fmt.Sprintf("%.6f", fn.Eval(point)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "0,0", "coordinate to evaluate, comma-separated (2-4 components)")
	cmd.Flags().StringVarP(&outputName, "output", "O", "", "output to evaluate (default all)")
	cmd.Flags().StringVar(&patchFile, "patches", "", "TOML file of named parameter overrides")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "override a float parameter: name=value (repeatable)")
	cmd.Flags().StringArrayVar(&intSets, "set-int", nil, "override an integer parameter: name=value (repeatable)")

	return cmd
}
