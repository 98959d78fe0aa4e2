package cli

import (
	"fmt"
	"maps"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/noisegraph/noisegraph/pkg/expr"
	"github.com/noisegraph/noisegraph/pkg/pipeline"
)

// previewCommand creates the preview command: an interactive terminal view
// of a compiled output.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		outputName string
		scale      float64
		patchFile  string
		sets       []string
		intSets    []string
	)

	cmd := &cobra.Command{
		Use:   "preview [graph.json]",
		Short: "Preview an output interactively in the terminal",
		Long: `Preview a compiled output as shaded cells in the terminal.

Arrow keys pan the sampling window, + and - zoom, and 0 recenters on the
origin. The output is compiled once; every pan or zoom re-samples the
visible area.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			name := outputName
			if name == "" {
				names := slices.Sorted(maps.Keys(doc.Outputs))
				if len(names) == 0 {
					return fmt.Errorf("document has no outputs")
				}
				name = names[0]
			}
			e, ok := doc.Outputs[name]
			if !ok {
				return fmt.Errorf("document has no output named %q", name)
			}

			fn, err := expr.Compile(e, 2)
			if err != nil {
				return fmt.Errorf("compile %s: %w", name, err)
			}

			_, err = tea.NewProgram(NewPreviewModel(fn, name, scale), tea.WithAltScreen()).Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&outputName, "name", "n", "", "graph output to preview (default first)")
	cmd.Flags().Float64Var(&scale, "scale", pipeline.DefaultScale, "world units per terminal cell")
	cmd.Flags().StringVar(&patchFile, "patches", "", "TOML file of named parameter overrides")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "override a float parameter: name=value (repeatable)")
	cmd.Flags().StringArrayVar(&intSets, "set-int", nil, "override an integer parameter: name=value (repeatable)")

	return cmd
}
