package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/noisegraph/noisegraph/pkg/expr"
	"github.com/noisegraph/noisegraph/pkg/pipeline"
)

// buildCommand creates the build command: graph in, document out.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		output    string
		patchFile string
		sets      []string
		intSets   []string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "build [graph.json]",
		Short: "Lower a node graph into an expression document",
		Long: `Lower a node graph into a serialized expression document.

The build command walks the graph from its output nodes, resolves typed
input pins, and writes every output's expression tree as one JSON document.
Patches given with --patches, --set, or --set-int are applied to the
document before it is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patches, err := loadPatches(patchFile, sets, intSets)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			prog := newProgress(loggerFromContext(cmd.Context()))
			doc, err := runner.Build(cmd.Context(), pipeline.Options{GraphPath: args[0]})
			if err != nil {
				return err
			}

			if patches != nil {
				count := patches.ApplyAll(doc)
				c.Logger.Debug("applied patches", "parameters", count)
			}

			prog.done(fmt.Sprintf("Built %d output(s)", len(doc.Outputs)))

			if output == "" {
				data, err := expr.MarshalDocument(doc)
				if err != nil {
					return err
				}
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := expr.WriteDocumentFile(doc, output); err != nil {
				return err
			}
			printSuccess("Document written")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&patchFile, "patches", "", "TOML file of named parameter overrides")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "override a float parameter: name=value (repeatable)")
	cmd.Flags().StringArrayVar(&intSets, "set-int", nil, "override an integer parameter: name=value (repeatable)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
