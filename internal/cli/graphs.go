package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/noisegraph/noisegraph/pkg/store"
)

// graphsCommand creates the graphs command group for the saved-graph store.
func (c *CLI) graphsCommand() *cobra.Command {
	var mongoURI string

	cmd := &cobra.Command{
		Use:   "graphs",
		Short: "Manage the saved-graph store",
		Long: `Manage the saved-graph store.

Graphs are stored locally under ~/.config/noisegraph/graphs by default.
With --mongo, graphs are stored in the given MongoDB deployment instead,
which is what the serve command uses in shared deployments.`,
	}

	cmd.PersistentFlags().StringVar(&mongoURI, "mongo", "", "MongoDB connection URI (default local file store)")

	cmd.AddCommand(c.graphsListCommand(&mongoURI))
	cmd.AddCommand(c.graphsSaveCommand(&mongoURI))
	cmd.AddCommand(c.graphsShowCommand(&mongoURI))
	cmd.AddCommand(c.graphsDeleteCommand(&mongoURI))

	return cmd
}

func (c *CLI) graphsListCommand(mongoURI *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved graphs",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := newStore(cmd, *mongoURI)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			summaries, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				printInfo("No saved graphs")
				return nil
			}
			for _, s := range summaries {
				printKeyValue(s.ID, fmt.Sprintf("%s  %s", s.Name, s.UpdatedAt.Format("2006-01-02 15:04")))
			}
			return nil
		},
	}
}

func (c *CLI) graphsSaveCommand(mongoURI *string) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "save [graph.json]",
		Short: "Save a graph to the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read graph: %w", err)
			}
			if name == "" {
				name = args[0]
			}

			st, err := newStore(cmd, *mongoURI)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			rec, err := store.NewRecord(name, data)
			if err != nil {
				return err
			}
			if err := st.Put(cmd.Context(), rec); err != nil {
				return err
			}
			printSuccess("Saved %q", name)
			printKeyValue("id", rec.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "display name (default the file path)")
	return cmd
}

func (c *CLI) graphsShowCommand(mongoURI *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Print a saved graph's JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := newStore(cmd, *mongoURI)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			rec, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(rec.Graph)
			return err
		},
	}
}

func (c *CLI) graphsDeleteCommand(mongoURI *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a saved graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := newStore(cmd, *mongoURI)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}

// newStore opens the graph store selected by the --mongo flag: MongoDB when
// a URI is given, the local file store otherwise.
func newStore(cmd *cobra.Command, mongoURI string) (store.Store, error) {
	if mongoURI != "" {
		return store.NewMongoStore(cmd.Context(), store.MongoConfig{URI: mongoURI})
	}
	return store.NewFileStore("")
}
