package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/noisegraph/noisegraph/pkg/cache"
	"github.com/noisegraph/noisegraph/pkg/pipeline"
	"github.com/noisegraph/noisegraph/pkg/server"
	"github.com/noisegraph/noisegraph/pkg/store"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		redisURL string
		mongoURI string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the noisegraph HTTP API",
		Long: `Serve the noisegraph HTTP API.

The server exposes graph storage and the sampling pipeline over JSON. By
default it keeps graphs in the local file store and caches pipeline results
in memory; point --mongo and --redis at shared deployments to run more than
one replica against the same state.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var (
				ca    cache.Cache
				keyer cache.Keyer
				err   error
			)
			if redisURL != "" {
				ca, err = cache.NewRedisCache(ctx, redisURL)
				if err != nil {
					return fmt.Errorf("connect redis: %w", err)
				}
				// Redis may be shared with other services; namespace our keys.
				keyer = cache.NewScopedKeyer(nil, "noisegraph:")
			} else {
				ca = cache.NewMemoryCache()
			}

			var st store.Store
			if mongoURI != "" {
				st, err = store.NewMongoStore(ctx, store.MongoConfig{URI: mongoURI})
				if err != nil {
					return fmt.Errorf("connect mongo: %w", err)
				}
			} else {
				st, err = store.NewFileStore("")
				if err != nil {
					return fmt.Errorf("open graph store: %w", err)
				}
			}
			defer st.Close(cmd.Context())

			srv, err := server.New(server.Config{
				Addr:   addr,
				Store:  st,
				Runner: pipeline.NewRunner(ca, keyer, c.Logger),
				Logger: c.Logger,
			})
			if err != nil {
				return err
			}
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisURL, "redis", "", "Redis URL for the shared result cache")
	cmd.Flags().StringVar(&mongoURI, "mongo", "", "MongoDB connection URI for the graph store")

	return cmd
}
