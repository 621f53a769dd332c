package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topicgrid/pkg/config"
	"github.com/matzehuels/topicgrid/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout pipeline over HTTP",
		Long: `Serve the layout pipeline over HTTP.

Endpoints:
  GET  /healthz              liveness and build info
  POST /v1/layout            masonry layout document for a topic list
  POST /v1/render/{format}   rendered artifact in the resolved display mode

The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), cfg, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.Config, noCache bool) error {
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv := server.New(runner,
		server.WithResolver(cfg.Display),
		server.WithConfig(cfg.Masonry),
		server.WithLogger(c.Logger),
		server.WithShutdownTimeout(cfg.Server.ShutdownTimeout))

	printInfo("Listening on %s", cfg.Server.Addr)
	printDetail("cache backend: %s", cacheBackend(cfg, noCache))
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}

func cacheBackend(cfg config.Config, noCache bool) string {
	if noCache {
		return config.BackendNull
	}
	return cfg.Cache.Backend
}
