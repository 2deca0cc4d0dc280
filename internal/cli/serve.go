package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/codematrix/internal/server"
	"github.com/matzehuels/codematrix/pkg/cache"
	"github.com/matzehuels/codematrix/pkg/observability"
	"github.com/matzehuels/codematrix/pkg/pipeline"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		noMetrics bool
		keyPrefix string
		maxBody   int64
		timeout   time.Duration
		lf        layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve classification, layout and rendering over HTTP",
		Long: `Run the HTTP API until interrupted.

  POST /v1/classify             segment buckets of a catalog
  POST /v1/layout               matrix layout as JSON
  POST /v1/render?format=svg    rendered artifact
  GET  /healthz                 liveness
  GET  /metrics                 Prometheus metrics

The layout settings of the config file and flags are the defaults that
request envelopes override.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := lf.apply(cmd, &cfg.Layout); err != nil {
				return err
			}
			if err := cfg.Layout.Validate(); err != nil {
				return err
			}

			store, err := c.newCache(ctx, cfg, noCache)
			if err != nil {
				return fmt.Errorf("initialize cache: %w", err)
			}
			// Server entries live under their own prefix so a shared redis or
			// mongo backend keeps them apart from CLI runs.
			runner := pipeline.NewRunner(store, cache.NewScopedKeyer(nil, keyPrefix), c.Logger)
			defer runner.Close()
			c.Logger.Debug("opened cache", "backend", cache.Describe(store), "prefix", keyPrefix)

			opts := []server.Option{
				server.WithLayoutConfig(cfg.Layout),
				server.WithMaxBodySize(maxBody),
				server.WithRequestTimeout(timeout),
			}
			if !noMetrics {
				m := server.NewMetrics()
				m.Register()
				defer observability.Reset()
				opts = append(opts, server.WithMetrics(m))
			}

			return server.New(runner, c.Logger, opts...).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&keyPrefix, "key-prefix", "api:", "prefix for cache keys written by the server")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")
	cmd.Flags().Int64Var(&maxBody, "max-body", server.DefaultMaxBodySize, "maximum request body in bytes")
	cmd.Flags().DurationVar(&timeout, "timeout", server.DefaultRequestTimeout, "per-request timeout")
	lf.register(cmd)

	return cmd
}
