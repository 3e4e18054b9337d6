package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/lenslayout/pkg/api"
	"github.com/matzehuels/lenslayout/pkg/metrics"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Endpoints: GET /healthz, GET /metrics, GET /v1/algorithms,
POST /v1/layout, POST /v1/transform.

The server drains in-flight requests on SIGINT/SIGTERM. The cache backend
comes from the [cache] section of the config file; use redis to share
layouts between replicas.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.cfg

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			var reg *metrics.Registry
			if !noMetrics {
				reg = metrics.NewRegistry()
				reg.Install()
			}

			srv := api.New(api.Config{
				Addr:         flagOr(cmd, "addr", addr, cfg.Server.Addr),
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
				SolveTimeout: cfg.Server.SolveTimeout,
				Width:        cfg.Surface.Width,
				Height:       cfg.Surface.Height,
				Algorithm:    cfg.Layout.Algorithm,
				Settings:     cfg.Algorithms(),
			}, runner, reg, c.Logger)

			c.Logger.Info("starting API", "cache", cfg.Cache.Backend, "metrics", !noMetrics)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", c.cfg.Server.Addr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not expose /metrics")

	return cmd
}
