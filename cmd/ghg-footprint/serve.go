package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rshade/ghg-footprint/internal/carbon"
	"github.com/rshade/ghg-footprint/internal/catalog"
	"github.com/rshade/ghg-footprint/internal/config"
	"github.com/rshade/ghg-footprint/internal/engine"
	"github.com/rshade/ghg-footprint/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		listen      string
		catalogPath string
		offline     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the footprint calculator over HTTP",
		Long: `Starts a stateless JSON API:

  POST /v1/footprint  activity profile in, report out
  GET  /v1/catalog    active catalog
  GET  /healthz       liveness
  GET  /metrics       Prometheus metrics

Cross-origin access is configured with GHG_CORS_ALLOWED_ORIGINS,
GHG_CORS_ALLOW_CREDENTIALS and GHG_CORS_MAX_AGE.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if listen == "" {
				listen = a.cfg.Server.Listen
			}
			if catalogPath == "" {
				catalogPath = a.cfg.Catalog.Path
			}

			corsCfg, err := config.ParseCORS(a.logger)
			if err != nil {
				return err
			}
			cat, err := catalog.Load(catalogPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			svc, err := a.newService(ctx, offline, reg)
			if err != nil {
				return err
			}
			opts := []engine.Option{
				engine.WithLogger(a.logger),
				engine.WithMetrics(carbon.NewMetrics(reg)),
				engine.WithConcurrency(a.cfg.Service.Concurrency),
				engine.WithTopN(a.cfg.Report.TopN),
				engine.WithBaseYear(a.cfg.Pathway.BaseYear),
			}
			if svc != nil {
				opts = append(opts, engine.WithService(svc))
			}

			srv := server.New(engine.New(cat, opts...),
				server.WithLogger(a.logger),
				server.WithCORS(corsCfg),
				server.WithGatherer(reg),
			)
			return server.ListenAndServe(ctx, listen, srv.Handler(), a.logger)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from server.listen, :8080)")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "catalog override file")
	cmd.Flags().BoolVar(&offline, "offline", false, "skip the emission factor service")
	return cmd
}
