package main

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rshade/ghg-footprint/internal/carbon"
	"github.com/rshade/ghg-footprint/internal/config"
	"github.com/rshade/ghg-footprint/internal/factorsvc"
	"github.com/spf13/cobra"
)

// app carries state shared by the subcommands once the root pre-run has
// loaded configuration.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configFile string
	envFile    string
	logLevel   string
	logFormat  string

	cfg    *config.Config
	logger zerolog.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		stdout: stdout,
		stderr: stderr,
		logger: zerolog.Nop(),
	}

	root := &cobra.Command{
		Use:           "ghg-footprint",
		Short:         "GHG Protocol carbon footprint calculator",
		Long:          "Computes Scope 1, 2 and 3 emissions for a company activity profile, then projects a reduction pathway and ranks reduction initiatives.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (default ./ghg-footprint.yaml when present)")
	pf.StringVar(&a.envFile, "env-file", "", "dotenv file (default ./.env when present)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&a.logFormat, "log-format", "", "log format: console or json")

	root.AddCommand(
		newCalculateCmd(a),
		newServeCmd(a),
		newCatalogCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(config.LoadOptions{ConfigFile: a.configFile, EnvFile: a.envFile})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = a.logFormat
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg
	a.logger = config.NewLogger(cfg.Log, a.stderr)
	return nil
}

// newService returns an authenticated factor service client, or nil when
// the service is disabled. An authentication failure is returned as is.
func (a *app) newService(ctx context.Context, offline bool, reg prometheus.Registerer) (carbon.FactorService, error) {
	svc := a.cfg.Service
	if offline || svc.Offline {
		a.logger.Info().Msg("offline mode: all categories estimated locally")
		return nil, nil
	}
	if !svc.Enabled() {
		a.logger.Info().Msg("no emission factor service credentials configured; running offline")
		return nil, nil
	}

	client := factorsvc.NewClient(svc.APIKey, svc.ClientID,
		factorsvc.WithBaseURL(svc.BaseURL),
		factorsvc.WithTimeout(svc.Timeout),
		factorsvc.WithRateLimit(svc.RateLimit),
		factorsvc.WithLogger(a.logger),
		factorsvc.WithMetrics(factorsvc.NewMetrics(reg)),
	)
	if err := client.Authenticate(ctx); err != nil {
		return nil, err
	}
	a.logger.Info().Str("base_url", svc.BaseURL).Msg("connected to emission factor service")
	return client, nil
}
