package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rshade/ghg-footprint/internal/catalog"
	"github.com/rshade/ghg-footprint/internal/engine"
	"github.com/rshade/ghg-footprint/internal/profile"
	"github.com/rshade/ghg-footprint/internal/report"
	"github.com/spf13/cobra"
)

type calculateFlags struct {
	profilePath string
	example     bool
	catalogPath string
	format      string
	output      string
	topN        int
	offline     bool
	baseYear    int
}

func newCalculateCmd(a *app) *cobra.Command {
	var f calculateFlags

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate a footprint report for an activity profile",
		Example: `  ghg-footprint calculate --profile acme.yaml
  ghg-footprint calculate --example --offline --format json
  ghg-footprint calculate --profile acme.json --format xlsx --output acme.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("top") {
				f.topN = a.cfg.Report.TopN
			}
			if !cmd.Flags().Changed("base-year") {
				f.baseYear = a.cfg.Pathway.BaseYear
			}
			if !cmd.Flags().Changed("format") {
				f.format = a.cfg.Report.Format
			}
			if f.catalogPath == "" {
				f.catalogPath = a.cfg.Catalog.Path
			}
			return a.calculate(cmd.Context(), f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.profilePath, "profile", "", "activity profile file (.yaml, .yml or .json)")
	flags.BoolVar(&f.example, "example", false, "use the built-in example profile")
	flags.StringVar(&f.catalogPath, "catalog", "", "catalog override file")
	flags.StringVar(&f.format, "format", string(report.FormatText), "output format: text, json, yaml or xlsx")
	flags.StringVarP(&f.output, "output", "o", "", "write the report to a file instead of stdout")
	flags.IntVar(&f.topN, "top", 0, "number of hotspots to list (negative lists all)")
	flags.BoolVar(&f.offline, "offline", false, "skip the emission factor service")
	flags.IntVar(&f.baseYear, "base-year", 0, "pathway base year (default: profile reporting year, then current year)")
	cmd.MarkFlagsMutuallyExclusive("profile", "example")
	cmd.MarkFlagsOneRequired("profile", "example")
	return cmd
}

func (a *app) calculate(ctx context.Context, f calculateFlags) error {
	format, err := report.ParseFormat(f.format)
	if err != nil {
		return err
	}
	if format.Binary() && f.output == "" {
		return fmt.Errorf("format %s requires --output", format)
	}

	p := profile.Example()
	if !f.example {
		if p, err = profile.Load(f.profilePath); err != nil {
			return err
		}
	}
	cat, err := catalog.Load(f.catalogPath)
	if err != nil {
		return err
	}
	// Reject a bad profile before contacting the service.
	if err := engine.ValidateProfile(p.WithDefaults(), cat.Factors); err != nil {
		return err
	}

	svc, err := a.newService(ctx, f.offline, nil)
	if err != nil {
		return err
	}

	opts := []engine.Option{
		engine.WithLogger(a.logger),
		engine.WithConcurrency(a.cfg.Service.Concurrency),
		engine.WithTopN(f.topN),
		engine.WithBaseYear(f.baseYear),
	}
	if svc != nil {
		opts = append(opts, engine.WithService(svc))
	}

	rep, err := engine.New(cat, opts...).Run(ctx, p)
	if err != nil {
		return err
	}
	return a.write(f.output, func(w io.Writer) error {
		return report.Render(w, rep, format)
	})
}

// write renders to path, or to stdout when path is empty.
func (a *app) write(path string, render func(io.Writer) error) (err error) {
	if path == "" {
		return render(a.stdout)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()

	if err := render(file); err != nil {
		return err
	}
	a.logger.Info().Str("path", path).Msg("report written")
	return nil
}
