package main

import (
	"io"

	"github.com/rshade/ghg-footprint/internal/catalog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newCatalogCmd(a *app) *cobra.Command {
	var catalogPath string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the active catalog as YAML",
		Long:  "Prints the embedded default catalog merged with the --catalog override, if any. The output is a valid override file.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if catalogPath == "" {
				catalogPath = a.cfg.Catalog.Path
			}
			cat, err := catalog.Load(catalogPath)
			if err != nil {
				return err
			}
			return writeCatalog(a.stdout, cat)
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "catalog override file")
	return cmd
}

func writeCatalog(w io.Writer, cat catalog.Catalog) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cat); err != nil {
		return err
	}
	return enc.Close()
}
