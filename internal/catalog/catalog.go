// Package catalog holds the static configuration the engine runs against:
// estimation factors, pathway defaults, and the initiative catalogs.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"math"
	"os"
	"slices"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/rshade/ghg-footprint/internal/carbon"
	"github.com/rshade/ghg-footprint/internal/pathway"
	"github.com/rshade/ghg-footprint/internal/roadmap"
	"gopkg.in/yaml.v3"
)

// SupportedVersions is the catalog schema constraint this build reads.
const SupportedVersions = "^1"

//go:embed default_catalog.yaml
var rawDefaultCatalog []byte

var (
	// ErrIncompatibleCatalog is returned when the catalog version is missing
	// or outside SupportedVersions.
	ErrIncompatibleCatalog = errors.New("incompatible catalog version")

	// ErrInvalidCatalog is returned when catalog contents fail validation.
	ErrInvalidCatalog = errors.New("invalid catalog")
)

// Catalog is the full configuration data set.
type Catalog struct {
	Version            string                      `yaml:"version" json:"version"`
	Factors            carbon.Factors              `yaml:"factors" json:"factors"`
	Pathway            pathway.Options             `yaml:"pathway" json:"pathway"`
	TopN               int                         `yaml:"top_n" json:"top_n"`
	CarbonPrice        float64                     `yaml:"carbon_price" json:"carbon_price"`
	LiabilityPrices    []float64                   `yaml:"liability_prices" json:"liability_prices"`
	Initiatives        []roadmap.Initiative        `yaml:"initiatives" json:"initiatives"`
	CapitalInitiatives []roadmap.CapitalInitiative `yaml:"capital_initiatives" json:"capital_initiatives"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog Catalog
	defaultErr     error
)

// Default returns a copy of the embedded catalog. The embedded data is
// parsed once.
func Default() (Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = decode(rawDefaultCatalog, Catalog{})
		if defaultErr == nil {
			defaultErr = defaultCatalog.Validate()
		}
	})
	if defaultErr != nil {
		return Catalog{}, fmt.Errorf("embedded catalog: %w", defaultErr)
	}
	return defaultCatalog.Clone(), nil
}

// Load reads a catalog file. An empty path returns the default catalog.
// Fields absent from the file keep their default values; map entries are
// merged and lists are replaced.
func Load(path string) (Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	cat, err := Parse(data)
	if err != nil {
		return Catalog{}, fmt.Errorf("catalog %s: %w", path, err)
	}
	return cat, nil
}

// Parse decodes catalog YAML over the default catalog and validates the result.
func Parse(data []byte) (Catalog, error) {
	base, err := Default()
	if err != nil {
		return Catalog{}, err
	}
	base.Version = ""
	cat, err := decode(data, base)
	if err != nil {
		return Catalog{}, err
	}
	if err := cat.Validate(); err != nil {
		return Catalog{}, err
	}
	return cat, nil
}

func decode(data []byte, into Catalog) (Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&into); err != nil {
		return Catalog{}, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return into, nil
}

// Clone returns a deep copy of the catalog.
func (c Catalog) Clone() Catalog {
	out := c
	out.Factors.FuelFactors = maps.Clone(c.Factors.FuelFactors)
	out.Factors.FuelUnits = maps.Clone(c.Factors.FuelUnits)
	out.Factors.RefrigerantGWP = maps.Clone(c.Factors.RefrigerantGWP)
	out.Factors.GridFactors = maps.Clone(c.Factors.GridFactors)
	out.Pathway.Horizons = slices.Clone(c.Pathway.Horizons)
	out.LiabilityPrices = slices.Clone(c.LiabilityPrices)
	out.Initiatives = slices.Clone(c.Initiatives)
	out.CapitalInitiatives = slices.Clone(c.CapitalInitiatives)
	return out
}

// Validate checks the version constraint and every table.
func (c Catalog) Validate() error {
	if err := CheckVersion(c.Version); err != nil {
		return err
	}
	if err := c.Factors.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	if err := c.Pathway.WithDefaults().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	if !nonNegative(c.CarbonPrice) {
		return fmt.Errorf("%w: carbon_price must be a non-negative number (got %g)", ErrInvalidCatalog, c.CarbonPrice)
	}
	for _, p := range c.LiabilityPrices {
		if !nonNegative(p) {
			return fmt.Errorf("%w: liability price must be a non-negative number (got %g)", ErrInvalidCatalog, p)
		}
	}

	for i, in := range c.Initiatives {
		if in.Name == "" {
			return fmt.Errorf("%w: initiatives[%d]: name is required", ErrInvalidCatalog, i)
		}
		if !slices.Contains(roadmap.Phases, in.Phase) {
			return fmt.Errorf("%w: initiative %q: unknown phase %q", ErrInvalidCatalog, in.Name, in.Phase)
		}
		if !ValidSource(in.Source) {
			return fmt.Errorf("%w: initiative %q: unknown source %q", ErrInvalidCatalog, in.Name, in.Source)
		}
		if math.IsNaN(in.Fraction) || in.Fraction < 0 || in.Fraction > 1 {
			return fmt.Errorf("%w: initiative %q: fraction must be in [0, 1] (got %g)", ErrInvalidCatalog, in.Name, in.Fraction)
		}
	}

	for i, in := range c.CapitalInitiatives {
		if in.Name == "" {
			return fmt.Errorf("%w: capital_initiatives[%d]: name is required", ErrInvalidCatalog, i)
		}
		for _, v := range []float64{in.Investment, in.AnnualSavings, in.AnnualReductionTonnes} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: capital initiative %q: values must be finite", ErrInvalidCatalog, in.Name)
			}
		}
	}
	return nil
}

// CheckVersion reports whether a catalog version satisfies SupportedVersions.
func CheckVersion(version string) error {
	if version == "" {
		return fmt.Errorf("%w: version is required", ErrIncompatibleCatalog)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: %q is not a semantic version: %w", ErrIncompatibleCatalog, version, err)
	}
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIncompatibleCatalog, err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrIncompatibleCatalog, version, SupportedVersions)
	}
	return nil
}

// ValidSource reports whether an initiative source names a scope subtotal
// or a known category.
func ValidSource(source string) bool {
	switch source {
	case roadmap.SourceScope1, roadmap.SourceScope2Location, roadmap.SourceScope2Market, roadmap.SourceScope3:
		return true
	}
	_, ok := carbon.ScopeOf(carbon.Category(source))
	return ok
}

func nonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
