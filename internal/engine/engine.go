// Package engine runs a full footprint calculation: scope breakdowns,
// aggregation, the reduction pathway and the initiative roadmap.
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rshade/ghg-footprint/internal/carbon"
	"github.com/rshade/ghg-footprint/internal/catalog"
	"github.com/rshade/ghg-footprint/internal/footprint"
	"github.com/rshade/ghg-footprint/internal/pathway"
	"github.com/rshade/ghg-footprint/internal/profile"
	"github.com/rshade/ghg-footprint/internal/roadmap"
	"github.com/rshade/ghg-footprint/internal/scope"
	"golang.org/x/sync/errgroup"
)

// Mode values reported in Report.Mode.
const (
	ModeOnline  = "online"
	ModeOffline = "offline"
)

// Option configures an Engine.
type Option func(*Engine)

// WithService resolves service-backed categories through svc.
func WithService(svc carbon.FactorService) Option {
	return func(e *Engine) {
		e.service = svc
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics records category resolutions.
func WithMetrics(m *carbon.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithConcurrency bounds concurrent category resolution per scope.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		e.concurrency = n
	}
}

// WithTopN overrides the catalog hotspot count. Zero keeps the catalog value.
func WithTopN(n int) Option {
	return func(e *Engine) {
		if n != 0 {
			e.topN = n
		}
	}
}

// WithBaseYear fixes the pathway base year. Zero selects the profile's
// reporting year, or the current year when that is unset.
func WithBaseYear(year int) Option {
	return func(e *Engine) {
		e.baseYear = year
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// Engine is safe for concurrent use; each Run is independent.
type Engine struct {
	catalog     catalog.Catalog
	service     carbon.FactorService
	metrics     *carbon.Metrics
	logger      zerolog.Logger
	concurrency int
	topN        int
	baseYear    int
	now         func() time.Time

	calc *scope.Calculator
}

// New creates an engine over a catalog.
func New(cat catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog: cat,
		logger:  zerolog.Nop(),
		topN:    cat.TopN,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	resolverOpts := []carbon.ResolverOption{
		carbon.WithLogger(e.logger),
		carbon.WithMetrics(e.metrics),
	}
	if e.service != nil {
		resolverOpts = append(resolverOpts, carbon.WithService(e.service))
	}
	resolver := carbon.NewResolver(carbon.NewEstimator(cat.Factors), resolverOpts...)
	e.calc = scope.NewCalculator(resolver,
		scope.WithConcurrency(e.concurrency),
		scope.WithLogger(e.logger),
	)
	return e
}

// Catalog returns the catalog the engine runs against.
func (e *Engine) Catalog() catalog.Catalog {
	return e.catalog.Clone()
}

// Run validates the profile and computes the full report. The only error is
// an invalid profile; service failures degrade to local estimates.
func (e *Engine) Run(ctx context.Context, p profile.ActivityProfile) (Report, error) {
	p = p.WithDefaults()
	if err := ValidateProfile(p, e.catalog.Factors); err != nil {
		return Report{}, err
	}

	runID := uuid.NewString()
	logger := e.logger.With().Str("run_id", runID).Logger()
	start := e.now()

	mode := ModeOnline
	if e.service == nil {
		mode = ModeOffline
	}
	logger.Info().
		Str("company", p.CompanyName).
		Str("mode", mode).
		Msg("starting footprint calculation")

	var (
		s1          scope.Breakdown
		s2Location  scope.Breakdown
		s2Market    scope.Breakdown
		independent errgroup.Group
	)
	independent.Go(func() error {
		s1 = e.calc.Scope1(ctx, p)
		return nil
	})
	independent.Go(func() error {
		s2Location, s2Market = e.calc.Scope2(ctx, p)
		return nil
	})
	_ = independent.Wait()
	s3 := e.calc.Scope3(ctx, p, s1)

	fp := footprint.Aggregate(s1, s2Location, s2Market, s3, footprint.Options{
		TopN:          e.topN,
		EmployeeCount: p.EmployeeCount,
		Industry:      p.Industry,
	})

	report := Report{
		RunID:          runID,
		GeneratedAt:    start.UTC(),
		Mode:           mode,
		Profile:        p,
		Scope1:         s1,
		Scope2Location: s2Location,
		Scope2Market:   s2Market,
		Scope3:         s3,
		Footprint:      fp,
		Provenance:     summarize(s1, s2Location, s2Market, s3),
		CarbonPrice:    e.catalog.CarbonPrice,
	}

	opts := e.catalog.Pathway
	opts.BaseYear = e.resolveBaseYear(p)
	pw, err := pathway.Compute(fp.Totals.TotalLocation, opts)
	if err != nil {
		report.PathwayNote = err.Error()
		logger.Warn().Err(err).Msg("reduction pathway omitted")
	} else {
		report.Pathway = &pw
	}

	sources := roadmap.NewSources(s1, s2Location, s2Market, s3)
	report.Roadmap = roadmap.Build(sources, e.catalog.Initiatives, fp.Totals.TotalLocation)
	report.CostBenefit = roadmap.EvaluateCostBenefit(e.catalog.CapitalInitiatives, e.catalog.CarbonPrice)
	report.Liability = roadmap.CarbonLiability(fp.Totals.TotalLocation, e.catalog.LiabilityPrices)

	logger.Info().
		Float64("total_location_tco2e", fp.Totals.TotalLocation).
		Float64("total_market_tco2e", fp.Totals.TotalMarket).
		Int("measured", report.Provenance.Measured).
		Int("estimated", report.Provenance.Estimated).
		Int("unresolved", report.Provenance.Unresolved).
		Int("fallbacks", report.Provenance.Fallbacks).
		Dur("duration", e.now().Sub(start)).
		Msg("footprint calculation complete")

	return report, nil
}

// ValidateProfile checks the profile invariants and that every fuel and
// refrigerant it uses resolves against factors. All violations are returned
// in one *profile.ValidationError.
func ValidateProfile(p profile.ActivityProfile, factors carbon.Factors) error {
	var fields []profile.FieldError
	if err := p.Validate(); err != nil {
		var verr *profile.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		fields = append(fields, verr.Fields...)
	}
	fields = append(fields, factors.CheckProfile(p)...)
	if len(fields) > 0 {
		return &profile.ValidationError{Fields: fields}
	}
	return nil
}

func (e *Engine) resolveBaseYear(p profile.ActivityProfile) int {
	switch {
	case e.baseYear > 0:
		return e.baseYear
	case p.ReportingYear > 0:
		return p.ReportingYear
	default:
		return e.now().Year()
	}
}

func summarize(breakdowns ...scope.Breakdown) ProvenanceSummary {
	var s ProvenanceSummary
	for _, b := range breakdowns {
		for _, entry := range b.Entries {
			switch entry.Provenance {
			case carbon.ProvenanceMeasured:
				s.Measured++
			case carbon.ProvenanceEstimated:
				s.Estimated++
			case carbon.ProvenanceNotApplicable:
				s.NotApplicable++
			case carbon.ProvenanceUnresolved:
				s.Unresolved++
			}
			if entry.ServiceError != "" {
				s.Fallbacks++
			}
		}
	}
	return s
}
