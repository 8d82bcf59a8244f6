package carbon

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rshade/ghg-footprint/internal/factorsvc"
	"github.com/rshade/ghg-footprint/internal/profile"
)

// FactorService is the subset of the Emission Factor Service the resolver needs.
type FactorService interface {
	Calculate(ctx context.Context, endpoint string, req factorsvc.Request) (factorsvc.Result, error)
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithService enables service-backed resolution. Without it every category
// is estimated locally.
func WithService(svc FactorService) ResolverOption {
	return func(r *Resolver) {
		r.service = svc
	}
}

// WithLogger sets the logger used to report fallbacks.
func WithLogger(logger zerolog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger.With().Str("component", "resolver").Logger()
	}
}

// WithMetrics records every resolution.
func WithMetrics(m *Metrics) ResolverOption {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// Resolver produces a CategoryEmission for any category. It never fails:
// service errors of any kind fall back to the local estimator.
type Resolver struct {
	service   FactorService
	estimator *Estimator
	logger    zerolog.Logger
	metrics   *Metrics
}

// NewResolver creates a resolver backed by the given estimator.
func NewResolver(estimator *Estimator, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		estimator: estimator,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Offline reports whether the resolver has no service and only estimates.
func (r *Resolver) Offline() bool {
	return r.service == nil
}

// Resolve produces the emissions of a Scope 1 or Scope 3 category.
// CategoryElectricity is resolved on the location basis.
func (r *Resolver) Resolve(ctx context.Context, category Category, p profile.ActivityProfile, in Inputs) CategoryEmission {
	basis := Basis("")
	if category == CategoryElectricity {
		basis = BasisLocation
	}
	return r.resolve(ctx, category, basis, p, in)
}

// ResolveElectricity produces Scope 2 electricity emissions on the given basis.
func (r *Resolver) ResolveElectricity(ctx context.Context, basis Basis, p profile.ActivityProfile) CategoryEmission {
	return r.resolve(ctx, CategoryElectricity, basis, p, Inputs{})
}

func (r *Resolver) resolve(ctx context.Context, category Category, basis Basis, p profile.ActivityProfile, in Inputs) CategoryEmission {
	scope, _ := ScopeOf(category)
	ce := CategoryEmission{
		Category:   category,
		Scope:      scope,
		Basis:      basis,
		Applicable: true,
	}

	if !Applicable(category, p) {
		ce.Applicable = false
		ce.Provenance = ProvenanceNotApplicable
		ce.Method = "not applicable"
		r.metrics.observe(ce)
		return ce
	}

	endpoint := Endpoint(category, basis)
	var serviceErr error
	if endpoint != "" && r.service != nil {
		if req, ok := BuildRequest(category, basis, p); ok {
			result, err := r.service.Calculate(ctx, endpoint, req)
			if err == nil {
				ce.TonnesCO2e = result.CO2e
				ce.Provenance = ProvenanceMeasured
				ce.Method = "service: " + endpoint
				ce.EmissionFactor = result.EmissionFactor
				ce.Gases = result.Gases
				ce.GridMix = result.GridMix
				ce.ResidualMixSource = result.ResidualMixSource
				if basis == BasisMarket {
					portions := SplitRenewable(p.ElectricityConsumption, p.RenewableShare())
					ce.Portions = &portions
				}
				r.metrics.observe(ce)
				return ce
			}
			serviceErr = err
		}
	}

	r.estimate(&ce, p, in)
	if serviceErr != nil {
		ce.ServiceError = serviceErr.Error()
		r.logger.Warn().
			Str("category", string(category)).
			Str("endpoint", endpoint).
			Float64("estimate_tonnes", ce.TonnesCO2e).
			Err(serviceErr).
			Msg("emission factor service failed, using local estimate")
	}
	r.metrics.observe(ce)
	return ce
}

func (r *Resolver) estimate(ce *CategoryEmission, p profile.ActivityProfile, in Inputs) {
	ce.Provenance = ProvenanceEstimated
	ce.Method = r.estimator.describe(ce.Category, ce.Basis, p)
	ce.EmissionFactor = r.estimator.factorFor(ce.Category, p)

	if ce.Category == CategoryElectricity {
		ce.TonnesCO2e, ce.Portions = r.estimator.EstimateElectricity(ce.Basis, p)
		return
	}

	tonnes, ok := r.estimator.EstimateTonnes(ce.Category, p, in)
	if !ok {
		r.logger.Warn().
			Str("category", string(ce.Category)).
			Str("heating_fuel", p.HeatingFuel).
			Str("fleet_fuel_type", p.FleetFuelType).
			Str("refrigerant_type", p.RefrigerantType).
			Msg("no local factor for category, reporting zero")
		ce.Provenance = ProvenanceUnresolved
		ce.Method = "estimate unavailable: no factor configured"
		ce.EmissionFactor = 0
		return
	}
	ce.TonnesCO2e = tonnes
}
