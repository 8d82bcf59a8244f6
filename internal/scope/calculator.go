package scope

import (
	"context"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rshade/ghg-footprint/internal/carbon"
	"github.com/rshade/ghg-footprint/internal/profile"
	"golang.org/x/sync/errgroup"
)

// Resolver resolves individual categories. *carbon.Resolver implements it.
type Resolver interface {
	Resolve(ctx context.Context, category carbon.Category, p profile.ActivityProfile, in carbon.Inputs) carbon.CategoryEmission
	ResolveElectricity(ctx context.Context, basis carbon.Basis, p profile.ActivityProfile) carbon.CategoryEmission
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithConcurrency bounds the number of categories resolved at once.
// Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(c *Calculator) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithLogger sets the calculator logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Calculator) {
		c.logger = logger.With().Str("component", "scope").Logger()
	}
}

// Calculator builds scope breakdowns from an activity profile.
type Calculator struct {
	resolver    Resolver
	concurrency int
	logger      zerolog.Logger
}

// NewCalculator creates a calculator. Concurrency defaults to runtime.NumCPU().
func NewCalculator(resolver Resolver, opts ...Option) *Calculator {
	c := &Calculator{
		resolver:    resolver,
		concurrency: runtime.NumCPU(),
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Scope1 resolves stationary combustion, mobile combustion and fugitive
// emissions. Every category is present even when its amount is zero.
func (c *Calculator) Scope1(ctx context.Context, p profile.ActivityProfile) Breakdown {
	b := Breakdown{
		Scope:   carbon.Scope1,
		Entries: c.resolveAll(ctx, carbon.Scope1Categories, p, carbon.Inputs{}),
	}
	c.logger.Debug().Float64("subtotal", b.Subtotal()).Msg("scope 1 resolved")
	return b
}

// Scope2 resolves electricity on both bases. Both breakdowns share the
// category key carbon.CategoryElectricity.
func (c *Calculator) Scope2(ctx context.Context, p profile.ActivityProfile) (location, market Breakdown) {
	var loc, mkt carbon.CategoryEmission

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	g.Go(func() error {
		loc = c.resolver.ResolveElectricity(gCtx, carbon.BasisLocation, p)
		return nil
	})
	g.Go(func() error {
		mkt = c.resolver.ResolveElectricity(gCtx, carbon.BasisMarket, p)
		return nil
	})
	_ = g.Wait()

	location = Breakdown{Scope: carbon.Scope2, Basis: carbon.BasisLocation, Entries: []carbon.CategoryEmission{loc}}
	market = Breakdown{Scope: carbon.Scope2, Basis: carbon.BasisMarket, Entries: []carbon.CategoryEmission{mkt}}

	c.logger.Debug().
		Float64("location_based", location.Subtotal()).
		Float64("market_based", market.Subtotal()).
		Msg("scope 2 resolved")
	return location, market
}

// Scope3 resolves the value-chain categories. It requires the Scope 1
// breakdown: fuel and energy-related activities derive from stationary combustion.
func (c *Calculator) Scope3(ctx context.Context, p profile.ActivityProfile, scope1 Breakdown) Breakdown {
	in := carbon.Inputs{
		StationaryCombustion: scope1.Amount(carbon.CategoryStationaryCombustion),
	}
	b := Breakdown{
		Scope:   carbon.Scope3,
		Entries: c.resolveAll(ctx, carbon.Scope3Categories, p, in),
	}
	c.logger.Debug().Float64("subtotal", b.Subtotal()).Msg("scope 3 resolved")
	return b
}

// resolveAll resolves categories concurrently. Results are stored by index,
// so breakdown order matches the category order regardless of completion order.
func (c *Calculator) resolveAll(ctx context.Context, categories []carbon.Category, p profile.ActivityProfile, in carbon.Inputs) []carbon.CategoryEmission {
	entries := make([]carbon.CategoryEmission, len(categories))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, category := range categories {
		g.Go(func() error {
			entries[i] = c.resolver.Resolve(gCtx, category, p, in)
			// Resolution never fails; a failed service call is already an estimate.
			return nil
		})
	}
	_ = g.Wait()

	return entries
}
