package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rshade/ghg-footprint/internal/carbon"
	"github.com/rshade/ghg-footprint/internal/catalog"
	"github.com/rshade/ghg-footprint/internal/factorsvc"
	"github.com/rshade/ghg-footprint/internal/pathway"
	"github.com/rshade/ghg-footprint/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	tonnes float64
	err    error
}

func (s stubService) Calculate(_ context.Context, _ string, _ factorsvc.Request) (factorsvc.Result, error) {
	if s.err != nil {
		return factorsvc.Result{}, s.err
	}
	return factorsvc.Result{CO2e: s.tonnes, Unit: "tonnes"}, nil
}

func fixedClock() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return New(cat, append([]Option{WithClock(fixedClock)}, opts...)...)
}

func TestRun_OfflineExample(t *testing.T) {
	e := newEngine(t)

	report, err := e.Run(context.Background(), profile.Example())
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, ModeOffline, report.Mode)
	assert.Equal(t, fixedClock(), report.GeneratedAt)

	tot := report.Footprint.Totals
	assert.InDelta(t, 364.34, tot.Scope1, 1e-6)
	assert.InDelta(t, 125.0, tot.Scope2Location, 1e-6)
	assert.InDelta(t, 87.5, tot.Scope2Market, 1e-6)
	assert.InDelta(t, 2924.0, tot.Scope3, 1e-6)
	assert.InDelta(t, 3413.34, tot.TotalLocation, 1e-6)
	assert.InDelta(t, 3375.84, tot.TotalMarket, 1e-6)

	assert.Equal(t, ProvenanceSummary{Estimated: 12, NotApplicable: 2}, report.Provenance)
	assert.Len(t, report.Footprint.Hotspots, 5)
	assert.Equal(t, carbon.CategoryPurchasedGoods, report.Footprint.Hotspots[0].Category)
}

func TestRun_PathwayAndRoadmap(t *testing.T) {
	e := newEngine(t)

	report, err := e.Run(context.Background(), profile.Example())
	require.NoError(t, err)

	require.NotNil(t, report.Pathway)
	assert.Empty(t, report.PathwayNote)
	assert.Equal(t, 2024, report.Pathway.BaseYear)
	assert.InDelta(t, report.Footprint.Totals.TotalLocation, report.Pathway.BaselineTonnes, 1e-9)
	assert.InDelta(t, 3413.34*0.1, report.Pathway.ResidualToOffset, 1e-6)

	require.Len(t, report.Roadmap.Potentials, 6)
	var sum float64
	for _, p := range report.Roadmap.Potentials {
		sum += p.ReductionTonnes
		if p.Initiative.Name == "Energy Efficiency" {
			assert.InDelta(t, 25.0, p.ReductionTonnes, 1e-9)
		}
	}
	assert.InDelta(t, sum, report.Roadmap.TotalPotential, 1e-9)

	require.Len(t, report.CostBenefit, 4)
	assert.Equal(t, "LED Lighting Upgrade", report.CostBenefit[0].Initiative.Name)
	assert.Equal(t, 50.0, report.CarbonPrice)
	require.Len(t, report.Liability, 2)
	assert.InDelta(t, 3413.34*100, report.Liability[1].AnnualCost, 1e-6)
}

func TestRun_BaseYear(t *testing.T) {
	p := profile.Example()
	p.ReportingYear = 0

	report, err := newEngine(t).Run(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 2026, report.Pathway.BaseYear)

	report, err = newEngine(t, WithBaseYear(2025)).Run(context.Background(), profile.Example())
	require.NoError(t, err)
	assert.Equal(t, 2025, report.Pathway.BaseYear)
	assert.Equal(t, 5, report.Pathway.Pace.Years)
}

func TestRun_PathwayOmittedForZeroBaseline(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)
	cat.Factors.WasteTonnesPerEmployee = 0
	p := profile.ActivityProfile{
		CompanyName:   "Empty Co",
		EmployeeCount: 1,
		Location:      profile.Location{Country: "USA"},
		ReportingYear: 2024,
	}

	report, err := New(cat, WithClock(fixedClock)).Run(context.Background(), p)
	require.NoError(t, err)

	assert.Zero(t, report.Footprint.Totals.TotalLocation)
	assert.Nil(t, report.Pathway)
	assert.Equal(t, pathway.ErrZeroBaseline.Error(), report.PathwayNote)
	assert.False(t, report.Roadmap.TotalPercent.Defined)
	assert.False(t, report.Footprint.Totals.Scope1Share.Defined)
}

func TestRun_InvalidProfile(t *testing.T) {
	p := profile.Example()
	p.RenewableEnergyPercent = 120

	_, err := newEngine(t).Run(context.Background(), p)
	assert.True(t, errors.Is(err, profile.ErrInvalidProfile))
}

func TestRun_UnknownFuelRejected(t *testing.T) {
	p := profile.Example()
	p.HeatingFuel = "coal"
	p.HeatingFuelAmount = 50000
	p.RenewableEnergyPercent = 120

	_, err := newEngine(t).Run(context.Background(), p)
	require.True(t, errors.Is(err, profile.ErrInvalidProfile))

	var verr *profile.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 2)
	assert.Equal(t, "renewable_energy_percent", verr.Fields[0].Field)
	assert.Equal(t, "heating_fuel", verr.Fields[1].Field)
}

func TestRun_UnknownFuelWithZeroAmount(t *testing.T) {
	p := profile.Example()
	p.HeatingFuel = "coal"
	p.HeatingFuelAmount = 0

	report, err := newEngine(t).Run(context.Background(), p)
	require.NoError(t, err)
	assert.Zero(t, report.Provenance.Unresolved)
	assert.InDelta(t, 99.34, report.Footprint.Totals.Scope1, 1e-6)
}

func TestRun_HeatingFuelUnitConverted(t *testing.T) {
	p := profile.Example()
	p.HeatingFuelAmount = 5000
	p.HeatingFuelUnit = "MMBtu"

	report, err := newEngine(t).Run(context.Background(), p)
	require.NoError(t, err)
	assert.InDelta(t, 364.34, report.Footprint.Totals.Scope1, 1e-6)
	assert.InDelta(t, 3413.34, report.Footprint.Totals.TotalLocation, 1e-6)

	p.HeatingFuelUnit = "gallons"
	_, err = newEngine(t).Run(context.Background(), p)
	var verr *profile.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "heating_fuel_unit", verr.Fields[0].Field)
}

func TestRun_ServiceFailuresFallBack(t *testing.T) {
	svc := stubService{err: fmt.Errorf("%w: connection refused", factorsvc.ErrServiceUnavailable)}
	e := newEngine(t, WithService(svc))

	report, err := e.Run(context.Background(), profile.Example())
	require.NoError(t, err)

	assert.Equal(t, ModeOnline, report.Mode)
	// stationary, mobile, fugitive, both electricity bases, business travel
	assert.Equal(t, 6, report.Provenance.Fallbacks)
	assert.Zero(t, report.Provenance.Measured)
	assert.InDelta(t, 3413.34, report.Footprint.Totals.TotalLocation, 1e-6)
}

func TestRun_MeasuredValuesFlowThrough(t *testing.T) {
	e := newEngine(t, WithService(stubService{tonnes: 1}))

	report, err := e.Run(context.Background(), profile.Example())
	require.NoError(t, err)

	assert.Equal(t, 6, report.Provenance.Measured)
	assert.Zero(t, report.Provenance.Fallbacks)
	assert.InDelta(t, 3.0, report.Footprint.Totals.Scope1, 1e-9)
	assert.InDelta(t, 1.0, report.Footprint.Totals.Scope2Location, 1e-9)
	// well-to-tank follows the measured stationary combustion amount
	assert.InDelta(t, 0.2, report.Scope3.Amount(carbon.CategoryFuelEnergyRelated), 1e-9)
}

func TestRun_TopNOverride(t *testing.T) {
	report, err := newEngine(t, WithTopN(-1)).Run(context.Background(), profile.Example())
	require.NoError(t, err)
	assert.Len(t, report.Footprint.Hotspots, 11)
}

func TestRun_Deterministic(t *testing.T) {
	e := newEngine(t, WithConcurrency(8))

	a, err := e.Run(context.Background(), profile.Example())
	require.NoError(t, err)
	b, err := e.Run(context.Background(), profile.Example())
	require.NoError(t, err)

	assert.NotEqual(t, a.RunID, b.RunID)
	a.RunID, b.RunID = "", ""
	assert.Equal(t, a, b)
}
