package carbon

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rshade/ghg-footprint/internal/factorsvc"
	"github.com/rshade/ghg-footprint/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeService returns canned results per endpoint and records calls.
type fakeService struct {
	mu      sync.Mutex
	results map[string]factorsvc.Result
	errs    map[string]error
	calls   []string
}

func (f *fakeService) Calculate(_ context.Context, endpoint string, _ factorsvc.Request) (factorsvc.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, endpoint)
	if err, ok := f.errs[endpoint]; ok {
		return factorsvc.Result{}, err
	}
	if res, ok := f.results[endpoint]; ok {
		return res, nil
	}
	return factorsvc.Result{}, fmt.Errorf("%w: no fixture", factorsvc.ErrServiceUnavailable)
}

func (f *fakeService) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestResolver_Measured(t *testing.T) {
	svc := &fakeService{results: map[string]factorsvc.Result{
		factorsvc.EndpointStationary: {CO2e: 270.5, Gases: &factorsvc.Gases{FossilCO2: 270}, EmissionFactor: 0.00541},
	}}
	r := NewResolver(NewEstimator(DefaultFactors()), WithService(svc))

	got := r.Resolve(context.Background(), CategoryStationaryCombustion, profile.Example(), Inputs{})

	assert.Equal(t, ProvenanceMeasured, got.Provenance)
	assert.Equal(t, Scope1, got.Scope)
	assert.True(t, got.Applicable)
	assert.InDelta(t, 270.5, got.TonnesCO2e, 1e-9)
	assert.Empty(t, got.ServiceError)
	require.NotNil(t, got.Gases)
	assert.Equal(t, "service: stationary", got.Method)
}

func TestResolver_FallsBackOnAnyFailure(t *testing.T) {
	failures := []error{
		&factorsvc.StatusError{Endpoint: factorsvc.EndpointMobile, StatusCode: 503},
		fmt.Errorf("%w: mobile: missing emissions.CO2e", factorsvc.ErrMalformedResponse),
		fmt.Errorf("%w: %w", factorsvc.ErrServiceUnavailable, context.DeadlineExceeded),
		errors.New("connection refused"),
	}

	for _, failure := range failures {
		t.Run(failure.Error(), func(t *testing.T) {
			svc := &fakeService{errs: map[string]error{factorsvc.EndpointMobile: failure}}
			r := NewResolver(NewEstimator(DefaultFactors()), WithService(svc))

			got := r.Resolve(context.Background(), CategoryMobileCombustion, profile.Example(), Inputs{})

			assert.Equal(t, ProvenanceEstimated, got.Provenance)
			assert.InDelta(t, 10000*GasolineTonnesPerGallon, got.TonnesCO2e, 1e-9)
			assert.Equal(t, failure.Error(), got.ServiceError)
			assert.Equal(t, 1, svc.callCount())
		})
	}
}

func TestResolver_EstimatorOnlyCategoriesNeverCallService(t *testing.T) {
	svc := &fakeService{}
	r := NewResolver(NewEstimator(DefaultFactors()), WithService(svc))
	p := profile.Example()

	for _, c := range []Category{
		CategoryPurchasedGoods, CategoryCapitalGoods, CategoryFuelEnergyRelated,
		CategoryUpstreamTransport, CategoryWaste, CategoryCommuting,
	} {
		got := r.Resolve(context.Background(), c, p, Inputs{StationaryCombustion: 100})
		assert.Equal(t, ProvenanceEstimated, got.Provenance, c)
		assert.Empty(t, got.ServiceError, c)
	}
	assert.Zero(t, svc.callCount())
}

func TestResolver_NotApplicable(t *testing.T) {
	svc := &fakeService{}
	r := NewResolver(NewEstimator(DefaultFactors()), WithService(svc))
	p := profile.Example()
	p.ProductsSold = 1000
	p.ProductLifetimeKWh = 500

	got := r.Resolve(context.Background(), CategoryUseOfSoldProducts, p, Inputs{})
	assert.False(t, got.Applicable)
	assert.Equal(t, ProvenanceNotApplicable, got.Provenance)
	assert.Zero(t, got.TonnesCO2e)

	p.SellsEnergyUsingProducts = true
	got = r.Resolve(context.Background(), CategoryUseOfSoldProducts, p, Inputs{})
	assert.True(t, got.Applicable)
	assert.Equal(t, ProvenanceEstimated, got.Provenance)
	assert.InDelta(t, 200.0, got.TonnesCO2e, 1e-9)
}

// TestResolver_ZeroIsDistinguishable checks that measured zero, fallback zero
// and not-applicable zero can be told apart.
func TestResolver_ZeroIsDistinguishable(t *testing.T) {
	p := profile.Example()
	p.RefrigerantLeakage = 0

	measured := NewResolver(NewEstimator(DefaultFactors()), WithService(&fakeService{
		results: map[string]factorsvc.Result{factorsvc.EndpointFugitive: {CO2e: 0}},
	})).Resolve(context.Background(), CategoryFugitive, p, Inputs{})

	fallback := NewResolver(NewEstimator(DefaultFactors()), WithService(&fakeService{
		errs: map[string]error{factorsvc.EndpointFugitive: factorsvc.ErrServiceUnavailable},
	})).Resolve(context.Background(), CategoryFugitive, p, Inputs{})

	notApplicable := NewResolver(NewEstimator(DefaultFactors())).
		Resolve(context.Background(), CategoryEndOfLife, p, Inputs{})

	for _, ce := range []CategoryEmission{measured, fallback, notApplicable} {
		assert.Zero(t, ce.TonnesCO2e)
	}
	assert.Equal(t, ProvenanceMeasured, measured.Provenance)
	assert.Equal(t, ProvenanceEstimated, fallback.Provenance)
	assert.NotEmpty(t, fallback.ServiceError)
	assert.Equal(t, ProvenanceNotApplicable, notApplicable.Provenance)
}

func TestResolver_ElectricityBases(t *testing.T) {
	svc := &fakeService{results: map[string]factorsvc.Result{
		factorsvc.EndpointLocationBased: {CO2e: 125, GridMix: map[string]float64{"solar": 20}},
		factorsvc.EndpointMarketBased:   {CO2e: 90, ResidualMixSource: "Green-e"},
	}}
	r := NewResolver(NewEstimator(DefaultFactors()), WithService(svc))
	p := profile.Example()

	loc := r.ResolveElectricity(context.Background(), BasisLocation, p)
	mkt := r.ResolveElectricity(context.Background(), BasisMarket, p)

	assert.Equal(t, CategoryElectricity, loc.Category)
	assert.Equal(t, CategoryElectricity, mkt.Category)
	assert.Equal(t, BasisLocation, loc.Basis)
	assert.Equal(t, BasisMarket, mkt.Basis)
	assert.InDelta(t, 125.0, loc.TonnesCO2e, 1e-9)
	assert.InDelta(t, 90.0, mkt.TonnesCO2e, 1e-9)
	assert.Equal(t, "Green-e", mkt.ResidualMixSource)
	require.NotNil(t, mkt.Portions)
	assert.InDelta(t, 150000.0, mkt.Portions.RenewableKWh, 1e-6)
	assert.Nil(t, loc.Portions)
}

func TestResolver_Offline(t *testing.T) {
	r := NewResolver(NewEstimator(DefaultFactors()))
	assert.True(t, r.Offline())

	got := r.Resolve(context.Background(), CategoryBusinessTravel, profile.Example(), Inputs{})
	assert.Equal(t, ProvenanceEstimated, got.Provenance)
	assert.Empty(t, got.ServiceError)
	assert.InDelta(t, 75.0, got.TonnesCO2e, 1e-9)
}

func TestResolver_UnknownFuelIsUnresolved(t *testing.T) {
	r := NewResolver(NewEstimator(DefaultFactors()))
	p := profile.Example()
	p.HeatingFuel = "wood_pellets"

	got := r.Resolve(context.Background(), CategoryStationaryCombustion, p, Inputs{})
	assert.Equal(t, ProvenanceUnresolved, got.Provenance)
	assert.Zero(t, got.TonnesCO2e)
	assert.Zero(t, got.EmissionFactor)
	assert.Contains(t, got.Method, "no factor")

	p = profile.Example()
	p.HeatingFuelUnit = "gallons"
	got = r.Resolve(context.Background(), CategoryStationaryCombustion, p, Inputs{})
	assert.Equal(t, ProvenanceUnresolved, got.Provenance)
}

func TestResolver_Idempotent(t *testing.T) {
	svc := &fakeService{errs: map[string]error{factorsvc.EndpointBusinessTravel: factorsvc.ErrServiceUnavailable}}
	r := NewResolver(NewEstimator(DefaultFactors()), WithService(svc))
	p := profile.Example()

	first := r.Resolve(context.Background(), CategoryBusinessTravel, p, Inputs{})
	second := r.Resolve(context.Background(), CategoryBusinessTravel, p, Inputs{})
	assert.Equal(t, first, second)
}

func TestResolver_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	svc := &fakeService{results: map[string]factorsvc.Result{factorsvc.EndpointFugitive: {CO2e: 10}}}
	r := NewResolver(NewEstimator(DefaultFactors()), WithService(svc), WithMetrics(m))
	p := profile.Example()

	r.Resolve(context.Background(), CategoryFugitive, p, Inputs{})
	r.Resolve(context.Background(), CategoryWaste, p, Inputs{})
	r.Resolve(context.Background(), CategoryEndOfLife, p, Inputs{})

	assert.InDelta(t, 1, testutil.ToFloat64(m.Resolutions().WithLabelValues("fugitive", "measured")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Resolutions().WithLabelValues("waste", "estimated")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Resolutions().WithLabelValues("end_of_life", "not_applicable")), 0)
}

func TestBuildRequest(t *testing.T) {
	p := profile.Example()

	req, ok := BuildRequest(CategoryStationaryCombustion, "", p)
	require.True(t, ok)
	require.NotNil(t, req.ActivityData.FuelConsumption)
	assert.Equal(t, "natural_gas", req.ActivityData.FuelConsumption.FuelType)
	assert.Equal(t, "therms", req.ActivityData.FuelConsumption.FuelUnit)
	assert.Equal(t, "boiler", req.ActivityData.FuelConsumption.EquipmentType)

	req, ok = BuildRequest(CategoryFugitive, "", p)
	require.True(t, ok)
	assert.Equal(t, "fugitive_emission", req.ActivityData.ActivityType)
	require.NotNil(t, req.ActivityData.Gas)
	assert.Equal(t, "R-410A", req.ActivityData.Gas.GasType)
	assert.Equal(t, "kg", req.ActivityData.Gas.GasUnit)

	req, ok = BuildRequest(CategoryElectricity, BasisMarket, p)
	require.True(t, ok)
	assert.Equal(t, "electricity_consumption_market", req.ActivityData.ActivityType)
	require.NotNil(t, req.ActivityData.TotalConsumption)
	assert.Equal(t, factorsvc.TotalConsumption{Amount: 500000, Unit: "kWh", ReportingPeriod: "annual"},
		*req.ActivityData.TotalConsumption)
	require.Len(t, req.ActivityData.ElectricitySources, 2)
	assert.Equal(t, "grid_mix", req.ActivityData.ElectricitySources[0].SourceType)
	assert.InDelta(t, 350000.0, req.ActivityData.ElectricitySources[0].Amount, 1e-6)
	require.NotNil(t, req.ActivityData.ElectricitySources[1].EmissionFactor)
	assert.Zero(t, *req.ActivityData.ElectricitySources[1].EmissionFactor)
	require.NotNil(t, req.CalculationOptions)
	assert.Equal(t, "market_based", req.CalculationOptions.MethodType)

	req, ok = BuildRequest(CategoryElectricity, BasisLocation, p)
	require.True(t, ok)
	assert.Equal(t, "electricity_consumption", req.ActivityData.ActivityType)
	assert.Nil(t, req.ActivityData.TotalConsumption)
	require.NotNil(t, req.CalculationMethod)
	assert.Equal(t, "location_based", req.CalculationMethod.MethodType)
	require.NotNil(t, req.ActivityData.TimePeriod)
	assert.Equal(t, 2024, req.ActivityData.TimePeriod.ReportingYear)

	_, ok = BuildRequest(CategoryWaste, "", p)
	assert.False(t, ok)
}

func TestCategoryLabelsAndScopes(t *testing.T) {
	for _, c := range Scope1Categories {
		s, ok := ScopeOf(c)
		require.True(t, ok)
		assert.Equal(t, Scope1, s)
	}
	for _, c := range Scope3Categories {
		s, ok := ScopeOf(c)
		require.True(t, ok)
		assert.Equal(t, Scope3, s)
		assert.NotEqual(t, string(c), c.Label())
	}
	assert.Equal(t, "Electricity", CategoryElectricity.Label())
	assert.Equal(t, "mystery", Category("mystery").Label())
}
