package carbon

import "github.com/rshade/ghg-footprint/internal/factorsvc"

// Scope is a GHG Protocol scope (1, 2 or 3).
type Scope int

const (
	Scope1 Scope = 1
	Scope2 Scope = 2
	Scope3 Scope = 3
)

// Category is the key of an emission category within a scope breakdown.
type Category string

// Scope 1 categories.
const (
	CategoryStationaryCombustion Category = "stationary_combustion"
	CategoryMobileCombustion     Category = "mobile_combustion"
	CategoryFugitive             Category = "fugitive"
)

// CategoryElectricity is the single Scope 2 category, resolved once per Basis.
const CategoryElectricity Category = "electricity"

// Scope 3 categories, in GHG Protocol order.
const (
	CategoryPurchasedGoods    Category = "purchased_goods"
	CategoryCapitalGoods      Category = "capital_goods"
	CategoryFuelEnergyRelated Category = "fuel_energy_related"
	CategoryUpstreamTransport Category = "upstream_transport"
	CategoryWaste             Category = "waste"
	CategoryBusinessTravel    Category = "business_travel"
	CategoryCommuting         Category = "commuting"
	CategoryUseOfSoldProducts Category = "use_of_sold_products"
	CategoryEndOfLife         Category = "end_of_life"
)

// Provenance records where an emission value came from.
type Provenance string

const (
	// ProvenanceMeasured means the Emission Factor Service produced the value.
	ProvenanceMeasured Provenance = "measured"
	// ProvenanceEstimated means a local proxy estimator produced the value.
	ProvenanceEstimated Provenance = "estimated"
	// ProvenanceNotApplicable means the category does not apply to the organization.
	ProvenanceNotApplicable Provenance = "not_applicable"
	// ProvenanceUnresolved means no factor was available and the value is a
	// placeholder zero, not a measurement.
	ProvenanceUnresolved Provenance = "unresolved"
)

// Basis distinguishes the two Scope 2 accounting methods.
type Basis string

const (
	BasisLocation Basis = "location_based"
	BasisMarket   Basis = "market_based"
)

// Inputs carries values derived from other scopes that some estimators need.
type Inputs struct {
	// StationaryCombustion is the Scope 1 stationary combustion amount in tonnes,
	// the basis of the well-to-tank estimate.
	StationaryCombustion float64
}

// Portions splits market-based electricity into its grid and renewable parts.
// Tonnes are only populated for locally estimated values.
type Portions struct {
	GridKWh         float64 `json:"grid_kwh" yaml:"grid_kwh"`
	RenewableKWh    float64 `json:"renewable_kwh" yaml:"renewable_kwh"`
	GridTonnes      float64 `json:"grid_tonnes,omitempty" yaml:"grid_tonnes,omitempty"`
	RenewableTonnes float64 `json:"renewable_tonnes,omitempty" yaml:"renewable_tonnes,omitempty"`
}

// CategoryEmission is the resolved emissions of one category.
//
// A zero TonnesCO2e is meaningful on its own only together with Provenance and
// ServiceError: measured zero, estimated zero after a service failure, and
// not-applicable zero are all distinguishable.
type CategoryEmission struct {
	Category   Category   `json:"category" yaml:"category"`
	Scope      Scope      `json:"scope" yaml:"scope"`
	Basis      Basis      `json:"basis,omitempty" yaml:"basis,omitempty"`
	TonnesCO2e float64    `json:"tonnes_co2e" yaml:"tonnes_co2e"`
	Provenance Provenance `json:"provenance" yaml:"provenance"`
	Applicable bool       `json:"applicable" yaml:"applicable"`

	// Method describes the endpoint or proxy formula used.
	Method string `json:"method" yaml:"method"`

	// EmissionFactor is the factor applied, when known.
	EmissionFactor float64 `json:"emission_factor,omitempty" yaml:"emission_factor,omitempty"`

	Gases             *factorsvc.Gases   `json:"gases,omitempty" yaml:"gases,omitempty"`
	GridMix           map[string]float64 `json:"grid_mix,omitempty" yaml:"grid_mix,omitempty"`
	ResidualMixSource string             `json:"residual_mix_source,omitempty" yaml:"residual_mix_source,omitempty"`
	Portions          *Portions          `json:"portions,omitempty" yaml:"portions,omitempty"`

	// ServiceError is set when the service was attempted and failed.
	ServiceError string `json:"service_error,omitempty" yaml:"service_error,omitempty"`
}

// Label returns the human-readable category name.
func (c Category) Label() string {
	if spec, ok := categorySpecs[c]; ok {
		return spec.label
	}
	return string(c)
}
