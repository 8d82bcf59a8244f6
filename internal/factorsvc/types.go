package factorsvc

// Endpoints exposed under /v1/emissions/.
const (
	EndpointStationary     = "stationary"
	EndpointMobile         = "mobile"
	EndpointFugitive       = "fugitive"
	EndpointLocationBased  = "location_based"
	EndpointMarketBased    = "market_based"
	EndpointBusinessTravel = "business_travel"
)

// Request is the body posted to an emissions endpoint.
type Request struct {
	ActivityData       ActivityData        `json:"activity_data"`
	CalculationMethod  *CalculationMethod  `json:"calculation_method,omitempty"`
	CalculationOptions *CalculationOptions `json:"calculation_options,omitempty"`
}

// ActivityData carries exactly one activity block plus the facility location.
type ActivityData struct {
	ActivityType       string              `json:"activity_type"`
	FuelConsumption    *FuelConsumption    `json:"fuel_consumption,omitempty"`
	FuelData           *FuelData           `json:"fuel_data,omitempty"`
	VehicleInfo        *VehicleInfo        `json:"vehicle_info,omitempty"`
	Gas                *Gas                `json:"gas,omitempty"`
	ElectricityUsage   *ElectricityUsage   `json:"electricity_usage,omitempty"`
	TotalConsumption   *TotalConsumption   `json:"total_consumption,omitempty"`
	ElectricitySources []ElectricitySource `json:"electricity_sources,omitempty"`
	AirTravel          *AirTravel          `json:"air_travel,omitempty"`
	Location           *Location           `json:"location,omitempty"`
	TimePeriod         *TimePeriod         `json:"time_period,omitempty"`
}

type FuelConsumption struct {
	FuelType      string  `json:"fuel_type"`
	FuelAmount    float64 `json:"fuel_amount"`
	FuelUnit      string  `json:"fuel_unit"`
	EquipmentType string  `json:"equipment_type,omitempty"`
}

type FuelData struct {
	FuelType   string  `json:"fuel_type"`
	FuelAmount float64 `json:"fuel_amount"`
	FuelUnit   string  `json:"fuel_unit"`
}

type VehicleInfo struct {
	VehicleCount int    `json:"vehicle_count"`
	VehicleType  string `json:"vehicle_type"`
}

type Gas struct {
	GasType   string  `json:"gas_type"`
	GasAmount float64 `json:"gas_amount"`
	GasUnit   string  `json:"gas_unit"`
}

// TotalConsumption is the market-based consumption total that the
// electricity sources break down.
type TotalConsumption struct {
	Amount          float64 `json:"amount"`
	Unit            string  `json:"unit"`
	ReportingPeriod string  `json:"reporting_period,omitempty"`
}

type ElectricityUsage struct {
	ConsumptionAmount float64 `json:"consumption_amount"`
	ConsumptionUnit   string  `json:"consumption_unit"`
}

// ElectricitySource is one contractual instrument in a market-based request.
// A nil EmissionFactor lets the service apply its residual mix.
type ElectricitySource struct {
	SourceType     string   `json:"source_type"`
	Amount         float64  `json:"amount"`
	Unit           string   `json:"unit"`
	EmissionFactor *float64 `json:"emission_factor,omitempty"`
}

type AirTravel struct {
	TotalMiles float64 `json:"total_miles"`
	ClassMix   string  `json:"class_mix"`
}

type Location struct {
	Country    string `json:"country,omitempty"`
	State      string `json:"state,omitempty"`
	ZipCode    string `json:"zip_code,omitempty"`
	GridRegion string `json:"grid_region,omitempty"`
}

type TimePeriod struct {
	ReportingYear int `json:"reporting_year"`
}

type CalculationMethod struct {
	MethodType      string `json:"method_type"`
	EmissionsSource string `json:"emissions_source,omitempty"`
}

type CalculationOptions struct {
	MethodType        string `json:"method_type"`
	ResidualMixSource string `json:"residual_mix_source,omitempty"`
}

// Result is a successful emissions calculation normalized to metric tonnes.
type Result struct {
	// CO2e is the total in metric tonnes CO2e.
	CO2e float64

	// Gases holds the per-gas split when the service reports it. Values are tonnes.
	Gases *Gases

	// Unit is the unit reported by the service before normalization.
	Unit string

	// EmissionFactor is the factor the service applied, if reported.
	EmissionFactor float64

	// GridMix maps generation source to percentage for electricity endpoints.
	GridMix map[string]float64

	ResidualMixSource string
}

// Gases is the per-gas composition of a result.
type Gases struct {
	FossilCO2   float64 `json:"fossil_co2" yaml:"fossil_co2"`
	BiogenicCO2 float64 `json:"biogenic_co2" yaml:"biogenic_co2"`
	CH4         float64 `json:"ch4" yaml:"ch4"`
	N2O         float64 `json:"n2o" yaml:"n2o"`
}

type wireEmissions struct {
	CO2e              *float64 `json:"CO2e"`
	FossilFuelCO2     *float64 `json:"fossilFuelCO2"`
	BiogenicCO2       *float64 `json:"biogenicCO2"`
	CH4               *float64 `json:"CH4"`
	N2O               *float64 `json:"N2O"`
	UnitOfMeasurement string   `json:"unitOfMeasurement"`
}

type wireResponse struct {
	Emissions         *wireEmissions     `json:"emissions"`
	EmissionFactor    float64            `json:"emission_factor"`
	GridMix           map[string]float64 `json:"grid_mix"`
	ResidualMixSource string             `json:"residual_mix_source"`
}

type authRequest struct {
	APIKey   string `json:"api_key"`
	ClientID string `json:"client_id"`
}

type authResponse struct {
	AccessToken string `json:"access_token"`
}
