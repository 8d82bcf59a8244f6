// Package profile describes the annual operational activity of an organization,
// the sole input to a footprint run.
package profile

import "strings"

// Location identifies where the organization operates. Country and State are
// used to select a grid emission factor when the service is unavailable.
type Location struct {
	Country    string `yaml:"country" json:"country"`
	State      string `yaml:"state,omitempty" json:"state,omitempty"`
	ZipCode    string `yaml:"zip_code,omitempty" json:"zip_code,omitempty"`
	GridRegion string `yaml:"grid_region,omitempty" json:"grid_region,omitempty"`
}

// Key returns the "Country/State" form used by grid factor lookups.
// When State is empty only the country is returned.
func (l Location) Key() string {
	country := strings.TrimSpace(l.Country)
	state := strings.TrimSpace(l.State)
	if state == "" {
		return country
	}
	return country + "/" + state
}

// ActivityProfile holds one year of activity data for an organization.
//
// All quantities are annual. The profile is immutable for the duration of a run;
// calculators receive it by value.
type ActivityProfile struct {
	CompanyName string `yaml:"company_name,omitempty" json:"company_name,omitempty"`
	Industry    string `yaml:"industry,omitempty" json:"industry,omitempty"`

	// EmployeeCount must be positive. Waste, commuting and intensity are per capita.
	EmployeeCount int      `yaml:"employee_count" json:"employee_count"`
	Location      Location `yaml:"location" json:"location"`

	// ReportingYear is informational and forwarded to the factor service.
	ReportingYear int `yaml:"reporting_year,omitempty" json:"reporting_year,omitempty"`

	// HeatingFuel is the stationary combustion fuel (default: natural_gas).
	HeatingFuel       string  `yaml:"heating_fuel,omitempty" json:"heating_fuel,omitempty"`
	HeatingFuelAmount float64 `yaml:"heating_fuel_amount" json:"heating_fuel_amount"`
	// HeatingFuelUnit is the unit of HeatingFuelAmount (default: therms).
	HeatingFuelUnit string `yaml:"heating_fuel_unit,omitempty" json:"heating_fuel_unit,omitempty"`

	FleetSize int     `yaml:"fleet_size" json:"fleet_size"`
	FleetFuel float64 `yaml:"fleet_fuel" json:"fleet_fuel"`
	// FleetFuelType is the fleet fuel (default: gasoline). FleetFuel is in gallons.
	FleetFuelType string `yaml:"fleet_fuel_type,omitempty" json:"fleet_fuel_type,omitempty"`

	// RefrigerantType defaults to R-410A. RefrigerantLeakage is in kg.
	RefrigerantType    string  `yaml:"refrigerant_type,omitempty" json:"refrigerant_type,omitempty"`
	RefrigerantLeakage float64 `yaml:"refrigerant_leakage" json:"refrigerant_leakage"`

	// ElectricityConsumption is in kWh.
	ElectricityConsumption float64 `yaml:"electricity_consumption" json:"electricity_consumption"`
	// RenewableEnergyPercent is the contractual renewable share, 0-100.
	RenewableEnergyPercent float64 `yaml:"renewable_energy_percent" json:"renewable_energy_percent"`

	AnnualProcurementSpend float64 `yaml:"annual_procurement_spend" json:"annual_procurement_spend"`
	CapitalExpenditure     float64 `yaml:"capital_expenditure" json:"capital_expenditure"`
	AnnualAirMiles         float64 `yaml:"annual_air_miles" json:"annual_air_miles"`
	AvgCommuteMiles        float64 `yaml:"avg_commute_miles" json:"avg_commute_miles"`

	SellsEnergyUsingProducts bool    `yaml:"sells_energy_using_products" json:"sells_energy_using_products"`
	ProductsSold             float64 `yaml:"products_sold" json:"products_sold"`
	ProductLifetimeKWh       float64 `yaml:"product_lifetime_kwh" json:"product_lifetime_kwh"`

	SellsPhysicalProducts     bool    `yaml:"sells_physical_products" json:"sells_physical_products"`
	AnnualProductWeightTonnes float64 `yaml:"annual_product_weight_tonnes" json:"annual_product_weight_tonnes"`
}

const (
	defaultHeatingFuel     = "natural_gas"
	defaultHeatingFuelUnit = "therms"
	defaultFleetFuelType   = "gasoline"
	defaultRefrigerantType = "R-410A"
)

// WithDefaults returns a copy of p with empty fuel and refrigerant types filled in.
func (p ActivityProfile) WithDefaults() ActivityProfile {
	if p.HeatingFuel == "" {
		p.HeatingFuel = defaultHeatingFuel
	}
	if p.HeatingFuelUnit == "" {
		p.HeatingFuelUnit = defaultHeatingFuelUnit
	}
	if p.FleetFuelType == "" {
		p.FleetFuelType = defaultFleetFuelType
	}
	if p.RefrigerantType == "" {
		p.RefrigerantType = defaultRefrigerantType
	}
	return p
}

// RenewableShare returns the renewable percentage as a fraction in [0, 1].
func (p ActivityProfile) RenewableShare() float64 {
	return p.RenewableEnergyPercent / 100.0
}

// Example returns the reference organization used by the CLI --example flag:
// a 100-person California office with a small delivery fleet.
func Example() ActivityProfile {
	return ActivityProfile{
		CompanyName:   "Example Corp",
		Industry:      "technology",
		EmployeeCount: 100,
		Location: Location{
			Country:    "USA",
			State:      "California",
			ZipCode:    "94105",
			GridRegion: "CAMX",
		},
		ReportingYear:          2024,
		HeatingFuel:            defaultHeatingFuel,
		HeatingFuelAmount:      50000,
		HeatingFuelUnit:        defaultHeatingFuelUnit,
		FleetSize:              10,
		FleetFuel:              10000,
		FleetFuelType:          defaultFleetFuelType,
		RefrigerantType:        defaultRefrigerantType,
		RefrigerantLeakage:     5,
		ElectricityConsumption: 500000,
		RenewableEnergyPercent: 30,
		AnnualProcurementSpend: 5_000_000,
		CapitalExpenditure:     1_000_000,
		AnnualAirMiles:         500000,
		AvgCommuteMiles:        20,
	}
}
