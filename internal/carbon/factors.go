package carbon

import (
	"fmt"
	"math"
	"sort"
)

// Factors is the configurable table of local estimation factors.
// All emission factors are in metric tonnes CO2e per unit.
type Factors struct {
	// FuelFactors maps fuel type to tonnes per unit of FuelUnits[fuel].
	FuelFactors map[string]float64 `yaml:"fuel_factors" json:"fuel_factors"`

	// FuelUnits maps fuel type to the unit its factor is expressed per.
	FuelUnits map[string]string `yaml:"fuel_units" json:"fuel_units"`

	// RefrigerantGWP maps refrigerant type to global warming potential.
	RefrigerantGWP map[string]float64 `yaml:"refrigerant_gwp" json:"refrigerant_gwp"`

	// GridFactors overrides or extends GridEmissionFactors (tonnes per kWh).
	GridFactors map[string]float64 `yaml:"grid_factors,omitempty" json:"grid_factors,omitempty"`

	RenewableTonnesPerKWh         float64 `yaml:"renewable_tonnes_per_kwh" json:"renewable_tonnes_per_kwh"`
	PurchasedGoodsTonnesPerUSD    float64 `yaml:"purchased_goods_tonnes_per_usd" json:"purchased_goods_tonnes_per_usd"`
	CapitalGoodsTonnesPerUSD      float64 `yaml:"capital_goods_tonnes_per_usd" json:"capital_goods_tonnes_per_usd"`
	WellToTankFraction            float64 `yaml:"well_to_tank_fraction" json:"well_to_tank_fraction"`
	UpstreamTransportTonnesPerUSD float64 `yaml:"upstream_transport_tonnes_per_usd" json:"upstream_transport_tonnes_per_usd"`
	WasteTonnesPerEmployee        float64 `yaml:"waste_tonnes_per_employee" json:"waste_tonnes_per_employee"`
	AirTravelTonnesPerMile        float64 `yaml:"air_travel_tonnes_per_mile" json:"air_travel_tonnes_per_mile"`
	CommuteTonnesPerMile          float64 `yaml:"commute_tonnes_per_mile" json:"commute_tonnes_per_mile"`
	WorkingDaysPerYear            float64 `yaml:"working_days_per_year" json:"working_days_per_year"`
	UsePhaseTonnesPerKWh          float64 `yaml:"use_phase_tonnes_per_kwh" json:"use_phase_tonnes_per_kwh"`
	EndOfLifeTonnesPerTonne       float64 `yaml:"end_of_life_tonnes_per_tonne" json:"end_of_life_tonnes_per_tonne"`
}

// DefaultFactors returns the built-in factor table.
func DefaultFactors() Factors {
	return Factors{
		FuelFactors:                   DefaultFuelFactors(),
		FuelUnits:                     DefaultFuelUnits(),
		RefrigerantGWP:                DefaultRefrigerantGWP(),
		GridFactors:                   map[string]float64{},
		RenewableTonnesPerKWh:         RenewableTonnesPerKWh,
		PurchasedGoodsTonnesPerUSD:    PurchasedGoodsTonnesPerUSD,
		CapitalGoodsTonnesPerUSD:      CapitalGoodsTonnesPerUSD,
		WellToTankFraction:            WellToTankFraction,
		UpstreamTransportTonnesPerUSD: UpstreamTransportTonnesPerUSD,
		WasteTonnesPerEmployee:        WasteTonnesPerEmployee,
		AirTravelTonnesPerMile:        AirTravelTonnesPerMile,
		CommuteTonnesPerMile:          CommuteTonnesPerMile,
		WorkingDaysPerYear:            WorkingDaysPerYear,
		UsePhaseTonnesPerKWh:          UsePhaseTonnesPerKWh,
		EndOfLifeTonnesPerTonne:       EndOfLifeTonnesPerTonne,
	}
}

// GridFactor returns the location-based grid factor for a "Country/State" key.
// Entries in f.GridFactors take precedence over GridEmissionFactors.
func (f Factors) GridFactor(location string) float64 {
	if factor, ok := lookupGridFactor(f.GridFactors, location); ok {
		return factor
	}
	factor, _ := GetGridFactor(location)
	return factor
}

// FuelFactor returns the factor for a fuel type.
func (f Factors) FuelFactor(fuel string) (float64, bool) {
	factor, ok := f.FuelFactors[fuel]
	return factor, ok
}

// FuelUnit returns the unit a fuel's factor is expressed per, or "" when
// the fuel has no unit configured.
func (f Factors) FuelUnit(fuel string) string {
	return f.FuelUnits[fuel]
}

// FuelTonnes converts amount from unit into the fuel's factor unit and
// applies the factor. It returns false when the fuel is unknown or the
// units do not convert.
func (f Factors) FuelTonnes(fuel string, amount float64, unit string) (float64, bool) {
	factor, ok := f.FuelFactor(fuel)
	if !ok {
		return 0, false
	}
	converted, ok := ConvertFuelAmount(amount, unit, f.FuelUnit(fuel))
	if !ok {
		return 0, false
	}
	return converted * factor, true
}

// GWP returns the global warming potential of a refrigerant.
func (f Factors) GWP(refrigerant string) (float64, bool) {
	gwp, ok := f.RefrigerantGWP[refrigerant]
	return gwp, ok
}

// Validate rejects negative or non-finite factors and fuels without a
// recognised unit.
func (f Factors) Validate() error {
	fuels := make([]string, 0, len(f.FuelFactors))
	for name := range f.FuelFactors {
		fuels = append(fuels, name)
	}
	sort.Strings(fuels)
	for _, name := range fuels {
		unit := f.FuelUnits[name]
		if unit == "" {
			return fmt.Errorf("fuel_units.%s is required for fuel_factors.%s", name, name)
		}
		if !KnownFuelUnit(unit) {
			return fmt.Errorf("fuel_units.%s: unknown unit %q", name, unit)
		}
	}

	scalars := map[string]float64{
		"renewable_tonnes_per_kwh":          f.RenewableTonnesPerKWh,
		"purchased_goods_tonnes_per_usd":    f.PurchasedGoodsTonnesPerUSD,
		"capital_goods_tonnes_per_usd":      f.CapitalGoodsTonnesPerUSD,
		"well_to_tank_fraction":             f.WellToTankFraction,
		"upstream_transport_tonnes_per_usd": f.UpstreamTransportTonnesPerUSD,
		"waste_tonnes_per_employee":         f.WasteTonnesPerEmployee,
		"air_travel_tonnes_per_mile":        f.AirTravelTonnesPerMile,
		"commute_tonnes_per_mile":           f.CommuteTonnesPerMile,
		"working_days_per_year":             f.WorkingDaysPerYear,
		"use_phase_tonnes_per_kwh":          f.UsePhaseTonnesPerKWh,
		"end_of_life_tonnes_per_tonne":      f.EndOfLifeTonnesPerTonne,
	}
	for name, v := range f.FuelFactors {
		scalars["fuel_factors."+name] = v
	}
	for name, v := range f.RefrigerantGWP {
		scalars["refrigerant_gwp."+name] = v
	}
	for name, v := range f.GridFactors {
		scalars["grid_factors."+name] = v
	}

	names := make([]string, 0, len(scalars))
	for name := range scalars {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v := scalars[name]
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("factor %s must be a non-negative finite number (got %g)", name, v)
		}
	}
	return nil
}
