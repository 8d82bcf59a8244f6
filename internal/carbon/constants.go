// Package carbon resolves the emissions of individual GHG Protocol categories,
// either from the Emission Factor Service or from local proxy estimators.
package carbon

const (
	// NaturalGasTonnesPerTherm is the combustion factor for pipeline natural gas.
	// Source: EPA GHG Emission Factors Hub (53.06 kg CO2 per MMBtu, 0.1 MMBtu per therm).
	NaturalGasTonnesPerTherm = 0.0053

	// GasolineTonnesPerGallon is the combustion factor for motor gasoline.
	// Source: EPA GHG Emission Factors Hub (8.78 kg CO2 per gallon, plus CH4/N2O).
	GasolineTonnesPerGallon = 0.00889

	// DieselTonnesPerGallon is the combustion factor for diesel fuel.
	// Source: EPA GHG Emission Factors Hub.
	DieselTonnesPerGallon = 0.01021

	// PropaneTonnesPerGallon is the combustion factor for propane.
	// Source: EPA GHG Emission Factors Hub.
	PropaneTonnesPerGallon = 0.00568

	// HeatingOilTonnesPerGallon is the combustion factor for distillate fuel oil No. 2.
	// Source: EPA GHG Emission Factors Hub.
	HeatingOilTonnesPerGallon = 0.01021

	// PurchasedGoodsTonnesPerUSD is the spend-based proxy for category 1.
	PurchasedGoodsTonnesPerUSD = 0.00035

	// CapitalGoodsTonnesPerUSD is the spend-based proxy for category 2.
	// Deliberately higher than PurchasedGoodsTonnesPerUSD; the two are independent.
	CapitalGoodsTonnesPerUSD = 0.00045

	// WellToTankFraction is the share of stationary combustion attributed to
	// upstream fuel extraction and distribution (category 3).
	WellToTankFraction = 0.2

	// UpstreamTransportTonnesPerUSD is the spend-based proxy for category 4.
	UpstreamTransportTonnesPerUSD = 0.00008

	// WasteTonnesPerEmployee is the per-capita proxy for category 5.
	WasteTonnesPerEmployee = 0.2

	// AirTravelTonnesPerMile is the economy-class passenger-mile factor for category 6.
	AirTravelTonnesPerMile = 0.00015

	// CommuteTonnesPerMile is the average passenger-vehicle factor for category 7.
	CommuteTonnesPerMile = 0.0004

	// WorkingDaysPerYear is the commuting days assumed per employee.
	WorkingDaysPerYear = 220

	// UsePhaseTonnesPerKWh is the grid factor applied to lifetime product energy (category 11).
	UsePhaseTonnesPerKWh = 0.0004

	// EndOfLifeTonnesPerTonne is the average disposal factor per tonne of product (category 12).
	EndOfLifeTonnesPerTonne = 0.5

	// RenewableTonnesPerKWh is the market-based factor for contractual renewable supply.
	RenewableTonnesPerKWh = 0.0

	// KgPerTonne converts refrigerant leakage (kg) times GWP into tonnes CO2e.
	KgPerTonne = 1000.0
)

// DefaultFuelFactors maps fuel type to tonnes CO2e per unit (therms for
// natural gas, gallons otherwise).
func DefaultFuelFactors() map[string]float64 {
	return map[string]float64{
		"natural_gas": NaturalGasTonnesPerTherm,
		"gasoline":    GasolineTonnesPerGallon,
		"diesel":      DieselTonnesPerGallon,
		"propane":     PropaneTonnesPerGallon,
		"heating_oil": HeatingOilTonnesPerGallon,
	}
}

// DefaultFuelUnits maps fuel type to the unit its factor is expressed per.
func DefaultFuelUnits() map[string]string {
	return map[string]string{
		"natural_gas": UnitTherms,
		"gasoline":    UnitGallons,
		"diesel":      UnitGallons,
		"propane":     UnitGallons,
		"heating_oil": UnitGallons,
	}
}

// DefaultRefrigerantGWP maps refrigerant to its 100-year global warming potential.
// Source: IPCC AR4, as used by EPA for HFC reporting.
func DefaultRefrigerantGWP() map[string]float64 {
	return map[string]float64{
		"R-410A": 2088,
		"R-134a": 1430,
		"R-404A": 3922,
		"R-407C": 1774,
		"R-22":   1810,
		"R-32":   675,
	}
}
