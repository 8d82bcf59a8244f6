package carbon

import (
	"github.com/rshade/ghg-footprint/internal/profile"
)

// CategoryEstimator provides local emission estimates for categories.
type CategoryEstimator interface {
	// EstimateTonnes calculates emissions for a category in tonnes CO2e.
	// Returns (0, false) if the category is unknown or the profile names a
	// fuel or refrigerant with no configured factor.
	EstimateTonnes(category Category, p profile.ActivityProfile, in Inputs) (float64, bool)
}

// Estimator implements CategoryEstimator with proxy factors.
type Estimator struct {
	factors Factors
}

// NewEstimator creates an estimator over the given factor table.
func NewEstimator(factors Factors) *Estimator {
	return &Estimator{factors: factors}
}

// Factors returns the factor table in use.
func (e *Estimator) Factors() Factors {
	return e.factors
}

// EstimateTonnes calculates emissions for a single category.
//
// CategoryElectricity is estimated on the location basis; use
// EstimateElectricity for the market basis.
func (e *Estimator) EstimateTonnes(category Category, p profile.ActivityProfile, in Inputs) (float64, bool) {
	switch category {
	case CategoryStationaryCombustion:
		return e.stationary(p)
	case CategoryMobileCombustion:
		return e.mobile(p)
	case CategoryFugitive:
		return e.fugitive(p)
	case CategoryElectricity:
		tonnes, _ := e.EstimateElectricity(BasisLocation, p)
		return tonnes, true
	case CategoryPurchasedGoods:
		return p.AnnualProcurementSpend * e.factors.PurchasedGoodsTonnesPerUSD, true
	case CategoryCapitalGoods:
		return p.CapitalExpenditure * e.factors.CapitalGoodsTonnesPerUSD, true
	case CategoryFuelEnergyRelated:
		return in.StationaryCombustion * e.factors.WellToTankFraction, true
	case CategoryUpstreamTransport:
		return p.AnnualProcurementSpend * e.factors.UpstreamTransportTonnesPerUSD, true
	case CategoryWaste:
		return float64(p.EmployeeCount) * e.factors.WasteTonnesPerEmployee, true
	case CategoryBusinessTravel:
		return p.AnnualAirMiles * e.factors.AirTravelTonnesPerMile, true
	case CategoryCommuting:
		return CalculateCommuteTonnes(p.EmployeeCount, p.AvgCommuteMiles, e.factors.WorkingDaysPerYear, e.factors.CommuteTonnesPerMile), true
	case CategoryUseOfSoldProducts:
		return p.ProductsSold * p.ProductLifetimeKWh * e.factors.UsePhaseTonnesPerKWh, true
	case CategoryEndOfLife:
		return p.AnnualProductWeightTonnes * e.factors.EndOfLifeTonnesPerTonne, true
	default:
		return 0, false
	}
}

// EstimateElectricity calculates Scope 2 electricity emissions on the given basis.
//
// Location-based: kWh × grid factor.
// Market-based: the grid portion at the grid factor plus the renewable portion
// at the renewable factor. Portions is nil for the location basis.
func (e *Estimator) EstimateElectricity(basis Basis, p profile.ActivityProfile) (float64, *Portions) {
	gridFactor := e.factors.GridFactor(p.Location.Key())
	kwh := p.ElectricityConsumption

	if basis != BasisMarket {
		return kwh * gridFactor, nil
	}

	portions := SplitRenewable(kwh, p.RenewableShare())
	portions.GridTonnes = portions.GridKWh * gridFactor
	portions.RenewableTonnes = portions.RenewableKWh * e.factors.RenewableTonnesPerKWh
	return portions.GridTonnes + portions.RenewableTonnes, &portions
}

// SplitRenewable divides consumption into grid and renewable kWh.
func SplitRenewable(kwh, renewableShare float64) Portions {
	renewable := kwh * renewableShare
	return Portions{
		GridKWh:      kwh - renewable,
		RenewableKWh: renewable,
	}
}

// CalculateCommuteTonnes applies the commuting formula:
// employees × daily round-trip miles × working days × tonnes per mile.
func CalculateCommuteTonnes(employees int, avgCommuteMiles, workingDays, tonnesPerMile float64) float64 {
	return float64(employees) * avgCommuteMiles * workingDays * tonnesPerMile
}

// Zero activity needs no factor, so an unknown key with a zero quantity is a
// true zero.
func (e *Estimator) stationary(p profile.ActivityProfile) (float64, bool) {
	if p.HeatingFuelAmount == 0 {
		return 0, true
	}
	return e.factors.FuelTonnes(p.HeatingFuel, p.HeatingFuelAmount, p.HeatingFuelUnit)
}

// Fleet fuel is always reported in gallons.
func (e *Estimator) mobile(p profile.ActivityProfile) (float64, bool) {
	if p.FleetFuel == 0 {
		return 0, true
	}
	return e.factors.FuelTonnes(p.FleetFuelType, p.FleetFuel, UnitGallons)
}

func (e *Estimator) fugitive(p profile.ActivityProfile) (float64, bool) {
	if p.RefrigerantLeakage == 0 {
		return 0, true
	}
	gwp, ok := e.factors.GWP(p.RefrigerantType)
	if !ok {
		return 0, false
	}
	return p.RefrigerantLeakage * gwp / KgPerTonne, true
}

// factorFor returns the primary factor behind an estimate, for reporting.
func (e *Estimator) factorFor(category Category, p profile.ActivityProfile) float64 {
	switch category {
	case CategoryStationaryCombustion:
		f, _ := e.factors.FuelFactor(p.HeatingFuel)
		return f
	case CategoryMobileCombustion:
		f, _ := e.factors.FuelFactor(p.FleetFuelType)
		return f
	case CategoryFugitive:
		gwp, _ := e.factors.GWP(p.RefrigerantType)
		return gwp
	case CategoryElectricity:
		return e.factors.GridFactor(p.Location.Key())
	case CategoryPurchasedGoods:
		return e.factors.PurchasedGoodsTonnesPerUSD
	case CategoryCapitalGoods:
		return e.factors.CapitalGoodsTonnesPerUSD
	case CategoryFuelEnergyRelated:
		return e.factors.WellToTankFraction
	case CategoryUpstreamTransport:
		return e.factors.UpstreamTransportTonnesPerUSD
	case CategoryWaste:
		return e.factors.WasteTonnesPerEmployee
	case CategoryBusinessTravel:
		return e.factors.AirTravelTonnesPerMile
	case CategoryCommuting:
		return e.factors.CommuteTonnesPerMile
	case CategoryUseOfSoldProducts:
		return e.factors.UsePhaseTonnesPerKWh
	case CategoryEndOfLife:
		return e.factors.EndOfLifeTonnesPerTonne
	}
	return 0
}

// describe renders the proxy formula used for an estimate.
func (e *Estimator) describe(category Category, basis Basis, p profile.ActivityProfile) string {
	factor := formatFloat(e.factorFor(category, p))
	switch category {
	case CategoryStationaryCombustion:
		return "estimate: " + e.fuelQuantity(p.HeatingFuel, p.HeatingFuelUnit) + " of " + p.HeatingFuel +
			" x " + factor + " t/" + e.factors.FuelUnit(p.HeatingFuel)
	case CategoryMobileCombustion:
		return "estimate: " + e.fuelQuantity(p.FleetFuelType, UnitGallons) + " of " + p.FleetFuelType +
			" x " + factor + " t/" + e.factors.FuelUnit(p.FleetFuelType)
	case CategoryFugitive:
		return "estimate: kg " + p.RefrigerantType + " x GWP " + factor + " / 1000"
	case CategoryElectricity:
		if basis == BasisMarket {
			return "estimate: grid kWh x " + factor + " t/kWh + renewable kWh x " +
				formatFloat(e.factors.RenewableTonnesPerKWh) + " t/kWh"
		}
		return "estimate: kWh x " + factor + " t/kWh (" + p.Location.Key() + ")"
	case CategoryPurchasedGoods, CategoryUpstreamTransport:
		return "estimate: procurement spend x " + factor + " t/USD"
	case CategoryCapitalGoods:
		return "estimate: capital expenditure x " + factor + " t/USD"
	case CategoryFuelEnergyRelated:
		return "estimate: stationary combustion x " + factor
	case CategoryWaste:
		return "estimate: employees x " + factor + " t/employee"
	case CategoryBusinessTravel:
		return "estimate: air miles x " + factor + " t/mile"
	case CategoryCommuting:
		return "estimate: employees x commute miles x " + formatFloat(e.factors.WorkingDaysPerYear) +
			" days x " + factor + " t/mile"
	case CategoryUseOfSoldProducts:
		return "estimate: products sold x lifetime kWh x " + factor + " t/kWh"
	case CategoryEndOfLife:
		return "estimate: product tonnes x " + factor + " t/t"
	}
	return "estimate"
}

// fuelQuantity names the activity unit, noting a conversion when it differs
// from the factor unit.
func (e *Estimator) fuelQuantity(fuel, unit string) string {
	target := e.factors.FuelUnit(fuel)
	from, okFrom := lookupFuelUnit(unit)
	to, okTo := lookupFuelUnit(target)
	if !okFrom || !okTo || from.canonical == to.canonical {
		return unit
	}
	return unit + " (as " + target + ")"
}
