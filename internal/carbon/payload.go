package carbon

import (
	"github.com/rshade/ghg-footprint/internal/factorsvc"
	"github.com/rshade/ghg-footprint/internal/profile"
)

// BuildRequest returns the service request for a service-backed category.
// The second return value is false for estimator-only categories.
func BuildRequest(category Category, basis Basis, p profile.ActivityProfile) (factorsvc.Request, bool) {
	loc := &factorsvc.Location{
		Country:    p.Location.Country,
		State:      p.Location.State,
		ZipCode:    p.Location.ZipCode,
		GridRegion: p.Location.GridRegion,
	}

	var period *factorsvc.TimePeriod
	if p.ReportingYear > 0 {
		period = &factorsvc.TimePeriod{ReportingYear: p.ReportingYear}
	}

	switch category {
	case CategoryStationaryCombustion:
		return factorsvc.Request{
			ActivityData: factorsvc.ActivityData{
				ActivityType: string(CategoryStationaryCombustion),
				FuelConsumption: &factorsvc.FuelConsumption{
					FuelType:      p.HeatingFuel,
					FuelAmount:    p.HeatingFuelAmount,
					FuelUnit:      p.HeatingFuelUnit,
					EquipmentType: "boiler",
				},
				Location: loc,
			},
		}, true

	case CategoryMobileCombustion:
		return factorsvc.Request{
			ActivityData: factorsvc.ActivityData{
				ActivityType: string(CategoryMobileCombustion),
				FuelData: &factorsvc.FuelData{
					FuelType:   p.FleetFuelType,
					FuelAmount: p.FleetFuel,
					FuelUnit:   "gallons",
				},
				VehicleInfo: &factorsvc.VehicleInfo{
					VehicleCount: p.FleetSize,
					VehicleType:  "delivery_van",
				},
			},
		}, true

	case CategoryFugitive:
		return factorsvc.Request{
			ActivityData: factorsvc.ActivityData{
				ActivityType: "fugitive_emission",
				Gas: &factorsvc.Gas{
					GasType:   p.RefrigerantType,
					GasAmount: p.RefrigerantLeakage,
					GasUnit:   "kg",
				},
			},
		}, true

	case CategoryElectricity:
		if basis == BasisMarket {
			return marketRequest(p, loc, period), true
		}
		return factorsvc.Request{
			ActivityData: factorsvc.ActivityData{
				ActivityType: "electricity_consumption",
				ElectricityUsage: &factorsvc.ElectricityUsage{
					ConsumptionAmount: p.ElectricityConsumption,
					ConsumptionUnit:   "kWh",
				},
				Location:   loc,
				TimePeriod: period,
			},
			CalculationMethod: &factorsvc.CalculationMethod{
				MethodType:      string(BasisLocation),
				EmissionsSource: "EPA_eGRID",
			},
		}, true

	case CategoryBusinessTravel:
		return factorsvc.Request{
			ActivityData: factorsvc.ActivityData{
				ActivityType: string(CategoryBusinessTravel),
				AirTravel: &factorsvc.AirTravel{
					TotalMiles: p.AnnualAirMiles,
					ClassMix:   "economy",
				},
			},
		}, true
	}

	return factorsvc.Request{}, false
}

// marketRequest describes consumption as a grid-mix portion, priced by the
// service's residual mix, plus a renewable certificate portion at zero.
func marketRequest(p profile.ActivityProfile, loc *factorsvc.Location, period *factorsvc.TimePeriod) factorsvc.Request {
	portions := SplitRenewable(p.ElectricityConsumption, p.RenewableShare())
	zero := 0.0

	sources := []factorsvc.ElectricitySource{
		{SourceType: "grid_mix", Amount: portions.GridKWh, Unit: "kWh"},
	}
	if portions.RenewableKWh > 0 {
		sources = append(sources, factorsvc.ElectricitySource{
			SourceType:     "renewable_energy_certificates",
			Amount:         portions.RenewableKWh,
			Unit:           "kWh",
			EmissionFactor: &zero,
		})
	}

	return factorsvc.Request{
		ActivityData: factorsvc.ActivityData{
			ActivityType: "electricity_consumption_market",
			TotalConsumption: &factorsvc.TotalConsumption{
				Amount:          p.ElectricityConsumption,
				Unit:            "kWh",
				ReportingPeriod: "annual",
			},
			ElectricitySources: sources,
			Location:           loc,
			TimePeriod:         period,
		},
		CalculationOptions: &factorsvc.CalculationOptions{
			MethodType:        string(BasisMarket),
			ResidualMixSource: "Green-e",
		},
	}
}
