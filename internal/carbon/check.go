package carbon

import (
	"fmt"

	"github.com/rshade/ghg-footprint/internal/profile"
)

// CheckProfile reports profile fields that reference fuels, units or
// refrigerants the factor table cannot resolve. Keys are only checked when
// the matching quantity is positive.
func (f Factors) CheckProfile(p profile.ActivityProfile) []profile.FieldError {
	var fields []profile.FieldError
	add := func(field, reason string) {
		fields = append(fields, profile.FieldError{Field: field, Reason: reason})
	}

	if p.HeatingFuelAmount > 0 {
		if _, ok := f.FuelFactor(p.HeatingFuel); !ok {
			add("heating_fuel", fmt.Sprintf("no emission factor for fuel %q", p.HeatingFuel))
		} else if _, ok := ConvertFuelAmount(1, p.HeatingFuelUnit, f.FuelUnit(p.HeatingFuel)); !ok {
			add("heating_fuel_unit", fmt.Sprintf("cannot convert %q to %s for %s",
				p.HeatingFuelUnit, f.FuelUnit(p.HeatingFuel), p.HeatingFuel))
		}
	}
	if p.FleetFuel > 0 {
		if _, ok := f.FuelFactor(p.FleetFuelType); !ok {
			add("fleet_fuel_type", fmt.Sprintf("no emission factor for fuel %q", p.FleetFuelType))
		} else if _, ok := ConvertFuelAmount(1, UnitGallons, f.FuelUnit(p.FleetFuelType)); !ok {
			add("fleet_fuel_type", fmt.Sprintf("%s is measured in %s, fleet fuel is reported in gallons",
				p.FleetFuelType, f.FuelUnit(p.FleetFuelType)))
		}
	}
	if p.RefrigerantLeakage > 0 {
		if _, ok := f.GWP(p.RefrigerantType); !ok {
			add("refrigerant_type", fmt.Sprintf("no global warming potential for refrigerant %q", p.RefrigerantType))
		}
	}
	return fields
}
