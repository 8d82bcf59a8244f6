package profile

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidProfile is matched by every validation failure.
var ErrInvalidProfile = errors.New("invalid activity profile")

// FieldError describes one invalid field.
type FieldError struct {
	Field  string `json:"field" yaml:"field"`
	Reason string `json:"reason" yaml:"reason"`
}

func (f FieldError) String() string {
	return f.Field + ": " + f.Reason
}

// ValidationError collects every field violation found in a profile.
type ValidationError struct {
	Fields []FieldError `json:"fields" yaml:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.String())
	}
	return fmt.Sprintf("%s: %s", ErrInvalidProfile, strings.Join(parts, "; "))
}

// Unwrap lets errors.Is match ErrInvalidProfile.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidProfile
}

// Validate checks the profile invariants. Values are never clamped; every
// violation is reported in a single *ValidationError.
func (p ActivityProfile) Validate() error {
	var fields []FieldError
	add := func(field, reason string) {
		fields = append(fields, FieldError{Field: field, Reason: reason})
	}

	if p.EmployeeCount <= 0 {
		add("employee_count", fmt.Sprintf("must be greater than 0 (got %d)", p.EmployeeCount))
	}
	if p.FleetSize < 0 {
		add("fleet_size", fmt.Sprintf("must not be negative (got %d)", p.FleetSize))
	}

	quantities := []struct {
		name  string
		value float64
	}{
		{"heating_fuel_amount", p.HeatingFuelAmount},
		{"fleet_fuel", p.FleetFuel},
		{"refrigerant_leakage", p.RefrigerantLeakage},
		{"electricity_consumption", p.ElectricityConsumption},
		{"annual_procurement_spend", p.AnnualProcurementSpend},
		{"capital_expenditure", p.CapitalExpenditure},
		{"annual_air_miles", p.AnnualAirMiles},
		{"avg_commute_miles", p.AvgCommuteMiles},
		{"products_sold", p.ProductsSold},
		{"product_lifetime_kwh", p.ProductLifetimeKWh},
		{"annual_product_weight_tonnes", p.AnnualProductWeightTonnes},
	}
	for _, q := range quantities {
		switch {
		case math.IsNaN(q.value) || math.IsInf(q.value, 0):
			add(q.name, "must be a finite number")
		case q.value < 0:
			add(q.name, fmt.Sprintf("must not be negative (got %g)", q.value))
		}
	}

	if math.IsNaN(p.RenewableEnergyPercent) || p.RenewableEnergyPercent < 0 || p.RenewableEnergyPercent > 100 {
		add("renewable_energy_percent", fmt.Sprintf("must be between 0 and 100 (got %g)", p.RenewableEnergyPercent))
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
