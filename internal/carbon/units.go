package carbon

import "strings"

// Canonical fuel units. Fuel factors are expressed per one of these.
const (
	UnitTherms  = "therms"
	UnitMMBtu   = "MMBtu"
	UnitKWh     = "kWh"
	UnitGallons = "gallons"
	UnitLiters  = "liters"
	UnitBarrels = "barrels"
)

const (
	// KWhPerTherm is the energy content of one therm (100,000 Btu).
	KWhPerTherm = 29.3071

	// LitersPerGallon is the US liquid gallon.
	LitersPerGallon = 3.785411784

	// GallonsPerBarrel is the US petroleum barrel.
	GallonsPerBarrel = 42.0
)

type fuelUnit struct {
	canonical string
	dimension string
	// scale converts one unit into the dimension's base unit (therms or gallons).
	scale float64
}

var fuelUnits = map[string]fuelUnit{
	"therm":   {UnitTherms, "energy", 1},
	"therms":  {UnitTherms, "energy", 1},
	"mmbtu":   {UnitMMBtu, "energy", 10},
	"kwh":     {UnitKWh, "energy", 1 / KWhPerTherm},
	"gallon":  {UnitGallons, "volume", 1},
	"gallons": {UnitGallons, "volume", 1},
	"gal":     {UnitGallons, "volume", 1},
	"liter":   {UnitLiters, "volume", 1 / LitersPerGallon},
	"liters":  {UnitLiters, "volume", 1 / LitersPerGallon},
	"litre":   {UnitLiters, "volume", 1 / LitersPerGallon},
	"litres":  {UnitLiters, "volume", 1 / LitersPerGallon},
	"barrel":  {UnitBarrels, "volume", GallonsPerBarrel},
	"barrels": {UnitBarrels, "volume", GallonsPerBarrel},
	"bbl":     {UnitBarrels, "volume", GallonsPerBarrel},
}

func lookupFuelUnit(unit string) (fuelUnit, bool) {
	u, ok := fuelUnits[strings.ToLower(strings.TrimSpace(unit))]
	return u, ok
}

// KnownFuelUnit reports whether unit is a recognised fuel unit.
func KnownFuelUnit(unit string) bool {
	_, ok := lookupFuelUnit(unit)
	return ok
}

// ConvertFuelAmount converts amount from one fuel unit to another. Energy
// units convert among themselves, as do volume units; anything else returns
// false.
func ConvertFuelAmount(amount float64, from, to string) (float64, bool) {
	src, ok := lookupFuelUnit(from)
	if !ok {
		return 0, false
	}
	dst, ok := lookupFuelUnit(to)
	if !ok || src.dimension != dst.dimension {
		return 0, false
	}
	if src.canonical == dst.canonical {
		return amount, true
	}
	return amount * src.scale / dst.scale, true
}
