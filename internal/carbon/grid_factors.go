package carbon

import "strings"

// GridEmissionFactors maps locations ("Country" or "Country/State") to
// location-based grid carbon intensity. Values are in metric tons CO2e per kWh.
//
// Source: EPA eGRID state averages and IEA country averages.
// Data vintage: 2024 (update annually using: go run ./tools/update-grid-factors)
var GridEmissionFactors = map[string]float64{
	"Canada":            0.00012,  // hydro-heavy
	"Germany":           0.000381, // coal/renewable mix
	"Iceland":           0.0,      // geothermal/hydro
	"USA":               0.00045,  // national average
	"USA/California":    0.00025,  // renewable-heavy
	"USA/Indiana":       0.00072,  // coal/gas mix
	"USA/New York":      0.00023,  // hydro/nuclear
	"USA/Texas":         0.00045,  // diverse mix
	"USA/Vermont":       0.000013, // hydro/nuclear
	"USA/Washington":    0.00009,  // hydro
	"USA/West Virginia": 0.00085,  // coal-heavy
	"USA/Wyoming":       0.000815, // coal-heavy
	"United Kingdom":    0.000207, // gas/wind mix
}

// DefaultGridFactor is used when neither the location nor its country has a
// specific factor. This is the US national average.
const DefaultGridFactor = 0.00045

// GetGridFactor returns the grid factor for a "Country/State" key in metric
// tons CO2e per kWh. It falls back to the country factor and then to
// DefaultGridFactor. The second return value reports whether a specific
// (non-default) factor was found.
func GetGridFactor(location string) (float64, bool) {
	return lookupGridFactor(GridEmissionFactors, location)
}

func lookupGridFactor(table map[string]float64, location string) (float64, bool) {
	if factor, ok := table[location]; ok {
		return factor, true
	}
	if country, _, found := strings.Cut(location, "/"); found {
		if factor, ok := table[country]; ok {
			return factor, true
		}
	}
	return DefaultGridFactor, false
}
