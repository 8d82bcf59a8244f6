package footprint

const (
	// DefaultTopN is the number of hotspots exposed when Options.TopN is zero.
	DefaultTopN = 5

	// TonnesPerCarYear is the annual emissions of a typical passenger vehicle.
	// Source: EPA Greenhouse Gas Equivalencies Calculator.
	TonnesPerCarYear = 4.6

	// TonnesPerHomeYear is the annual energy-use emissions of an average US home.
	// Source: EPA Greenhouse Gas Equivalencies Calculator.
	TonnesPerHomeYear = 8.5

	// TonnesPerTreeYear is the annual sequestration of one mature tree.
	TonnesPerTreeYear = 0.025

	// TonnesPerRoundTripFlight is one economy passenger round trip, New York to Los Angeles.
	TonnesPerRoundTripFlight = 0.9
)

// Benchmark is a typical per-employee intensity range for an industry.
type Benchmark struct {
	Industry string  `json:"industry" yaml:"industry"`
	Low      float64 `json:"low" yaml:"low"`
	High     float64 `json:"high" yaml:"high"`
}

// Benchmarks lists intensity ranges in tonnes CO2e per employee.
var Benchmarks = []Benchmark{
	{Industry: "technology", Low: 2, High: 5},
	{Industry: "manufacturing", Low: 10, High: 50},
	{Industry: "retail", Low: 5, High: 15},
	{Industry: "logistics", Low: 20, High: 100},
}

// industryAliases maps common industry names to a benchmark.
var industryAliases = map[string]string{
	"tech":           "technology",
	"technology":     "technology",
	"software":       "technology",
	"office":         "technology",
	"services":       "technology",
	"manufacturing":  "manufacturing",
	"industrial":     "manufacturing",
	"retail":         "retail",
	"logistics":      "logistics",
	"transportation": "logistics",
	"shipping":       "logistics",
}
