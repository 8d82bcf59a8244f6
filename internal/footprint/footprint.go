// Package footprint aggregates scope breakdowns into an organizational
// footprint and ranks the largest emission sources.
package footprint

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rshade/ghg-footprint/internal/carbon"
	"github.com/rshade/ghg-footprint/internal/scope"
)

// ErrUndefinedShare is returned when a share is requested of a zero total.
var ErrUndefinedShare = errors.New("share undefined: total emissions are zero")

// Share is a percentage of a total. Defined is false when the total is zero,
// in which case Percent is 0 and carries no meaning.
type Share struct {
	Percent float64 `json:"percent" yaml:"percent"`
	Defined bool    `json:"defined" yaml:"defined"`
}

// ShareOf returns part as a percentage of total.
func ShareOf(part, total float64) Share {
	if total <= 0 {
		return Share{}
	}
	return Share{Percent: part / total * 100, Defined: true}
}

// Value returns the percentage or ErrUndefinedShare.
func (s Share) Value() (float64, error) {
	if !s.Defined {
		return 0, ErrUndefinedShare
	}
	return s.Percent, nil
}

// Totals holds the scope subtotals and the dual footprint totals.
type Totals struct {
	Scope1         float64 `json:"scope1" yaml:"scope1"`
	Scope2Location float64 `json:"scope2_location" yaml:"scope2_location"`
	Scope2Market   float64 `json:"scope2_market" yaml:"scope2_market"`
	Scope3         float64 `json:"scope3" yaml:"scope3"`

	// TotalLocation is the headline total: Scope1 + Scope2Location + Scope3.
	TotalLocation float64 `json:"total_location" yaml:"total_location"`
	TotalMarket   float64 `json:"total_market" yaml:"total_market"`

	// Scope shares are relative to TotalLocation, Scope 2 on the location basis.
	Scope1Share Share `json:"scope1_share" yaml:"scope1_share"`
	Scope2Share Share `json:"scope2_share" yaml:"scope2_share"`
	Scope3Share Share `json:"scope3_share" yaml:"scope3_share"`
}

// Intensity is the footprint per employee.
type Intensity struct {
	PerEmployee float64 `json:"per_employee" yaml:"per_employee"`
	Defined     bool    `json:"defined" yaml:"defined"`

	// Benchmark is the matched industry range, if the industry is recognised.
	Benchmark *Benchmark `json:"benchmark,omitempty" yaml:"benchmark,omitempty"`
}

// Equivalencies expresses the headline total in everyday terms.
type Equivalencies struct {
	CarsPerYear      float64 `json:"cars_per_year" yaml:"cars_per_year"`
	HomesPerYear     float64 `json:"homes_per_year" yaml:"homes_per_year"`
	TreesPerYear     float64 `json:"trees_per_year" yaml:"trees_per_year"`
	RoundTripFlights float64 `json:"round_trip_flights" yaml:"round_trip_flights"`
}

// Options controls aggregation.
type Options struct {
	// TopN is the number of hotspots to expose. Zero means DefaultTopN; a
	// negative value exposes all.
	TopN int

	// EmployeeCount and Industry feed the intensity metric.
	EmployeeCount int
	Industry      string
}

// Footprint is the aggregated result. It is derived data only.
type Footprint struct {
	Totals Totals `json:"totals" yaml:"totals"`

	// Hotspots is the top-N ranked list.
	Hotspots []Hotspot `json:"hotspots" yaml:"hotspots"`

	// RenewableReduction is the share of location-based Scope 2 avoided by
	// contractual renewables.
	RenewableReduction Share `json:"renewable_reduction" yaml:"renewable_reduction"`

	Intensity     Intensity     `json:"intensity" yaml:"intensity"`
	Equivalencies Equivalencies `json:"equivalencies" yaml:"equivalencies"`
}

// Aggregate combines the scope breakdowns. Inputs are not modified.
func Aggregate(s1, s2Location, s2Market, s3 scope.Breakdown, opts Options) Footprint {
	t := Totals{
		Scope1:         s1.Subtotal(),
		Scope2Location: s2Location.Subtotal(),
		Scope2Market:   s2Market.Subtotal(),
		Scope3:         s3.Subtotal(),
	}
	t.TotalLocation = t.Scope1 + t.Scope2Location + t.Scope3
	t.TotalMarket = t.Scope1 + t.Scope2Market + t.Scope3
	t.Scope1Share = ShareOf(t.Scope1, t.TotalLocation)
	t.Scope2Share = ShareOf(t.Scope2Location, t.TotalLocation)
	t.Scope3Share = ShareOf(t.Scope3, t.TotalLocation)

	topN := opts.TopN
	if topN == 0 {
		topN = DefaultTopN
	}

	return Footprint{
		Totals:             t,
		Hotspots:           TopN(RankHotspots(s1, s2Location, s3), topN),
		RenewableReduction: ShareOf(t.Scope2Location-t.Scope2Market, t.Scope2Location),
		Intensity:          intensity(t.TotalLocation, opts.EmployeeCount, opts.Industry),
		Equivalencies:      equivalencies(t.TotalLocation),
	}
}

// ShareOf returns the share of a scope in the location-based total, or
// ErrUndefinedShare when the total is zero.
func (f Footprint) ShareOf(s carbon.Scope) (float64, error) {
	switch s {
	case carbon.Scope1:
		return f.Totals.Scope1Share.Value()
	case carbon.Scope2:
		return f.Totals.Scope2Share.Value()
	case carbon.Scope3:
		return f.Totals.Scope3Share.Value()
	default:
		return 0, fmt.Errorf("unknown scope %d", s)
	}
}

func intensity(total float64, employees int, industry string) Intensity {
	in := Intensity{Benchmark: BenchmarkFor(industry)}
	if employees > 0 {
		in.PerEmployee = total / float64(employees)
		in.Defined = true
	}
	return in
}

func equivalencies(total float64) Equivalencies {
	return Equivalencies{
		CarsPerYear:      total / TonnesPerCarYear,
		HomesPerYear:     total / TonnesPerHomeYear,
		TreesPerYear:     total / TonnesPerTreeYear,
		RoundTripFlights: total / TonnesPerRoundTripFlight,
	}
}

// BenchmarkFor returns the intensity range for an industry, or nil.
func BenchmarkFor(industry string) *Benchmark {
	name, ok := industryAliases[strings.ToLower(strings.TrimSpace(industry))]
	if !ok {
		return nil
	}
	for _, b := range Benchmarks {
		if b.Industry == name {
			bm := b
			return &bm
		}
	}
	return nil
}

// Within reports whether v lies inside the benchmark range.
func (b Benchmark) Within(v float64) bool {
	return v >= b.Low && v <= b.High
}
