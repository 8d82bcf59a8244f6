package footprint

import (
	"fmt"
	"sort"

	"github.com/rshade/ghg-footprint/internal/carbon"
	"github.com/rshade/ghg-footprint/internal/scope"
)

// Hotspot is one ranked emission source.
type Hotspot struct {
	Rank       int             `json:"rank" yaml:"rank"`
	Label      string          `json:"label" yaml:"label"`
	Scope      carbon.Scope    `json:"scope" yaml:"scope"`
	Category   carbon.Category `json:"category" yaml:"category"`
	TonnesCO2e float64         `json:"tonnes_co2e" yaml:"tonnes_co2e"`

	// Share is relative to the location-based total.
	Share Share `json:"share" yaml:"share"`
}

// RankHotspots flattens the breakdowns into one list and sorts it by amount,
// descending. Flatten order is Scope 1 entries, a single Scope 2 electricity
// entry on the location basis, then applicable Scope 3 entries. The sort is
// stable, so ties keep flatten order.
func RankHotspots(s1, s2Location, s3 scope.Breakdown) []Hotspot {
	total := s1.Subtotal() + s2Location.Subtotal() + s3.Subtotal()

	var flat []Hotspot
	add := func(s carbon.Scope, c carbon.Category, tonnes float64) {
		flat = append(flat, Hotspot{
			Label:      fmt.Sprintf("Scope %d - %s", s, c.Label()),
			Scope:      s,
			Category:   c,
			TonnesCO2e: tonnes,
			Share:      ShareOf(tonnes, total),
		})
	}

	for _, e := range s1.Applicable() {
		add(carbon.Scope1, e.Category, e.TonnesCO2e)
	}
	add(carbon.Scope2, carbon.CategoryElectricity, s2Location.Subtotal())
	for _, e := range s3.Applicable() {
		add(carbon.Scope3, e.Category, e.TonnesCO2e)
	}

	sort.SliceStable(flat, func(i, j int) bool {
		return flat[i].TonnesCO2e > flat[j].TonnesCO2e
	})
	for i := range flat {
		flat[i].Rank = i + 1
	}
	return flat
}

// TopN returns the first n hotspots. A negative n returns all of them.
func TopN(ranked []Hotspot, n int) []Hotspot {
	if n < 0 || n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}
