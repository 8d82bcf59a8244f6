// Package scope calculates per-category breakdowns for GHG Protocol scopes 1, 2 and 3.
package scope

import (
	"github.com/rshade/ghg-footprint/internal/carbon"
)

// Breakdown is an ordered set of category emissions for one scope (and, for
// Scope 2, one basis). Category keys are unique.
type Breakdown struct {
	Scope   carbon.Scope              `json:"scope" yaml:"scope"`
	Basis   carbon.Basis              `json:"basis,omitempty" yaml:"basis,omitempty"`
	Entries []carbon.CategoryEmission `json:"categories" yaml:"categories"`
}

// Get returns the entry for a category.
func (b Breakdown) Get(c carbon.Category) (carbon.CategoryEmission, bool) {
	for _, e := range b.Entries {
		if e.Category == c {
			return e, true
		}
	}
	return carbon.CategoryEmission{}, false
}

// Amount returns the tonnes for a category, or 0 if absent.
func (b Breakdown) Amount(c carbon.Category) float64 {
	e, _ := b.Get(c)
	return e.TonnesCO2e
}

// Subtotal is the sum of all entries. Not-applicable entries contribute zero.
func (b Breakdown) Subtotal() float64 {
	var total float64
	for _, e := range b.Entries {
		total += e.TonnesCO2e
	}
	return total
}

// Applicable returns the entries that apply to the organization, in order.
func (b Breakdown) Applicable() []carbon.CategoryEmission {
	out := make([]carbon.CategoryEmission, 0, len(b.Entries))
	for _, e := range b.Entries {
		if e.Applicable {
			out = append(out, e)
		}
	}
	return out
}

// Categories returns the category keys in order.
func (b Breakdown) Categories() []carbon.Category {
	out := make([]carbon.Category, len(b.Entries))
	for i, e := range b.Entries {
		out[i] = e.Category
	}
	return out
}

// ProvenanceCounts tallies entries by provenance.
func (b Breakdown) ProvenanceCounts() map[carbon.Provenance]int {
	counts := make(map[carbon.Provenance]int, 3)
	for _, e := range b.Entries {
		counts[e.Provenance]++
	}
	return counts
}
