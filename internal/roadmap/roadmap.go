// Package roadmap estimates initiative reduction potentials and ranks
// capital initiatives by cost-benefit.
package roadmap

import (
	"sort"

	"github.com/rshade/ghg-footprint/internal/footprint"
	"github.com/rshade/ghg-footprint/internal/scope"
)

// Phase groups initiatives by implementation horizon.
type Phase string

const (
	PhaseQuickWin   Phase = "quick_win"   // 0-6 months
	PhaseMediumTerm Phase = "medium_term" // 6-18 months
	PhaseLongTerm   Phase = "long_term"   // 18+ months
)

// Phases lists the phases in implementation order.
var Phases = []Phase{PhaseQuickWin, PhaseMediumTerm, PhaseLongTerm}

// Label returns the display name of a phase.
func (p Phase) Label() string {
	switch p {
	case PhaseQuickWin:
		return "Quick Wins (0-6 months)"
	case PhaseMediumTerm:
		return "Medium-term (6-18 months)"
	case PhaseLongTerm:
		return "Long-term (18+ months)"
	}
	return string(p)
}

// Source keys for scope subtotals. Any other source is a category key.
const (
	SourceScope1         = "scope1"
	SourceScope2Location = "scope2_location"
	SourceScope2Market   = "scope2_market"
	SourceScope3         = "scope3"
)

// Initiative is a catalog entry: a fixed fraction of a source's emissions.
type Initiative struct {
	Name        string  `yaml:"name" json:"name"`
	Phase       Phase   `yaml:"phase" json:"phase"`
	Source      string  `yaml:"source" json:"source"`
	Fraction    float64 `yaml:"fraction" json:"fraction"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
}

// Sources maps source keys to tonnes CO2e.
type Sources map[string]float64

// NewSources indexes scope subtotals and applicable category amounts.
// Scope 1 and Scope 3 category keys are disjoint; the electricity key maps
// to the location-based amount.
func NewSources(s1, s2Location, s2Market, s3 scope.Breakdown) Sources {
	src := Sources{
		SourceScope1:         s1.Subtotal(),
		SourceScope2Location: s2Location.Subtotal(),
		SourceScope2Market:   s2Market.Subtotal(),
		SourceScope3:         s3.Subtotal(),
	}
	for _, b := range []scope.Breakdown{s1, s2Location, s3} {
		for _, e := range b.Applicable() {
			src[string(e.Category)] = e.TonnesCO2e
		}
	}
	return src
}

// Potential is an initiative's estimated annual reduction.
type Potential struct {
	Rank            int             `json:"rank" yaml:"rank"`
	Initiative      Initiative      `json:"initiative" yaml:"initiative"`
	SourceTonnes    float64         `json:"source_tonnes" yaml:"source_tonnes"`
	ReductionTonnes float64         `json:"reduction_tonnes" yaml:"reduction_tonnes"`
	PercentOfTotal  footprint.Share `json:"percent_of_total" yaml:"percent_of_total"`
}

// PhaseTotal sums the potentials of one phase.
type PhaseTotal struct {
	Phase           Phase   `json:"phase" yaml:"phase"`
	ReductionTonnes float64 `json:"reduction_tonnes" yaml:"reduction_tonnes"`
	Initiatives     int     `json:"initiatives" yaml:"initiatives"`
}

// Roadmap is the ranked set of initiative potentials.
type Roadmap struct {
	Potentials []Potential  `json:"potentials" yaml:"potentials"`
	Phases     []PhaseTotal `json:"phases" yaml:"phases"`

	// TotalPotential is the plain sum of potentials. Overlapping initiatives
	// on the same source are not netted.
	TotalPotential float64         `json:"total_potential" yaml:"total_potential"`
	TotalPercent   footprint.Share `json:"total_percent" yaml:"total_percent"`
}

// Build computes each initiative's potential as source × fraction and ranks
// them by potential, descending. Ties keep catalog order. Absent or
// not-applicable sources contribute zero.
func Build(sources Sources, initiatives []Initiative, total float64) Roadmap {
	potentials := make([]Potential, 0, len(initiatives))
	for _, in := range initiatives {
		src := sources[in.Source]
		reduction := src * in.Fraction
		potentials = append(potentials, Potential{
			Initiative:      in,
			SourceTonnes:    src,
			ReductionTonnes: reduction,
			PercentOfTotal:  footprint.ShareOf(reduction, total),
		})
	}

	sort.SliceStable(potentials, func(i, j int) bool {
		return potentials[i].ReductionTonnes > potentials[j].ReductionTonnes
	})

	rm := Roadmap{Potentials: potentials}
	byPhase := make(map[Phase]*PhaseTotal, len(Phases))
	for _, ph := range Phases {
		rm.Phases = append(rm.Phases, PhaseTotal{Phase: ph})
	}
	for i := range rm.Phases {
		byPhase[rm.Phases[i].Phase] = &rm.Phases[i]
	}

	for i := range rm.Potentials {
		p := &rm.Potentials[i]
		p.Rank = i + 1
		rm.TotalPotential += p.ReductionTonnes
		if pt, ok := byPhase[p.Initiative.Phase]; ok {
			pt.ReductionTonnes += p.ReductionTonnes
			pt.Initiatives++
		}
	}
	rm.TotalPercent = footprint.ShareOf(rm.TotalPotential, total)
	return rm
}

// InPhase returns the potentials of one phase in rank order.
func (r Roadmap) InPhase(ph Phase) []Potential {
	var out []Potential
	for _, p := range r.Potentials {
		if p.Initiative.Phase == ph {
			out = append(out, p)
		}
	}
	return out
}
