package engine

import (
	"time"

	"github.com/rshade/ghg-footprint/internal/footprint"
	"github.com/rshade/ghg-footprint/internal/pathway"
	"github.com/rshade/ghg-footprint/internal/profile"
	"github.com/rshade/ghg-footprint/internal/roadmap"
	"github.com/rshade/ghg-footprint/internal/scope"
)

// ProvenanceSummary counts category entries across all scopes.
type ProvenanceSummary struct {
	Measured      int `json:"measured" yaml:"measured"`
	Estimated     int `json:"estimated" yaml:"estimated"`
	NotApplicable int `json:"not_applicable" yaml:"not_applicable"`
	Unresolved    int `json:"unresolved" yaml:"unresolved"`

	// Fallbacks counts estimates made after a failed service call.
	Fallbacks int `json:"fallbacks" yaml:"fallbacks"`
}

// Report is the complete output of a run, exposed as plain data for rendering.
type Report struct {
	RunID       string                  `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time               `json:"generated_at" yaml:"generated_at"`
	Mode        string                  `json:"mode" yaml:"mode"`
	Profile     profile.ActivityProfile `json:"profile" yaml:"profile"`

	Scope1         scope.Breakdown `json:"scope1" yaml:"scope1"`
	Scope2Location scope.Breakdown `json:"scope2_location" yaml:"scope2_location"`
	Scope2Market   scope.Breakdown `json:"scope2_market" yaml:"scope2_market"`
	Scope3         scope.Breakdown `json:"scope3" yaml:"scope3"`

	Footprint  footprint.Footprint `json:"footprint" yaml:"footprint"`
	Provenance ProvenanceSummary   `json:"provenance" yaml:"provenance"`

	// Pathway is nil when the baseline is zero or the options are invalid for
	// the base year; PathwayNote then says why.
	Pathway     *pathway.Pathway `json:"pathway,omitempty" yaml:"pathway,omitempty"`
	PathwayNote string           `json:"pathway_note,omitempty" yaml:"pathway_note,omitempty"`

	Roadmap     roadmap.Roadmap       `json:"roadmap" yaml:"roadmap"`
	CostBenefit []roadmap.CostBenefit `json:"cost_benefit" yaml:"cost_benefit"`
	CarbonPrice float64               `json:"carbon_price" yaml:"carbon_price"`
	Liability   []roadmap.Liability   `json:"liability" yaml:"liability"`
}
