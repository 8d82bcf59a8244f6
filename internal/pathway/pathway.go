// Package pathway derives a science-aligned reduction trajectory from a
// baseline footprint.
package pathway

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

const (
	// DefaultAnnualRate is the 1.5°C-aligned annual reduction rate, compounded
	// year over year by Compute. Pace uses it linearly.
	// Source: SBTi Corporate Net-Zero Standard (4.2% per year).
	DefaultAnnualRate = 0.042

	// DefaultNearTermYear and DefaultNearTermCut describe the 50% by 2030 milestone.
	DefaultNearTermYear = 2030
	DefaultNearTermCut  = 0.5

	// DefaultLongTermYear and DefaultLongTermCut describe the 90% by 2050
	// net-zero milestone. The remaining 10% is neutralized by removals.
	DefaultLongTermYear = 2050
	DefaultLongTermCut  = 0.9

	// MonthsPerYear and WeeksPerYear convert annual pace.
	MonthsPerYear = 12
	WeeksPerYear  = 52
)

// DefaultHorizons are the target years after the base year.
var DefaultHorizons = []int{1, 3, 5, 10}

var (
	// ErrZeroBaseline is returned when the baseline is not positive.
	ErrZeroBaseline = errors.New("baseline emissions must be greater than zero")

	// ErrInvalidOptions is returned for out-of-range options.
	ErrInvalidOptions = errors.New("invalid pathway options")
)

// Milestone is a fractional cut by a calendar year.
type Milestone struct {
	Year int     `yaml:"year" json:"year"`
	Cut  float64 `yaml:"cut" json:"cut"`
}

// Options configures Compute. Zero values take the defaults, except BaseYear
// which must be set by the caller. A zero AnnualRate selects DefaultAnnualRate.
type Options struct {
	Horizons   []int     `yaml:"horizons" json:"horizons"`
	AnnualRate float64   `yaml:"annual_rate" json:"annual_rate"`
	BaseYear   int       `yaml:"base_year" json:"base_year"`
	NearTerm   Milestone `yaml:"near_term" json:"near_term"`
	LongTerm   Milestone `yaml:"long_term" json:"long_term"`
}

// DefaultOptions returns the default options for a base year.
func DefaultOptions(baseYear int) Options {
	return Options{
		Horizons:   slices.Clone(DefaultHorizons),
		AnnualRate: DefaultAnnualRate,
		BaseYear:   baseYear,
		NearTerm:   Milestone{Year: DefaultNearTermYear, Cut: DefaultNearTermCut},
		LongTerm:   Milestone{Year: DefaultLongTermYear, Cut: DefaultLongTermCut},
	}
}

// WithDefaults fills unset fields from DefaultOptions.
func (o Options) WithDefaults() Options {
	d := DefaultOptions(o.BaseYear)
	if len(o.Horizons) == 0 {
		o.Horizons = d.Horizons
	}
	if o.AnnualRate == 0 {
		o.AnnualRate = d.AnnualRate
	}
	if o.NearTerm == (Milestone{}) {
		o.NearTerm = d.NearTerm
	}
	if o.LongTerm == (Milestone{}) {
		o.LongTerm = d.LongTerm
	}
	return o
}

// Validate checks option ranges.
func (o Options) Validate() error {
	if math.IsNaN(o.AnnualRate) || o.AnnualRate < 0 || o.AnnualRate >= 1 {
		return fmt.Errorf("%w: annual rate must be in [0, 1) (got %g)", ErrInvalidOptions, o.AnnualRate)
	}
	for _, h := range o.Horizons {
		if h < 0 {
			return fmt.Errorf("%w: horizon must not be negative (got %d)", ErrInvalidOptions, h)
		}
	}
	for _, m := range []Milestone{o.NearTerm, o.LongTerm} {
		if math.IsNaN(m.Cut) || m.Cut < 0 || m.Cut > 1 {
			return fmt.Errorf("%w: milestone cut must be in [0, 1] (got %g)", ErrInvalidOptions, m.Cut)
		}
	}
	if o.NearTerm.Year <= o.BaseYear {
		return fmt.Errorf("%w: near-term year %d must be after base year %d", ErrInvalidOptions, o.NearTerm.Year, o.BaseYear)
	}
	if o.LongTerm.Year < o.NearTerm.Year {
		return fmt.Errorf("%w: long-term year %d precedes near-term year %d", ErrInvalidOptions, o.LongTerm.Year, o.NearTerm.Year)
	}
	return nil
}

// Target is the allowed emissions after a number of years.
type Target struct {
	Horizon          int     `json:"horizon" yaml:"horizon"`
	Year             int     `json:"year" yaml:"year"`
	TargetTonnes     float64 `json:"target_tonnes" yaml:"target_tonnes"`
	ReductionTonnes  float64 `json:"reduction_tonnes" yaml:"reduction_tonnes"`
	ReductionPercent float64 `json:"reduction_percent" yaml:"reduction_percent"`
}

// MilestoneTarget is a milestone resolved against the baseline.
type MilestoneTarget struct {
	Year            int     `json:"year" yaml:"year"`
	Cut             float64 `json:"cut" yaml:"cut"`
	TargetTonnes    float64 `json:"target_tonnes" yaml:"target_tonnes"`
	ReductionTonnes float64 `json:"reduction_tonnes" yaml:"reduction_tonnes"`
}

// Pace is the linear reduction needed to reach the near-term milestone.
type Pace struct {
	Years    int     `json:"years" yaml:"years"`
	PerYear  float64 `json:"per_year" yaml:"per_year"`
	PerMonth float64 `json:"per_month" yaml:"per_month"`
	PerWeek  float64 `json:"per_week" yaml:"per_week"`
}

// Pathway is the full reduction trajectory.
type Pathway struct {
	BaselineTonnes float64         `json:"baseline_tonnes" yaml:"baseline_tonnes"`
	BaseYear       int             `json:"base_year" yaml:"base_year"`
	AnnualRate     float64         `json:"annual_rate" yaml:"annual_rate"`
	Targets        []Target        `json:"targets" yaml:"targets"`
	NearTerm       MilestoneTarget `json:"near_term" yaml:"near_term"`
	LongTerm       MilestoneTarget `json:"long_term" yaml:"long_term"`

	// ResidualToOffset is the long-term residual to be neutralized by removals.
	ResidualToOffset float64 `json:"residual_to_offset" yaml:"residual_to_offset"`

	Pace Pace `json:"pace" yaml:"pace"`
}

// Compute derives the pathway. It is a pure function of its inputs.
//
// For each horizon h: target = baseline × (1 − rate)^h.
// Milestones: target = baseline × (1 − cut).
// Pace: (baseline − near-term target) / (near-term year − base year), then /12 and /52.
func Compute(baseline float64, opts Options) (Pathway, error) {
	if math.IsNaN(baseline) || baseline <= 0 {
		return Pathway{}, ErrZeroBaseline
	}
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return Pathway{}, err
	}

	pw := Pathway{
		BaselineTonnes: baseline,
		BaseYear:       opts.BaseYear,
		AnnualRate:     opts.AnnualRate,
		Targets:        make([]Target, 0, len(opts.Horizons)),
	}

	for _, h := range opts.Horizons {
		target := CompoundTarget(baseline, opts.AnnualRate, h)
		pw.Targets = append(pw.Targets, Target{
			Horizon:          h,
			Year:             opts.BaseYear + h,
			TargetTonnes:     target,
			ReductionTonnes:  baseline - target,
			ReductionPercent: (baseline - target) / baseline * 100,
		})
	}

	pw.NearTerm = milestone(baseline, opts.NearTerm)
	pw.LongTerm = milestone(baseline, opts.LongTerm)
	pw.ResidualToOffset = pw.LongTerm.TargetTonnes

	years := opts.NearTerm.Year - opts.BaseYear
	perYear := pw.NearTerm.ReductionTonnes / float64(years)
	pw.Pace = Pace{
		Years:    years,
		PerYear:  perYear,
		PerMonth: perYear / MonthsPerYear,
		PerWeek:  perYear / WeeksPerYear,
	}

	return pw, nil
}

// CompoundTarget returns baseline × (1 − rate)^years.
func CompoundTarget(baseline, rate float64, years int) float64 {
	return baseline * math.Pow(1-rate, float64(years))
}

func milestone(baseline float64, m Milestone) MilestoneTarget {
	target := baseline * (1 - m.Cut)
	return MilestoneTarget{
		Year:            m.Year,
		Cut:             m.Cut,
		TargetTonnes:    target,
		ReductionTonnes: baseline - target,
	}
}
