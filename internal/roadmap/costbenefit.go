package roadmap

import "sort"

// DefaultCarbonPrice is the internal carbon price in USD per tonne.
const DefaultCarbonPrice = 50.0

// CapitalInitiative is an investment with known savings and reductions.
type CapitalInitiative struct {
	Name                  string  `yaml:"name" json:"name"`
	Investment            float64 `yaml:"investment" json:"investment"`
	AnnualSavings         float64 `yaml:"annual_savings" json:"annual_savings"`
	AnnualReductionTonnes float64 `yaml:"annual_reduction_tonnes" json:"annual_reduction_tonnes"`
}

// CostBenefit is the evaluated economics of a capital initiative.
type CostBenefit struct {
	Rank             int               `json:"rank" yaml:"rank"`
	Initiative       CapitalInitiative `json:"initiative" yaml:"initiative"`
	CarbonValue      float64           `json:"carbon_value" yaml:"carbon_value"`
	TotalAnnualValue float64           `json:"total_annual_value" yaml:"total_annual_value"`

	// PaybackYears is meaningful only when PaybackDefined is true. Payback is
	// undefined (infinite) when the investment or the annual value is not positive.
	PaybackYears   float64 `json:"payback_years" yaml:"payback_years"`
	PaybackDefined bool    `json:"payback_defined" yaml:"payback_defined"`
}

// EvaluateCostBenefit prices each initiative's reductions at carbonPrice and
// ranks by payback, shortest first. Undefined paybacks rank last. Ties are
// broken by total annual value, highest first, then by catalog order.
func EvaluateCostBenefit(initiatives []CapitalInitiative, carbonPrice float64) []CostBenefit {
	out := make([]CostBenefit, 0, len(initiatives))
	for _, in := range initiatives {
		cb := CostBenefit{
			Initiative:  in,
			CarbonValue: in.AnnualReductionTonnes * carbonPrice,
		}
		cb.TotalAnnualValue = in.AnnualSavings + cb.CarbonValue
		if in.Investment > 0 && cb.TotalAnnualValue > 0 {
			cb.PaybackYears = in.Investment / cb.TotalAnnualValue
			cb.PaybackDefined = true
		}
		out = append(out, cb)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.PaybackDefined != b.PaybackDefined {
			return a.PaybackDefined
		}
		if a.PaybackDefined && a.PaybackYears != b.PaybackYears {
			return a.PaybackYears < b.PaybackYears
		}
		return a.TotalAnnualValue > b.TotalAnnualValue
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// Liability is the annual cost of emissions at a carbon price.
type Liability struct {
	PricePerTonne float64 `json:"price_per_tonne" yaml:"price_per_tonne"`
	AnnualCost    float64 `json:"annual_cost" yaml:"annual_cost"`
}

// CarbonLiability prices total emissions at each carbon price.
func CarbonLiability(totalTonnes float64, prices []float64) []Liability {
	out := make([]Liability, 0, len(prices))
	for _, price := range prices {
		out = append(out, Liability{PricePerTonne: price, AnnualCost: totalTonnes * price})
	}
	return out
}
