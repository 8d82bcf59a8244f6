package carbon

import (
	"github.com/rshade/ghg-footprint/internal/factorsvc"
	"github.com/rshade/ghg-footprint/internal/profile"
)

type categorySpec struct {
	scope Scope
	label string

	// endpoint is empty for estimator-only categories.
	endpoint string

	// applies reports whether the category is relevant to the organization.
	// Nil means always applicable.
	applies func(p profile.ActivityProfile) bool
}

var categorySpecs = map[Category]categorySpec{
	CategoryStationaryCombustion: {scope: Scope1, label: "Stationary Combustion", endpoint: factorsvc.EndpointStationary},
	CategoryMobileCombustion:     {scope: Scope1, label: "Mobile Combustion", endpoint: factorsvc.EndpointMobile},
	CategoryFugitive:             {scope: Scope1, label: "Fugitive Emissions", endpoint: factorsvc.EndpointFugitive},

	CategoryElectricity: {scope: Scope2, label: "Electricity"},

	CategoryPurchasedGoods:    {scope: Scope3, label: "Purchased Goods & Services"},
	CategoryCapitalGoods:      {scope: Scope3, label: "Capital Goods"},
	CategoryFuelEnergyRelated: {scope: Scope3, label: "Fuel & Energy-Related Activities"},
	CategoryUpstreamTransport: {scope: Scope3, label: "Upstream Transportation"},
	CategoryWaste:             {scope: Scope3, label: "Waste Generated in Operations"},
	CategoryBusinessTravel:    {scope: Scope3, label: "Business Travel", endpoint: factorsvc.EndpointBusinessTravel},
	CategoryCommuting:         {scope: Scope3, label: "Employee Commuting"},

	CategoryUseOfSoldProducts: {
		scope:   Scope3,
		label:   "Use of Sold Products",
		applies: func(p profile.ActivityProfile) bool { return p.SellsEnergyUsingProducts },
	},
	CategoryEndOfLife: {
		scope:   Scope3,
		label:   "End-of-Life Treatment",
		applies: func(p profile.ActivityProfile) bool { return p.SellsPhysicalProducts },
	},
}

// Scope1Categories lists the Scope 1 categories in breakdown order.
var Scope1Categories = []Category{
	CategoryStationaryCombustion,
	CategoryMobileCombustion,
	CategoryFugitive,
}

// Scope3Categories lists the Scope 3 categories in breakdown order.
var Scope3Categories = []Category{
	CategoryPurchasedGoods,
	CategoryCapitalGoods,
	CategoryFuelEnergyRelated,
	CategoryUpstreamTransport,
	CategoryWaste,
	CategoryBusinessTravel,
	CategoryCommuting,
	CategoryUseOfSoldProducts,
	CategoryEndOfLife,
}

// ScopeOf returns the scope a category belongs to.
func ScopeOf(c Category) (Scope, bool) {
	spec, ok := categorySpecs[c]
	return spec.scope, ok
}

// Applicable reports whether category c applies to the profile.
func Applicable(c Category, p profile.ActivityProfile) bool {
	spec, ok := categorySpecs[c]
	if !ok || spec.applies == nil {
		return ok
	}
	return spec.applies(p)
}

// Endpoint returns the service endpoint for c and the Scope 2 basis.
// Estimator-only categories return "".
func Endpoint(c Category, basis Basis) string {
	if c == CategoryElectricity {
		if basis == BasisMarket {
			return factorsvc.EndpointMarketBased
		}
		return factorsvc.EndpointLocationBased
	}
	return categorySpecs[c].endpoint
}
