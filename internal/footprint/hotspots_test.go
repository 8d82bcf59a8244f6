package footprint

import (
	"testing"

	"github.com/rshade/ghg-footprint/internal/carbon"
	"github.com/rshade/ghg-footprint/internal/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankHotspots_OrderAndLabels(t *testing.T) {
	s1, s2loc, _, s3 := fixture()

	ranked := RankHotspots(s1, s2loc, s3)

	// 3 scope 1 + 1 electricity + 6 applicable scope 3 entries.
	require.Len(t, ranked, 10)
	assert.Equal(t, "Scope 3 - Purchased Goods & Services", ranked[0].Label)
	assert.Equal(t, "Scope 3 - Capital Goods", ranked[1].Label)
	assert.Equal(t, "Scope 3 - Upstream Transportation", ranked[2].Label)
	assert.Equal(t, "Scope 1 - Stationary Combustion", ranked[3].Label)
	assert.Equal(t, "Scope 3 - Employee Commuting", ranked[4].Label)
	assert.Equal(t, "Scope 2 - Electricity", ranked[5].Label)

	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].TonnesCO2e, ranked[i].TonnesCO2e)
		assert.Equal(t, i+1, ranked[i].Rank)
	}
	for _, h := range ranked {
		assert.NotEqual(t, carbon.CategoryEndOfLife, h.Category)
	}
}

func TestRankHotspots_ElectricityUsesLocationBasis(t *testing.T) {
	s1, s2loc, _, s3 := fixture()

	for _, h := range RankHotspots(s1, s2loc, s3) {
		if h.Scope == carbon.Scope2 {
			assert.InDelta(t, 125.0, h.TonnesCO2e, 1e-9)
		}
	}
}

// TestRankHotspots_StableOnTies checks that equal amounts keep flatten order:
// Scope 1 before Scope 2 before Scope 3.
func TestRankHotspots_StableOnTies(t *testing.T) {
	s1 := scope.Breakdown{Entries: []carbon.CategoryEmission{
		entry(carbon.CategoryMobileCombustion, 10),
		entry(carbon.CategoryStationaryCombustion, 10),
	}}
	s2 := scope.Breakdown{Entries: []carbon.CategoryEmission{entry(carbon.CategoryElectricity, 10)}}
	s3 := scope.Breakdown{Entries: []carbon.CategoryEmission{
		entry(carbon.CategoryWaste, 10),
		entry(carbon.CategoryCommuting, 10),
	}}

	for range 5 {
		ranked := RankHotspots(s1, s2, s3)
		got := make([]carbon.Category, len(ranked))
		for i, h := range ranked {
			got[i] = h.Category
		}
		assert.Equal(t, []carbon.Category{
			carbon.CategoryMobileCombustion,
			carbon.CategoryStationaryCombustion,
			carbon.CategoryElectricity,
			carbon.CategoryWaste,
			carbon.CategoryCommuting,
		}, got)
	}
}

func TestTopN(t *testing.T) {
	s1, s2loc, s2mkt, s3 := fixture()
	ranked := RankHotspots(s1, s2loc, s3)

	assert.Len(t, TopN(ranked, 5), 5)
	assert.Len(t, TopN(ranked, -1), len(ranked))
	assert.Len(t, TopN(ranked, 100), len(ranked))

	fp := Aggregate(s1, s2loc, s2mkt, s3, Options{})
	assert.Len(t, fp.Hotspots, DefaultTopN)
	fp = Aggregate(s1, s2loc, s2mkt, s3, Options{TopN: 3})
	assert.Len(t, fp.Hotspots, 3)
}

func TestRankHotspots_SharesSumToHundred(t *testing.T) {
	s1, s2loc, _, s3 := fixture()

	var sum float64
	for _, h := range RankHotspots(s1, s2loc, s3) {
		require.True(t, h.Share.Defined)
		sum += h.Share.Percent
	}
	assert.InDelta(t, 100.0, sum, 1e-9)
}
