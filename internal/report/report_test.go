package report

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rshade/ghg-footprint/internal/catalog"
	"github.com/rshade/ghg-footprint/internal/engine"
	"github.com/rshade/ghg-footprint/internal/footprint"
	"github.com/rshade/ghg-footprint/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

func exampleReport(t *testing.T) engine.Report {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	e := engine.New(cat, engine.WithClock(func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}))
	r, err := e.Run(context.Background(), profile.Example())
	require.NoError(t, err)
	return r
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"text", FormatText},
		{"", FormatText},
		{"JSON", FormatJSON},
		{"yml", FormatYAML},
		{"yaml", FormatYAML},
		{" xlsx ", FormatXLSX},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseFormat("pdf")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	assert.True(t, errors.Is(Render(&bytes.Buffer{}, engine.Report{}, Format("csv")), ErrUnsupportedFormat))
	assert.True(t, FormatXLSX.Binary())
	assert.False(t, FormatJSON.Binary())
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, exampleReport(t), FormatText))
	out := buf.String()

	for _, want := range []string{
		"GHG EMISSIONS FOOTPRINT",
		"Example Corp",
		"Stationary Combustion",
		"265.00 tCO2e",
		"3,413.34 tCO2e",
		"Scope 3 - Purchased Goods & Services",
		"REDUCTION PATHWAY",
		"Quick Wins (0-6 months)",
		"Energy Efficiency",
		"LED Lighting Upgrade",
		"$170,667 per year",
		"Use of Sold Products",
		"not applicable",
	} {
		assert.Contains(t, out, want)
	}
	// plain writers get no ANSI escapes
	assert.NotContains(t, out, "\x1b[")
}

func TestRenderText_PathwayUnavailable(t *testing.T) {
	r := exampleReport(t)
	r.Pathway = nil
	r.PathwayNote = "baseline emissions must be greater than zero"

	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, r))
	assert.Contains(t, buf.String(), "pathway unavailable: baseline emissions must be greater than zero")
}

func TestRenderJSON(t *testing.T) {
	r := exampleReport(t)
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, r, FormatJSON))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, r.RunID, decoded["run_id"])

	fp, ok := decoded["footprint"].(map[string]any)
	require.True(t, ok)
	totals, ok := fp["totals"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 3413.34, totals["total_location"], 1e-6)

	scope3, ok := decoded["scope3"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, scope3["categories"], 9)
}

func TestRenderYAML(t *testing.T) {
	r := exampleReport(t)
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, r, FormatYAML))

	var decoded struct {
		Mode      string              `yaml:"mode"`
		Footprint footprint.Footprint `yaml:"footprint"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, engine.ModeOffline, decoded.Mode)
	assert.InDelta(t, r.Footprint.Totals.TotalMarket, decoded.Footprint.Totals.TotalMarket, 1e-9)
	assert.Len(t, decoded.Footprint.Hotspots, 5)
}

func TestRenderXLSX(t *testing.T) {
	r := exampleReport(t)
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, r, FormatXLSX))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetCategories, SheetHotspots, SheetPathway, SheetRoadmap, SheetCostBenefit}, f.GetSheetList())

	company, err := f.GetCellValue(SheetSummary, "B2")
	require.NoError(t, err)
	assert.Equal(t, r.Profile.CompanyName, company)

	rows, err := f.GetRows(SheetCategories)
	require.NoError(t, err)
	// header + 3 scope 1 + 2 scope 2 + 9 scope 3
	assert.Len(t, rows, 15)
	assert.Equal(t, "Category", rows[0][1])

	top, err := f.GetCellValue(SheetHotspots, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Scope 3 - Purchased Goods & Services", top)

	led, err := f.GetCellValue(SheetCostBenefit, "B2")
	require.NoError(t, err)
	assert.Equal(t, "LED Lighting Upgrade", led)
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in        float64
		precision int
		want      string
	}{
		{3413.337, 2, "3,413.34"},
		{0, 2, "0.00"},
		{1000, 2, "1,000.00"},
		{1234567, 0, "1,234,567"},
		{-1500.5, 1, "-1,500.5"},
		{-0.001, 2, "0.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatNumber(tt.in, tt.precision), tt.in)
	}

	assert.Equal(t, "$50", formatMoney(50))
	assert.Equal(t, "n/a", formatShare(footprint.Share{}))
	assert.Equal(t, "12.5%", formatShare(footprint.Share{Percent: 12.5, Defined: true}))
	assert.True(t, strings.HasSuffix(formatTonnes(1), " tCO2e"))
}
