package report

import (
	"fmt"
	"io"

	"github.com/rshade/ghg-footprint/internal/engine"
	"github.com/rshade/ghg-footprint/internal/scope"
	"github.com/xuri/excelize/v2"
)

// Sheet names in the XLSX workbook.
const (
	SheetSummary     = "Summary"
	SheetCategories  = "Categories"
	SheetHotspots    = "Hotspots"
	SheetPathway     = "Pathway"
	SheetRoadmap     = "Roadmap"
	SheetCostBenefit = "Cost-Benefit"
)

const (
	numberFormat   = "#,##0.00"
	minColumnWidth = 12
	maxColumnWidth = 48
)

// workbook wraps an excelize file with shared styles.
type workbook struct {
	file        *excelize.File
	headerStyle int
	numberStyle int
}

func newWorkbook() (*workbook, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, err
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"2E7D32"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	fmtStr := numberFormat
	number, err := f.NewStyle(&excelize.Style{CustomNumFmt: &fmtStr})
	if err != nil {
		return nil, fmt.Errorf("failed to create number style: %w", err)
	}
	return &workbook{file: f, headerStyle: header, numberStyle: number}, nil
}

// writeTable writes a header row and data rows to a sheet, creating it if
// needed. Float cells get the number format.
func (wb *workbook) writeTable(sheet string, columns []string, rows [][]any) error {
	if idx, _ := wb.file.GetSheetIndex(sheet); idx < 0 {
		if _, err := wb.file.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", sheet, err)
		}
	}

	widths := make([]int, len(columns))
	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := wb.file.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
		widths[i] = len(col)
	}
	last, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := wb.file.SetCellStyle(sheet, "A1", last, wb.headerStyle); err != nil {
		return err
	}

	for r, row := range rows {
		for c, val := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := wb.file.SetCellValue(sheet, cell, val); err != nil {
				return fmt.Errorf("failed to set %s!%s: %w", sheet, cell, err)
			}
			if _, ok := val.(float64); ok {
				if err := wb.file.SetCellStyle(sheet, cell, cell, wb.numberStyle); err != nil {
					return err
				}
			}
			if n := len(fmt.Sprint(val)); c < len(widths) && n > widths[c] {
				widths[c] = n
			}
		}
	}

	if err := wb.file.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		width := float64(min(max(w+2, minColumnWidth), maxColumnWidth))
		if err := wb.file.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

// RenderXLSX writes the report as a workbook with one sheet per section.
func RenderXLSX(w io.Writer, r engine.Report) error {
	wb, err := newWorkbook()
	if err != nil {
		return err
	}
	defer wb.file.Close()

	tot := r.Footprint.Totals
	summary := [][]any{
		{"Company", r.Profile.CompanyName},
		{"Run ID", r.RunID},
		{"Generated at", r.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Mode", r.Mode},
		{"Scope 1", tot.Scope1},
		{"Scope 2 (location-based)", tot.Scope2Location},
		{"Scope 2 (market-based)", tot.Scope2Market},
		{"Scope 3", tot.Scope3},
		{"Total (location-based)", tot.TotalLocation},
		{"Total (market-based)", tot.TotalMarket},
		{"Intensity per employee", r.Footprint.Intensity.PerEmployee},
		{"Measured categories", r.Provenance.Measured},
		{"Estimated categories", r.Provenance.Estimated},
		{"Unresolved categories", r.Provenance.Unresolved},
		{"Service fallbacks", r.Provenance.Fallbacks},
	}
	for _, l := range r.Liability {
		summary = append(summary, []any{fmt.Sprintf("Carbon liability at $%g/t", l.PricePerTonne), l.AnnualCost})
	}
	if err := wb.writeTable(SheetSummary, []string{"Metric", "Value"}, summary); err != nil {
		return err
	}

	var categories [][]any
	for _, bd := range []scope.Breakdown{r.Scope1, r.Scope2Location, r.Scope2Market, r.Scope3} {
		for _, e := range bd.Entries {
			categories = append(categories, []any{
				int(e.Scope), e.Category.Label(), string(e.Basis), e.TonnesCO2e,
				string(e.Provenance), e.Method, e.ServiceError,
			})
		}
	}
	if err := wb.writeTable(SheetCategories,
		[]string{"Scope", "Category", "Basis", "tCO2e", "Provenance", "Method", "Service Error"},
		categories); err != nil {
		return err
	}

	var hotspots [][]any
	for _, h := range r.Footprint.Hotspots {
		hotspots = append(hotspots, []any{h.Rank, h.Label, h.TonnesCO2e, h.Share.Percent})
	}
	if err := wb.writeTable(SheetHotspots, []string{"Rank", "Source", "tCO2e", "Share %"}, hotspots); err != nil {
		return err
	}

	var targets [][]any
	if pw := r.Pathway; pw != nil {
		for _, t := range pw.Targets {
			targets = append(targets, []any{t.Year, fmt.Sprintf("+%d years", t.Horizon), t.TargetTonnes, t.ReductionTonnes})
		}
		targets = append(targets,
			[]any{pw.NearTerm.Year, "near-term milestone", pw.NearTerm.TargetTonnes, pw.NearTerm.ReductionTonnes},
			[]any{pw.LongTerm.Year, "net-zero milestone", pw.LongTerm.TargetTonnes, pw.LongTerm.ReductionTonnes},
		)
	}
	if err := wb.writeTable(SheetPathway, []string{"Year", "Target", "tCO2e", "Reduction tCO2e"}, targets); err != nil {
		return err
	}

	var initiatives [][]any
	for _, p := range r.Roadmap.Potentials {
		initiatives = append(initiatives, []any{
			p.Rank, p.Initiative.Name, p.Initiative.Phase.Label(), p.Initiative.Source, p.ReductionTonnes,
		})
	}
	if err := wb.writeTable(SheetRoadmap, []string{"Rank", "Initiative", "Phase", "Source", "Reduction tCO2e"}, initiatives); err != nil {
		return err
	}

	var costs [][]any
	for _, cb := range r.CostBenefit {
		payback := any("never")
		if cb.PaybackDefined {
			payback = cb.PaybackYears
		}
		costs = append(costs, []any{
			cb.Rank, cb.Initiative.Name, cb.Initiative.Investment, cb.Initiative.AnnualSavings,
			cb.CarbonValue, cb.TotalAnnualValue, payback,
		})
	}
	if err := wb.writeTable(SheetCostBenefit,
		[]string{"Rank", "Initiative", "Investment", "Annual Savings", "Carbon Value", "Total Annual Value", "Payback Years"},
		costs); err != nil {
		return err
	}

	wb.file.SetActiveSheet(0)
	if err := wb.file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
