package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rshade/ghg-footprint/internal/carbon"
	"github.com/rshade/ghg-footprint/internal/engine"
	"github.com/rshade/ghg-footprint/internal/roadmap"
	"github.com/rshade/ghg-footprint/internal/scope"
)

const (
	boxWidth   = 78
	labelWidth = 36
	rule       = "─"
)

type textStyles struct {
	title   lipgloss.Style
	section lipgloss.Style
	muted   lipgloss.Style
	warn    lipgloss.Style
	box     lipgloss.Style
	boxed   bool
}

func plainStyles() textStyles {
	s := lipgloss.NewStyle()
	return textStyles{title: s, section: s, muted: s, warn: s, box: s}
}

func terminalStyles() textStyles {
	return textStyles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		section: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		box: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		boxed: true,
	}
}

// RenderText writes a human-readable report. Terminal output is styled and
// boxed; any other writer gets plain text.
func RenderText(w io.Writer, r engine.Report) error {
	styles := plainStyles()
	if isWriterTerminal(w) {
		styles = terminalStyles()
	}

	out := buildText(r, styles)
	if styles.boxed {
		out = styles.box.Render(out)
	}
	_, err := fmt.Fprintln(w, out)
	return err
}

func buildText(r engine.Report, st textStyles) string {
	var b strings.Builder
	line := func(label, value string) {
		fmt.Fprintf(&b, "  %-*s %s\n", labelWidth, label, value)
	}
	section := func(title string) {
		b.WriteString("\n")
		b.WriteString(st.section.Render(title))
		b.WriteString("\n")
	}

	p := r.Profile
	b.WriteString(st.title.Render("GHG EMISSIONS FOOTPRINT"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat(rule, boxWidth-4))
	b.WriteString("\n")
	line("Company", p.CompanyName)
	if p.Industry != "" {
		line("Industry", p.Industry)
	}
	line("Location", p.Location.Key())
	if p.ReportingYear > 0 {
		line("Reporting year", fmt.Sprintf("%d", p.ReportingYear))
	}
	line("Employees", formatNumber(float64(p.EmployeeCount), 0))
	line("Mode", r.Mode)
	b.WriteString(st.muted.Render(fmt.Sprintf("  run %s at %s", r.RunID, r.GeneratedAt.Format("2006-01-02 15:04:05 MST"))))
	b.WriteString("\n")

	section("SCOPE 1 - DIRECT EMISSIONS")
	writeBreakdown(&b, r.Scope1, st)

	section("SCOPE 2 - PURCHASED ELECTRICITY")
	line("Location-based", formatTonnes(r.Scope2Location.Subtotal()))
	line("Market-based", formatTonnes(r.Scope2Market.Subtotal()))
	line("Renewable reduction", formatShare(r.Footprint.RenewableReduction))
	if e, ok := r.Scope2Location.Get(carbon.CategoryElectricity); ok {
		b.WriteString(st.muted.Render("    " + provenanceNote(e)))
		b.WriteString("\n")
	}

	section("SCOPE 3 - VALUE CHAIN")
	writeBreakdown(&b, r.Scope3, st)

	tot := r.Footprint.Totals
	section("TOTAL FOOTPRINT")
	line("Total (location-based)", formatTonnes(tot.TotalLocation))
	line("Total (market-based)", formatTonnes(tot.TotalMarket))
	line("Scope 1 share", formatShare(tot.Scope1Share))
	line("Scope 2 share", formatShare(tot.Scope2Share))
	line("Scope 3 share", formatShare(tot.Scope3Share))
	if in := r.Footprint.Intensity; in.Defined {
		value := formatNumber(in.PerEmployee, 2) + " tCO2e per employee"
		if bm := in.Benchmark; bm != nil {
			value += fmt.Sprintf(" (%s typical %g-%g)", bm.Industry, bm.Low, bm.High)
		}
		line("Intensity", value)
	}
	eq := r.Footprint.Equivalencies
	line("Equivalent cars driven for a year", formatNumber(eq.CarsPerYear, 0))
	line("Equivalent homes powered for a year", formatNumber(eq.HomesPerYear, 0))
	line("Trees needed to absorb annually", formatNumber(eq.TreesPerYear, 0))
	line("Round trips New York - Los Angeles", formatNumber(eq.RoundTripFlights, 0))

	section("TOP EMISSION HOTSPOTS")
	if len(r.Footprint.Hotspots) == 0 {
		b.WriteString("  none\n")
	}
	for _, h := range r.Footprint.Hotspots {
		fmt.Fprintf(&b, "  %d. %-*s %s (%s)\n", h.Rank, labelWidth-3, h.Label, formatTonnes(h.TonnesCO2e), formatShare(h.Share))
	}

	section("REDUCTION PATHWAY")
	if pw := r.Pathway; pw != nil {
		line("Baseline", fmt.Sprintf("%s (%d)", formatTonnes(pw.BaselineTonnes), pw.BaseYear))
		line("Annual reduction rate", fmt.Sprintf("%.1f%%", pw.AnnualRate*100))
		for _, t := range pw.Targets {
			line(fmt.Sprintf("%d (+%d years)", t.Year, t.Horizon),
				fmt.Sprintf("%s (-%.1f%%)", formatTonnes(t.TargetTonnes), t.ReductionPercent))
		}
		line(fmt.Sprintf("%d near-term (%.0f%% cut)", pw.NearTerm.Year, pw.NearTerm.Cut*100), formatTonnes(pw.NearTerm.TargetTonnes))
		line(fmt.Sprintf("%d net-zero (%.0f%% cut)", pw.LongTerm.Year, pw.LongTerm.Cut*100), formatTonnes(pw.LongTerm.TargetTonnes))
		line("Residual to neutralize", formatTonnes(pw.ResidualToOffset))
		line("Required pace per year", formatTonnes(pw.Pace.PerYear))
		line("Required pace per month", formatTonnes(pw.Pace.PerMonth))
		line("Required pace per week", formatTonnes(pw.Pace.PerWeek))
	} else {
		b.WriteString(st.warn.Render("  pathway unavailable: " + r.PathwayNote))
		b.WriteString("\n")
	}

	section("REDUCTION ROADMAP")
	for _, ph := range roadmap.Phases {
		potentials := r.Roadmap.InPhase(ph)
		if len(potentials) == 0 {
			continue
		}
		fmt.Fprintf(&b, "  %s\n", ph.Label())
		for _, pot := range potentials {
			fmt.Fprintf(&b, "    %-*s %s (%s)\n", labelWidth-2, pot.Initiative.Name,
				formatTonnes(pot.ReductionTonnes), formatShare(pot.PercentOfTotal))
		}
	}
	line("Total achievable reduction", fmt.Sprintf("%s (%s)",
		formatTonnes(r.Roadmap.TotalPotential), formatShare(r.Roadmap.TotalPercent)))
	b.WriteString(st.muted.Render("  potentials are additive; overlapping initiatives are not netted"))
	b.WriteString("\n")

	section(fmt.Sprintf("COST-BENEFIT (carbon price %s/t)", formatMoney(r.CarbonPrice)))
	for _, cb := range r.CostBenefit {
		payback := "never"
		if cb.PaybackDefined {
			payback = fmt.Sprintf("%.1f years", cb.PaybackYears)
		}
		fmt.Fprintf(&b, "  %d. %-*s invest %s, value %s/yr, payback %s\n", cb.Rank, labelWidth-3,
			cb.Initiative.Name, formatMoney(cb.Initiative.Investment), formatMoney(cb.TotalAnnualValue), payback)
	}

	if len(r.Liability) > 0 {
		section("CARBON LIABILITY")
		for _, l := range r.Liability {
			line(fmt.Sprintf("At %s/t", formatMoney(l.PricePerTonne)), formatMoney(l.AnnualCost)+" per year")
		}
	}

	section("DATA QUALITY")
	pv := r.Provenance
	line("Measured categories", fmt.Sprintf("%d", pv.Measured))
	line("Estimated categories", fmt.Sprintf("%d", pv.Estimated))
	line("Not applicable", fmt.Sprintf("%d", pv.NotApplicable))
	if pv.Fallbacks > 0 {
		b.WriteString(st.warn.Render(fmt.Sprintf("  %d categories fell back to local estimates after service errors", pv.Fallbacks)))
		b.WriteString("\n")
	}
	if pv.Unresolved > 0 {
		b.WriteString(st.warn.Render(fmt.Sprintf("  %d categories had no emission factor and report zero", pv.Unresolved)))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeBreakdown(b *strings.Builder, bd scope.Breakdown, st textStyles) {
	for _, e := range bd.Entries {
		if !e.Applicable {
			fmt.Fprintf(b, "  %-*s %s\n", labelWidth, e.Category.Label(), st.muted.Render("not applicable"))
			continue
		}
		fmt.Fprintf(b, "  %-*s %s  %s\n", labelWidth, e.Category.Label(), formatTonnes(e.TonnesCO2e),
			st.muted.Render("["+string(e.Provenance)+"]"))
	}
	fmt.Fprintf(b, "  %-*s %s\n", labelWidth, "Subtotal", formatTonnes(bd.Subtotal()))
}

func provenanceNote(e carbon.CategoryEmission) string {
	note := string(e.Provenance) + ": " + e.Method
	if e.ServiceError != "" {
		note += " (service error: " + e.ServiceError + ")"
	}
	return note
}
