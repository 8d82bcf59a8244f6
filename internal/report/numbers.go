package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rshade/ghg-footprint/internal/footprint"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer groups thousands for English output.
var printer = message.NewPrinter(language.English)

// formatNumber formats f with the given precision and thousand separators.
// Example: formatNumber(3413.337, 2) returns "3,413.34".
func formatNumber(f float64, precision int) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}

	formatted := strconv.FormatFloat(f, 'f', precision, 64)
	intPart, frac, hasFrac := strings.Cut(formatted, ".")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return sign + formatted
	}
	grouped := printer.Sprintf("%d", n)
	if n == 0 && sign == "-" && strings.Trim(frac, "0") == "" {
		sign = ""
	}
	if hasFrac {
		return sign + grouped + "." + frac
	}
	return sign + grouped
}

func formatTonnes(f float64) string {
	return formatNumber(f, 2) + " tCO2e"
}

func formatMoney(f float64) string {
	if f < 0 {
		return "-$" + formatNumber(-f, 0)
	}
	return "$" + formatNumber(f, 0)
}

func formatShare(s footprint.Share) string {
	if !s.Defined {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", s.Percent)
}
