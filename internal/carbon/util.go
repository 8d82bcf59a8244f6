package carbon

import "strconv"

// formatFloat formats a factor for display.
// Integers are formatted without a decimal point; other values use the
// shortest representation that round-trips.
func formatFloat(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
