package exporter

import (
	"fmt"
	"strconv"
)

// FormatStat formats a statistic for CSV output with exactly 2 decimal
// places, so values like 13.4 appear as 13.40 across every summary table.
func FormatStat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// FormatRate formats a proportion or rate with 4 decimal places; rates are
// small and 2 places would round most of them to 0.00.
func FormatRate(f float64) string {
	return fmt.Sprintf("%.4f", f)
}

// FormatCount formats an integer count for CSV output.
func FormatCount(n int) string {
	return strconv.Itoa(n)
}
