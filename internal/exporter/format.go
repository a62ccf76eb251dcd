package exporter

import (
	"strconv"
)

// formatFloat formats a float64 with the shortest representation that
// round-trips, so exported values parse back to the same number
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}
