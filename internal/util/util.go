// Package util holds small formatting helpers shared by the delivery layer.
package util

import "fmt"

// FormatRouteMinutes renders a whole-minute duration for display:
// "36 min" under an hour, "4h 36min" from one hour up.
func FormatRouteMinutes(minutes float64) string {
	total := int(minutes)
	if total < 0 {
		total = 0
	}

	hours := total / 60
	mins := total % 60

	if hours == 0 {
		return fmt.Sprintf("%d min", mins)
	}

	return fmt.Sprintf("%dh %dmin", hours, mins)
}
