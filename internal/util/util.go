// Package util holds formatting helpers shared by the sinks and the CLI.
package util

import (
	"fmt"
	"math"
	"strings"
)

// FormatLapTime renders seconds as m:ss.mmm, e.g. 71.532 -> "1:11.532".
// Non-positive times render as "--:--.---".
func FormatLapTime(seconds float64) string {
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "--:--.---"
	}
	ms := int64(math.Round(seconds * 1000))
	return fmt.Sprintf("%d:%02d.%03d", ms/60000, (ms/1000)%60, ms%1000)
}

// FormatGap renders the difference to a reference time as +s.mmm.
func FormatGap(time, reference float64) string {
	if time <= 0 || reference <= 0 {
		return ""
	}
	return fmt.Sprintf("%+.3f", time-reference)
}

// Bar draws a fixed-width gauge for a 0-100 percentage, e.g. fuel level.
func Bar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	percent = math.Max(0, math.Min(100, percent))
	filled := int(math.Round(percent / 100 * float64(width)))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}
