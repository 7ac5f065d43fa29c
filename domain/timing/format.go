// Package timing converts observed durations between integer milliseconds and the
// mm:ss.cc text used by the stopwatch and the paste box.
package timing

import (
	"fmt"
	"strconv"
)

const (
	MillisPerMinute = 60000
	MillisPerSecond = 1000
	MillisPerCenti  = 10

	MaxSeconds = 59
	MaxCentis  = 99
)

// Format renders ms as mm:ss.cc. Minutes widen past two digits when needed,
// centiseconds are truncated, not rounded.
func Format(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	minutes := ms / MillisPerMinute
	seconds := (ms % MillisPerMinute) / MillisPerSecond
	centis := (ms % MillisPerSecond) / MillisPerCenti
	return fmt.Sprintf("%02d:%02d.%02d", minutes, seconds, centis)
}

// Fields splits ms into the three texts accepted by ParseStrict.
func Fields(ms int64) (minutes, seconds, centis string) {
	f := Format(ms)
	colon := len(f) - 6
	return f[:colon], f[colon+1 : colon+3], f[colon+4:]
}

// FormatSeconds renders a computed time in seconds with two decimals.
func FormatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', 2, 64)
}
