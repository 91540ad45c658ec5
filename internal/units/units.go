// Package units converts between human time/distance notation and the
// canonical integer seconds and meters stored on sessions and workouts.
package units

import (
	"fmt"
	"strings"
)

// ParseDuration converts "SS", "MM:SS" or "HH:MM:SS" into seconds.
//
// Parsing is lenient: each segment is read like a leading integer, and any
// segment that does not start with a digit makes the whole value 0. Input
// with any other number of segments falls back to the plain-seconds form.
func ParseDuration(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	parts := strings.Split(text, ":")
	switch len(parts) {
	case 2:
		m, okM := leadingInt(parts[0])
		s, okS := leadingInt(parts[1])
		if !okM || !okS {
			return 0
		}
		return m*60 + s
	case 3:
		h, okH := leadingInt(parts[0])
		m, okM := leadingInt(parts[1])
		s, okS := leadingInt(parts[2])
		if !okH || !okM || !okS {
			return 0
		}
		return h*3600 + m*60 + s
	}
	return ParseInt(text, 0)
}

// maxIntDigits caps how many leading digits are read so the value cannot overflow.
const maxIntDigits = 12

// ParseInt reads the leading decimal digits of text, ignoring surrounding
// whitespace and anything after the digits ("5000m" is 5000). At most 12
// digits are read; later ones are ignored. There is no sign handling: "-5"
// does not start with a digit, so it yields fallback like any other text
// that does not start with a digit. A zero value also yields fallback.
func ParseInt(text string, fallback int) int {
	n, ok := leadingInt(text)
	if !ok || n == 0 {
		return fallback
	}
	return n
}

func leadingInt(text string) (int, bool) {
	text = strings.TrimSpace(text)
	n, digits := 0, 0
	for _, r := range text {
		if r < '0' || r > '9' || digits == maxIntDigits {
			break
		}
		n = n*10 + int(r-'0')
		digits++
	}
	return n, digits > 0
}

// FormatClock renders seconds as H:MM:SS, the editable form that
// ParseDuration reads back to the same value.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

// FormatDuration renders seconds for display as "1h 30m" or "45m".
// Seconds are dropped, so the result does not parse back.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// FormatDistance renders meters as "1.5km" from 1000m up, else "800m".
func FormatDistance(meters int) string {
	if meters >= 1000 {
		return fmt.Sprintf("%.1fkm", float64(meters)/1000)
	}
	return fmt.Sprintf("%dm", meters)
}
