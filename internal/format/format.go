// Package format renders small display values shared by the page mappers.
package format

import (
	"strconv"
	"strings"
)

// ClockTime trims seconds from an HH:MM:SS value. Other values pass through.
// Example: ClockTime("15:00:00") => "15:00"
func ClockTime(v string) string {
	v = strings.TrimSpace(v)
	parts := strings.Split(v, ":")
	if len(parts) >= 2 {
		return parts[0] + ":" + parts[1]
	}
	return v
}

// Labelled joins a label and a value the way footer lines are written.
// Example: Labelled("대표", "홍길동") => "대표 : 홍길동"
func Labelled(label, value string) string {
	return label + " : " + value
}

// Percent formats a rate without trailing zeros.
func Percent(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64) + "%"
}

// Count formats n with a unit suffix. Korean counters attach directly.
// Example: Count(4, "명") => "4명"
func Count(n int, unit string) string {
	return strconv.Itoa(n) + unit
}

// Seconds formats a CSS time value.
// Example: Seconds(0.3) => "0.3s"
func Seconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "s"
}
