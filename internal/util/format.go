package util

import (
	"fmt"
	"strings"
	"time"
)

// FormatDuration formats a duration as m:ss.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	m := total / 60
	s := total % 60
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatReading formats a speed or distance readout with one decimal place.
func FormatReading(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// FormatLEDs renders a plain-text speed bar, e.g. "[#####-----]".
func FormatLEDs(active, segments int) string {
	if segments < 0 {
		segments = 0
	}
	active = max(0, min(active, segments))
	return "[" + strings.Repeat("#", active) + strings.Repeat("-", segments-active) + "]"
}
