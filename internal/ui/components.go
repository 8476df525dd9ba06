package ui

import (
	"strings"

	"github.com/olivier-w/rundash/internal/sim"
	"github.com/olivier-w/rundash/internal/util"
)

const (
	ledOn  = "■"
	ledOff = "□"
)

// renderLEDBar lights the first active of segments LEDs. Lit segments are
// green up to 60% of the bar, amber up to 80% and red above.
func renderLEDBar(active, segments int) string {
	if segments <= 0 {
		return ""
	}
	parts := make([]string, segments)
	for i := range segments {
		if !sim.SegmentLit(i, active) {
			parts[i] = ledOffStyle.Render(ledOff)
			continue
		}
		switch {
		case i < segments*6/10:
			parts[i] = ledLowStyle.Render(ledOn)
		case i < segments*8/10:
			parts[i] = ledMidStyle.Render(ledOn)
		default:
			parts[i] = ledHighStyle.Render(ledOn)
		}
	}
	return strings.Join(parts, " ")
}

func renderReadout(label string, value float64, unit string) string {
	s := labelStyle.Render(label) + valueStyle.Render(util.FormatReading(value))
	if unit != "" {
		s += " " + unitStyle.Render(unit)
	}
	return s
}

func spaces(n int) string {
	if n < 0 {
		n = 0
	}
	return strings.Repeat(" ", n)
}
