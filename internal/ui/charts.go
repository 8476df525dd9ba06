package ui

import (
	"github.com/guptarohit/asciigraph"
)

// renderChart plots series with asciigraph. An empty series renders a
// placeholder of the same height so the layout does not jump.
func renderChart(series []float64, caption string, width, height int) string {
	if len(series) == 0 {
		out := helpStyle.Render("waiting for " + caption + " history")
		for range height {
			out += "\n"
		}
		return out
	}
	if len(series) == 1 {
		series = []float64{series[0], series[0]}
	}
	plot := asciigraph.Plot(series,
		asciigraph.Height(height),
		asciigraph.Width(max(width, 10)),
		asciigraph.Precision(1),
		asciigraph.Caption(caption),
	)
	return chartStyle.Render(plot)
}
