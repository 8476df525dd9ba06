package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/rundash/internal/telemetry"
	"github.com/olivier-w/rundash/internal/util"
)

// TelemetrySink is a telemetry.Sink that forwards fetches to the dashboard.
// Updates are dropped when the dashboard falls behind; the next poll
// replaces them anyway.
type TelemetrySink struct {
	ch chan tea.Msg
}

// NewTelemetrySink creates a sink with a small buffer.
func NewTelemetrySink() *TelemetrySink {
	return &TelemetrySink{ch: make(chan tea.Msg, 16)}
}

func (s *TelemetrySink) OnReading(r telemetry.Reading) {
	select {
	case s.ch <- readingMsg(r):
	default:
	}
}

func (s *TelemetrySink) OnHistory(h telemetry.History) {
	select {
	case s.ch <- historyMsg(h):
	default:
	}
}

// telemetryPanel shows the backend readings and history charts. A failed
// poll never reaches it, so it keeps showing the last good values.
type telemetryPanel struct {
	source     string
	updates    <-chan tea.Msg
	reading    telemetry.Reading
	hasReading bool
	history    telemetry.History
	lastUpdate time.Time
	spinner    spinner.Model
	gauge      *speedGauge
}

func newTelemetryPanel(source string, sink *TelemetrySink, maxSpeed float64) *telemetryPanel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	return &telemetryPanel{
		source:  source,
		updates: sink.ch,
		spinner: s,
		gauge:   newSpeedGauge(maxSpeed),
	}
}

func (p *telemetryPanel) init() tea.Cmd {
	return tea.Batch(waitForTelemetry(p.updates), p.spinner.Tick)
}

func (p *telemetryPanel) applyReading(r telemetry.Reading, at time.Time) {
	p.reading = r
	p.hasReading = true
	p.lastUpdate = at
	p.gauge.setTarget(r.Speed)
}

func (p *telemetryPanel) applyHistory(h telemetry.History, at time.Time) {
	p.history = h
	p.lastUpdate = at
}

func (p *telemetryPanel) view(width int, now time.Time) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("telemetry"))
	b.WriteString("  ")
	b.WriteString(helpStyle.Render(p.source))
	b.WriteString("\n\n")

	if !p.hasReading {
		b.WriteString(p.spinner.View())
		b.WriteString(" ")
		b.WriteString(statusStyle.Render("waiting for backend..."))
		b.WriteString("\n")
	} else {
		b.WriteString(renderReadout("Speed", p.reading.Speed, "km/h"))
		b.WriteString("\n")
		b.WriteString(renderReadout("Distance", p.reading.Distance, ""))
		b.WriteString("\n")
		b.WriteString(p.gauge.view(min(width-4, 40)))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("updated " + util.FormatDuration(now.Sub(p.lastUpdate)) + " ago"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	chartWidth := max((width-12)/2, 10)
	speed := renderChart(p.history.Speeds(), "speed", chartWidth, 6)
	dist := renderChart(p.history.Distances(), "distance", chartWidth, 6)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, speed, "   ", dist))
	return b.String()
}
