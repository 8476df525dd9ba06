package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/rundash/internal/sim"
	"github.com/olivier-w/rundash/internal/telemetry"
)

// Options configures the dashboard.
type Options struct {
	Field         sim.Options
	FrameInterval time.Duration

	// Autostart starts the simulated drive when the program starts.
	Autostart bool

	// TelemetrySource labels the telemetry panel; Telemetry feeds it. A nil
	// Telemetry hides the panel.
	TelemetrySource string
	Telemetry       *TelemetrySink
}

// dashboard receives the loop's notifications and holds what the view draws.
type dashboard struct {
	speed    float64
	distance float64
	path     []sim.Point
	cursor   sim.Point
	active   int
	segments int
}

func (d *dashboard) ShowReadout(speed, distance float64) {
	d.speed = speed
	d.distance = distance
}

func (d *dashboard) DrawPath(path []sim.Point, cursor sim.Point) {
	d.path = path
	d.cursor = cursor
}

func (d *dashboard) SetLEDs(active, segments int) {
	d.active = active
	d.segments = segments
}

// Model is the Bubbletea model for the rundash TUI.
type Model struct {
	loop   *sim.Loop
	frames *frameScheduler
	dash   *dashboard
	gauge  *speedGauge
	tele   *telemetryPanel // nil when telemetry is off

	autostart bool
	ticking   bool // a tickMsg is in flight
	now       time.Time
	width     int
	height    int
	quitting  bool
}

// New creates a Model with a stopped loop in its initial state.
func New(opts Options) Model {
	frames := newFrameScheduler(opts.FrameInterval)
	loop := sim.New(frames, opts.Field)
	fieldOpts := loop.Options()

	dash := &dashboard{cursor: fieldOpts.Start, segments: fieldOpts.Segments}
	loop.AddDisplay(dash)
	loop.AddDrawing(dash)
	loop.AddLEDs(dash)

	m := Model{
		loop:      loop,
		frames:    frames,
		dash:      dash,
		gauge:     newSpeedGauge(fieldOpts.MaxSpeed),
		autostart: opts.Autostart,
		now:       time.Now(),
	}
	if opts.Telemetry != nil {
		m.tele = newTelemetryPanel(opts.TelemetrySource, opts.Telemetry, fieldOpts.MaxSpeed)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.SetWindowTitle(windowTitle(false))}
	if m.autostart {
		m.loop.Start()
		cmds = append(cmds, m.frames.cmd(), tea.SetWindowTitle(windowTitle(true)))
	}
	if m.tele != nil {
		cmds = append(cmds, m.tele.init(), clockCmd())
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.handleMsg(msg)
	return next, cmd
}

func (m Model) handleMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isQuit(msg) {
			m.quitting = true
			m.loop.Stop()
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}
		wasRunning := m.loop.Running()
		switch msg.String() {
		case "s", " ":
			m.loop.Start()
		case "x":
			m.loop.Stop()
		case "r":
			m.loop.Reset()
		default:
			return m, nil
		}
		m.gauge.setTarget(m.dash.speed)
		cmds := []tea.Cmd{m.frames.cmd(), m.armTick()}
		if running := m.loop.Running(); running != wasRunning {
			cmds = append(cmds, tea.SetWindowTitle(windowTitle(running)))
		}
		return m, tea.Batch(cmds...)

	case frameMsg:
		if !m.frames.fire(msg.id) {
			return m, nil
		}
		m.gauge.setTarget(m.dash.speed)
		cmd := tea.Batch(m.frames.cmd(), m.armTick())
		return m, cmd

	case tickMsg:
		m.now = time.Time(msg)
		moved := m.gauge.step()
		if m.tele != nil && m.tele.gauge.step() {
			moved = true
		}
		if !moved {
			m.ticking = false
			return m, nil
		}
		return m, tickCmd()

	case clockMsg:
		m.now = time.Time(msg)
		return m, clockCmd()

	case readingMsg:
		if m.tele == nil {
			return m, nil
		}
		m.now = time.Now()
		m.tele.applyReading(telemetry.Reading(msg), m.now)
		cmd := tea.Batch(waitForTelemetry(m.tele.updates), m.armTick())
		return m, cmd

	case historyMsg:
		if m.tele == nil {
			return m, nil
		}
		m.now = time.Now()
		m.tele.applyHistory(telemetry.History(msg), m.now)
		return m, waitForTelemetry(m.tele.updates)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	if m.tele != nil && !m.tele.hasReading {
		var cmd tea.Cmd
		m.tele.spinner, cmd = m.tele.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	w := m.width
	if w < 40 {
		w = 80
	}

	opts := m.loop.Options()
	running := m.loop.Running()

	header := headerStyle.Render("rundash")
	status := statusOf(running)
	statusText := statusStyle.Render(status.Icon() + "  " + status.String())
	gap := w - lipgloss.Width(header) - lipgloss.Width(statusText) - 4
	headerLine := header + spaces(max(gap, 2)) + statusText

	sideWidth := 30
	cols, rows := fieldSize(opts, w-sideWidth-8)
	field := panelStyle.Render(renderField(m.dash.path, m.dash.cursor, opts, cols, rows))

	side := strings.Join([]string{
		renderReadout("Speed", m.dash.speed, "km/h"),
		renderReadout("Distance", m.dash.distance, ""),
		"",
		renderLEDBar(m.dash.active, m.dash.segments),
		"",
		m.gauge.view(sideWidth - 4),
	}, "\n")

	body := lipgloss.JoinHorizontal(lipgloss.Top, field, "  ", side)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + headerLine + "\n")
	b.WriteString("\n")
	b.WriteString(indentBlock(body, "  "))
	b.WriteString("\n")
	if m.tele != nil {
		b.WriteString("\n")
		b.WriteString(indentBlock(panelStyle.Render(m.tele.view(w-8, m.now)), "  "))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString("  " + helpStyle.Render(helpText(running)) + "\n")
	return b.String()
}

// armTick starts the gauge animation if a gauge has somewhere to go and no
// tick is already in flight.
func (m *Model) armTick() tea.Cmd {
	if m.ticking {
		return nil
	}
	if m.gauge.settled() && (m.tele == nil || m.tele.gauge.settled()) {
		return nil
	}
	m.ticking = true
	return tickCmd()
}

// Snapshot returns the current simulation state.
func (m Model) Snapshot() sim.State {
	return m.loop.Snapshot()
}

func windowTitle(running bool) string {
	if running {
		return "▶ rundash"
	}
	return "■ rundash"
}

func indentBlock(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
