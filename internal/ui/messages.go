package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/rundash/internal/sim"
	"github.com/olivier-w/rundash/internal/telemetry"
)

const gaugeFPS = 30

// tickMsg animates the gauges; it only runs while one of them is moving.
type tickMsg time.Time

// clockMsg refreshes the "updated ago" line of the telemetry panel.
type clockMsg time.Time

// frameMsg delivers the scheduled frame with the given handle.
type frameMsg struct {
	id sim.Handle
	at time.Time
}

type readingMsg telemetry.Reading
type historyMsg telemetry.History

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/gaugeFPS, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func clockCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

func waitForTelemetry(ch <-chan tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}
