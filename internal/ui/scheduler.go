package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/rundash/internal/sim"
)

// frameScheduler implements sim.Scheduler on top of tea.Tick. A scheduled
// callback becomes a frameMsg carrying its handle; the model fires it when
// the message arrives. Messages for cancelled or superseded handles are
// dropped, so a stop followed by a start never leaves two frame chains.
// It is only used from Bubbletea's single-threaded Update loop.
type frameScheduler struct {
	interval time.Duration
	next     sim.Handle
	id       sim.Handle // pending handle, 0 when idle
	fn       func()
	emitted  bool // a tick command has been handed out for id
}

func newFrameScheduler(interval time.Duration) *frameScheduler {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &frameScheduler{interval: interval}
}

func (s *frameScheduler) ScheduleNext(fn func()) sim.Handle {
	s.next++
	s.id = s.next
	s.fn = fn
	s.emitted = false
	return s.id
}

func (s *frameScheduler) Cancel(h sim.Handle) {
	if h == 0 || h != s.id {
		return
	}
	s.id = 0
	s.fn = nil
	s.emitted = false
}

func (s *frameScheduler) pending() bool { return s.fn != nil }

// cmd returns the tick command for the pending frame, or nil when nothing is
// pending or its command was already returned.
func (s *frameScheduler) cmd() tea.Cmd {
	if s.fn == nil || s.emitted {
		return nil
	}
	s.emitted = true
	id := s.id
	return tea.Tick(s.interval, func(t time.Time) tea.Msg {
		return frameMsg{id: id, at: t}
	})
}

// fire runs the pending callback if id is still current.
func (s *frameScheduler) fire(id sim.Handle) bool {
	if s.fn == nil || id != s.id {
		return false
	}
	fn := s.fn
	s.id = 0
	s.fn = nil
	s.emitted = false
	fn()
	return true
}
