package ui

import tea "github.com/charmbracelet/bubbletea"

func isQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

func helpText(running bool) string {
	s := "s start"
	if running {
		s = "x stop"
	}
	return s + "  r reset  q quit"
}
