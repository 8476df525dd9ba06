package ui

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"})

	labelStyle = lipgloss.NewStyle().
			Width(10).
			Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#AAAAAA"})

	valueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"})

	unitStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#888888", Dark: "#888888"})

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"})

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"})

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "#BBBBBB", Dark: "#444444"}).
			Padding(0, 1)

	chartStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#1E8449", Dark: "#3CE074"})

	// field layers
	gridStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#1A3A1A"))
	pathStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#27AE60"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E74C3C")).Bold(true)

	// LED bands
	ledLowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#3CE074"))
	ledMidStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0C648"))
	ledHighStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F26056"))
	ledOffStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#CCCCCC", Dark: "#333333"})
)
