package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("25")).
			Padding(0, 1)

	stationStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")).
			MarginTop(1)

	lineStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("45")).
			Width(6)

	destStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Width(34)

	countdownStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	soonStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)
