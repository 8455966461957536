package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0A0A0"))

	wordStyle   = lipgloss.NewStyle().Underline(true)
	savedStyle  = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("#F59E0B")).Bold(true)
	cursorStyle = lipgloss.NewStyle().Reverse(true)

	sidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5A5A5A")).
			Padding(0, 1)

	glossStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A"))
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)
