package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Color palette
	primaryColor   = lipgloss.Color("#7D56F4")
	secondaryColor = lipgloss.Color("#00D7FF")
	successColor   = lipgloss.Color("#04B575")
	warningColor   = lipgloss.Color("#FFA500")
	errorColor     = lipgloss.Color("#FF4B4B")
	mutedColor     = lipgloss.Color("#666666")

	// Header styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Background(lipgloss.Color("#1A1A1A")).
			Padding(0, 1).
			MarginBottom(1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(secondaryColor)

	// List styles
	itemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Background(primaryColor).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			PaddingLeft(2)

	keyStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true)

	valueOnStyle = lipgloss.NewStyle().
			Foreground(successColor)

	valueOffStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	deviceStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			PaddingLeft(8)

	// Prompt styles
	promptStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(warningColor).
			Padding(0, 1).
			MarginTop(1)

	hintStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	// Status bar styles
	statusStyle = lipgloss.NewStyle().
			Foreground(successColor).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true).
			MarginTop(1)

	dirtyStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)
)
