package tui

import "github.com/charmbracelet/lipgloss"

// Dashboard palette, loosely after the five mana colors
var (
	manaBlue  = lipgloss.Color("#4FA3E0")
	manaGreen = lipgloss.Color("#3DBA6F")
	manaRed   = lipgloss.Color("#E8503A")
	manaWhite = lipgloss.Color("#F4EBD0")
	manaGold  = lipgloss.Color("#D9A441")
	manaBlack = lipgloss.Color("#15131C")
	panelBg   = lipgloss.Color("#221F2B")
	muted     = lipgloss.Color("#9A96A6")
	faint     = lipgloss.Color("#5E5A6B")
)

var (
	baseStyle = lipgloss.NewStyle().Background(manaBlack).Foreground(muted)

	logoStyle = lipgloss.NewStyle().
			Foreground(manaBlue).
			Bold(true).
			Padding(1, 0).
			Align(lipgloss.Center)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(manaGold).
			Background(panelBg).
			Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Background(manaGold).
			Foreground(manaBlack).
			Bold(true).
			Padding(0, 1)

	statsLabelStyle = lipgloss.NewStyle().Foreground(manaBlue).Bold(true)
	statsValueStyle = lipgloss.NewStyle().Foreground(manaWhite)

	successStyle = lipgloss.NewStyle().Foreground(manaGreen).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(manaRed).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(manaGold).Bold(true)

	dimStyle          = lipgloss.NewStyle().Foreground(muted)
	logTimestampStyle = lipgloss.NewStyle().Foreground(faint)
	helpStyle         = lipgloss.NewStyle().Foreground(faint).Padding(1, 0, 0, 2)
)

// levelColor maps a log level onto the palette
func levelColor(level string) lipgloss.Color {
	switch level {
	case "ERROR":
		return manaRed
	case "WARN":
		return manaGold
	case "SUCCESS":
		return manaGreen
	case "INFO":
		return manaBlue
	case "DEBUG":
		return faint
	default:
		return muted
	}
}
