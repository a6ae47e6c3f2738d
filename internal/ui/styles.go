// Package ui holds the terminal presentation helpers shared by PlanWise
// commands: styles, a spinner, tables, panels and the interactive plan viewer.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	ColorPrimary   = lipgloss.Color("205") // Pink
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorWarning   = lipgloss.Color("214") // Orange/Yellow
	ColorText      = lipgloss.Color("252") // White/Gray
	ColorCyan      = lipgloss.Color("87")  // Cyan for summaries

	StyleTitle   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StylePrimary = lipgloss.NewStyle().Foreground(ColorPrimary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleText    = lipgloss.NewStyle().Foreground(ColorText)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	// Viewer footer / status line
	StyleStatusBar = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Padding(0, 1)

	// Semantic prefixes for one-line command output
	StylePrefixDone  = lipgloss.NewStyle().Foreground(ColorSuccess)
	StylePrefixWarn  = lipgloss.NewStyle().Foreground(ColorWarning)
	StylePrefixError = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
)

// Icon returns a styled icon string
func Icon(icon string, style lipgloss.Style) string {
	return style.Render(icon)
}

// Success formats a done line: "✓ msg".
func Success(msg string) string {
	return StylePrefixDone.Render("✓") + " " + msg
}

// Warn formats a warning line: "! msg".
func Warn(msg string) string {
	return StylePrefixWarn.Render("!") + " " + msg
}

// Error formats an error line: "✗ msg".
func Error(msg string) string {
	return StylePrefixError.Render("✗") + " " + msg
}
