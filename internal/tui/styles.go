package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/smartthermo/internal/version"
)

// AppName is shown in the header
const AppName = "SMARTTHERMO SETUP"

// AppVersion returns the application version from the centralized version package
func AppVersion() string {
	return version.Version
}

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple - borders, header
	HighlightColor = lipgloss.Color("#43BF6D") // Green - cursor row
	EditColor      = lipgloss.Color("#FFA500") // Orange - row under edit
	ErrorColor     = lipgloss.Color("#FF5555") // Red - message line
	TextColor      = lipgloss.Color("#FFFFFF") // White
	SubtleColor    = lipgloss.Color("#626262") // Gray
	ScreenColor    = lipgloss.Color("#0B1A2A") // Dark blue OLED background
)

var (
	// HeaderStyle is the application name line
	HeaderStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			PaddingLeft(1)

	// VersionStyle follows the application name
	VersionStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// BreadcrumbStyle shows the level path above the screen
	BreadcrumbStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true).
			PaddingLeft(1)

	// RowStyle is an ordinary display row
	RowStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	// CursorRowStyle is the row under the cursor
	CursorRowStyle = lipgloss.NewStyle().
			Foreground(HighlightColor).
			Bold(true)

	// EditRowStyle is the row being edited
	EditRowStyle = lipgloss.NewStyle().
			Foreground(EditColor).
			Bold(true)

	// MessageStyle is the error line below the screen
	MessageStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true).
			PaddingLeft(1)

	// HelpStyle wraps the key help
	HelpStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			PaddingLeft(1).
			PaddingTop(1)
)

// ScreenStyle frames the emulated display. Width accounts for the
// one-column padding on each side.
func ScreenStyle(columns int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Background(ScreenColor).
		Width(columns+2).
		Padding(0, 1)
}
