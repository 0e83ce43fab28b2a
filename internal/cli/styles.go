// Package cli provides styled terminal output and the line-oriented
// interactive session for the carbon tracker.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette.
var (
	PrimaryColor = lipgloss.Color("#2E8B57") // sea green
	SuccessColor = lipgloss.Color("#52B788")
	WarningColor = lipgloss.Color("#E9C46A")
	ErrorColor   = lipgloss.Color("#E76F51")
	InfoColor    = lipgloss.Color("#8ECAE6")
	SubtleColor  = lipgloss.Color("#6C757D")
	BorderColor  = lipgloss.Color("#40916C")
)

// Text styles shared by the session and the one-shot commands.
var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor).MarginBottom(1)
	SuccessStyle = foreground(SuccessColor)
	WarningStyle = foreground(WarningColor)
	ErrorStyle   = foreground(ErrorColor).Bold(true)
	InfoStyle    = foreground(InfoColor)
	SubtleStyle  = foreground(SubtleColor)
	BoldStyle    = lipgloss.NewStyle().Bold(true)
	PromptStyle  = foreground(PrimaryColor).Bold(true)

	// LabelStyle is the fixed-width left column of summary rows.
	LabelStyle = foreground(SubtleColor).Width(18)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(1, 2)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	LeafIcon    = "🌿"
	ChartIcon   = "📊"
)

func foreground(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func tagged(style lipgloss.Style, icon, message string) string {
	return style.Render(icon + " " + message)
}

// FormatSuccess prefixes message with a check mark.
func FormatSuccess(message string) string { return tagged(SuccessStyle, SuccessIcon, message) }

// FormatError prefixes message with a cross.
func FormatError(message string) string { return tagged(ErrorStyle, ErrorIcon, message) }

// FormatWarning prefixes message with a warning sign.
func FormatWarning(message string) string { return tagged(WarningStyle, WarningIcon, message) }

// FormatInfo prefixes message with an info sign.
func FormatInfo(message string) string { return tagged(InfoStyle, InfoIcon, message) }

// FormatTitle renders a section heading.
func FormatTitle(title string) string { return TitleStyle.Render(title) }

// FormatPrompt renders a question awaiting input on the same line.
func FormatPrompt(prompt string) string {
	return PromptStyle.Render(prompt + " → ")
}

// RenderBox draws content under title inside a rounded border.
func RenderBox(title, content string) string {
	heading := TitleStyle.UnsetMargins().Render(title)
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, heading, content))
}

// UsageStyle picks a color for the given share of the budget already used.
func UsageStyle(percentUsed float64) lipgloss.Style {
	switch {
	case percentUsed >= 100:
		return ErrorStyle
	case percentUsed >= 80:
		return WarningStyle
	default:
		return SuccessStyle
	}
}
