// Package themes holds the color schemes for the carbon TUI.
package themes

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Selected      lipgloss.Style
	RoundedBox    lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusWarning lipgloss.Style
	StatusError   lipgloss.Style
	StatusInfo    lipgloss.Style
	Name          string
	// GradientStart and GradientEnd color the budget bar.
	GradientStart string
	GradientEnd   string
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
}

type palette struct {
	primary, fg, muted, border     string
	success, warning, danger, info string
}

func build(name string, p palette) Theme {
	return Theme{
		Name:          name,
		Primary:       lipgloss.Color(p.primary),
		Muted:         lipgloss.Color(p.muted),
		Border:        lipgloss.Color(p.border),
		GradientStart: p.success,
		GradientEnd:   p.danger,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.primary)).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.muted)),
		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.fg)),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.fg)),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(p.primary)).
			Foreground(lipgloss.Color("#0b0b0b")).
			Bold(true),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.border)).
			Padding(0, 1),

		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color(p.success)).Bold(true),
		StatusWarning: lipgloss.NewStyle().Foreground(lipgloss.Color(p.warning)).Bold(true),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.danger)).Bold(true),
		StatusInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.info)).Bold(true),
	}
}

// Default is the forest theme.
var Default = build("forest", palette{
	primary: "#2e8b57", fg: "#f0f5f1", muted: "#7a8c80", border: "#3d4a41",
	success: "#10b981", warning: "#f59e0b", danger: "#ef4444", info: "#60a5fa",
})

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = build("catppuccin", palette{
	primary: "#a6e3a1", fg: "#cdd6f4", muted: "#6c7086", border: "#45475a",
	success: "#a6e3a1", warning: "#f9e2af", danger: "#f38ba8", info: "#89dceb",
})

var registry = map[string]Theme{
	Default.Name:         Default,
	CatppuccinMocha.Name: CatppuccinMocha,
}

// ByName returns the named theme; the empty name selects Default.
func ByName(name string) (Theme, bool) {
	if name == "" {
		return Default, true
	}
	t, ok := registry[strings.ToLower(name)]
	return t, ok
}

// Names lists the registered themes in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
