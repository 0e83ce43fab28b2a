package tui

import (
	"github.com/Veraticus/carbon-budget/internal/engine"
	"github.com/Veraticus/carbon-budget/internal/model"
	"github.com/Veraticus/carbon-budget/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme         themes.Theme
	Tracker       *engine.Tracker
	DefaultPeriod model.Period
	Width         int
	Height        int
	ShowHelp      bool
	AltScreen     bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:         themes.Default,
		DefaultPeriod: model.PeriodWeek,
		Width:         80,
		Height:        24,
		AltScreen:     true,
	}
}

// WithTracker sets the account tracker the UI operates on.
func WithTracker(tracker *engine.Tracker) Option {
	return func(c *Config) {
		c.Tracker = tracker
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithDefaultPeriod preselects the period in the budget form.
func WithDefaultPeriod(p model.Period) Option {
	return func(c *Config) {
		if p.Valid() {
			c.DefaultPeriod = p
		}
	}
}

// WithHelp starts with the full help view expanded.
func WithHelp(show bool) Option {
	return func(c *Config) {
		c.ShowHelp = show
	}
}

// WithAltScreen controls whether the program takes over the full terminal.
func WithAltScreen(enabled bool) Option {
	return func(c *Config) {
		c.AltScreen = enabled
	}
}
