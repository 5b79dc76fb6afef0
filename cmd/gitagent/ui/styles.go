// Package ui provides the visual styling for the gitagent interactive CLI.
package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Light mode colors
	LightForeground = lipgloss.Color("#1c2b3a")
	LightPrimary    = lipgloss.Color("#0f4c81")
	LightAccent     = lipgloss.Color("#e36209")
	LightMuted      = lipgloss.Color("#8a949e")
	LightBorder     = lipgloss.Color("#d0d7de")

	// Dark mode colors
	DarkForeground = lipgloss.Color("#e6edf3")
	DarkPrimary    = lipgloss.Color("#58a6ff")
	DarkAccent     = lipgloss.Color("#f0883e")
	DarkMuted      = lipgloss.Color("#7d8590")
	DarkBorder     = lipgloss.Color("#30363d")

	// Semantic colors, same in both modes
	Success = lipgloss.Color("#3fb950")
	Warning = lipgloss.Color("#d29922")
	Error   = lipgloss.Color("#f85149")
)

// Theme holds the current color scheme.
type Theme struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
		IsDark:     false,
	}
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		IsDark:     true,
	}
}

// DetectTheme picks a theme from common terminal hints, defaulting to light.
func DetectTheme() Theme {
	if strings.Contains(strings.ToLower(os.Getenv("COLORFGBG")), ";0") {
		return DarkTheme()
	}
	if os.Getenv("GITAGENT_THEME") == "dark" {
		return DarkTheme()
	}
	return LightTheme()
}

// Styles bundles the lipgloss styles the chat interface uses.
type Styles struct {
	Theme Theme

	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Prompt    lipgloss.Style
	UserInput lipgloss.Style
	UserMsg   lipgloss.Style
	AgentMsg  lipgloss.Style
	ErrorMsg  lipgloss.Style
	StatusOK  lipgloss.Style
	StatusBad lipgloss.Style
	Spinner   lipgloss.Style
	Help      lipgloss.Style
	Border    lipgloss.Style
}

// NewStyles builds the style set for a theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme:     theme,
		Title:     lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		Subtitle:  lipgloss.NewStyle().Foreground(theme.Muted),
		Prompt:    lipgloss.NewStyle().Foreground(theme.Accent),
		UserInput: lipgloss.NewStyle().Foreground(theme.Foreground),
		UserMsg:   lipgloss.NewStyle().Foreground(theme.Primary).Bold(true),
		AgentMsg:  lipgloss.NewStyle().Foreground(theme.Foreground),
		ErrorMsg:  lipgloss.NewStyle().Foreground(Error),
		StatusOK:  lipgloss.NewStyle().Foreground(Success),
		StatusBad: lipgloss.NewStyle().Foreground(Error),
		Spinner:   lipgloss.NewStyle().Foreground(theme.Accent),
		Help:      lipgloss.NewStyle().Foreground(theme.Muted),
		Border:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(theme.Border),
	}
}

// DefaultStyles returns styles for the auto-detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}
