// Package ui provides the retro-terminal styling for the MODELTRON console.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette: phosphor green on black.
var (
	Phosphor    = lipgloss.Color("#33ff33")
	PhosphorDim = lipgloss.Color("#1f991f")
	PhosphorHot = lipgloss.Color("#66ff66")
	Black       = lipgloss.Color("#000000")
	Alert       = lipgloss.Color("#ff3333")
	Amber       = lipgloss.Color("#ffb000")
)

// Theme holds the current color scheme.
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Danger     lipgloss.Color
}

// RetroTheme is the only theme the console ships with.
func RetroTheme() Theme {
	return Theme{
		Background: Black,
		Foreground: Phosphor,
		Accent:     PhosphorHot,
		Muted:      PhosphorDim,
		Danger:     Alert,
	}
}

// Styles holds all the styled components.
type Styles struct {
	Theme Theme

	// Layout
	App    lipgloss.Style
	Header lipgloss.Style
	Footer lipgloss.Style
	Panel  lipgloss.Style

	// Text
	Title  lipgloss.Style
	Body   lipgloss.Style
	Muted  lipgloss.Style
	Role   lipgloss.Style
	Stamp  lipgloss.Style
	Bright lipgloss.Style

	// Mode selector
	ModeActive   lipgloss.Style
	ModeInactive lipgloss.Style

	// Status
	Error   lipgloss.Style
	Warning lipgloss.Style
	Spinner lipgloss.Style

	// Globe
	Rain  lipgloss.Style
	Earth lipgloss.Style
}

// NewStyles creates styles for theme.
func NewStyles(theme Theme) Styles {
	border := lipgloss.NormalBorder()
	return Styles{
		Theme: theme,

		App: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Header: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		Panel: lipgloss.NewStyle().
			Border(border).
			BorderForeground(theme.Foreground).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Role: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Bold(true),

		Stamp: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Faint(true),

		Bright: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		ModeActive: lipgloss.NewStyle().
			Background(theme.Foreground).
			Foreground(theme.Background).
			Bold(true).
			Padding(0, 1),

		ModeInactive: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Padding(0, 1),

		Error: lipgloss.NewStyle().
			Foreground(theme.Danger).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(Amber),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),

		Rain: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Faint(true),

		Earth: lipgloss.NewStyle().
			Foreground(theme.Foreground),
	}
}

// DefaultStyles returns the retro styles.
func DefaultStyles() Styles {
	return NewStyles(RetroTheme())
}

// Logo returns the MODELTRON banner.
func Logo(s Styles) string {
	logo := `
 __  __  ___  ___  ___ _  _____ ___  ___  _  _    ___  __   __   __  
|  \/  |/ _ \|   \| __| ||_   _| _ \/ _ \| \| |__( _ )/  \ /  \ /  \ 
| |\/| | (_) | |) | _|| |__| | |   / (_) | .' |___/ _ \ () | () | () |
|_|  |_|\___/|___/|___|____|_| |_|_\\___/|_|\_|   \___/\__/ \__/ \__/ 
`
	return s.Title.Render(logo)
}

// RenderDivider returns a horizontal divider.
func (s Styles) RenderDivider(width int) string {
	if width < 1 {
		width = 1
	}
	return s.Muted.Render(strings.Repeat("─", width))
}
