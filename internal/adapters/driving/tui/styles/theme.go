// Package styles provides colours and lipgloss styles for the map monitor.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/mapstore/internal/core/domain"
)

// Theme is the colour palette of the monitor.
type Theme struct {
	// Accent highlights titles and the selected row.
	Accent lipgloss.Color

	// Secondary highlights section headers.
	Secondary lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for labels and hints.
	Muted lipgloss.Color

	// Live marks a served map and successful reloads.
	Live lipgloss.Color

	// Loading marks a read in progress.
	Loading lipgloss.Color

	// Error marks failed reloads.
	Error lipgloss.Color

	// Border is the panel border colour.
	Border lipgloss.Color

	// Bar is the status bar background.
	Bar lipgloss.Color
}

// DefaultTheme returns the default palette.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:     lipgloss.Color("#7C3AED"),
		Secondary:  lipgloss.Color("#06B6D4"),
		Foreground: lipgloss.Color("#CDD6F4"),
		Muted:      lipgloss.Color("#6C7086"),
		Live:       lipgloss.Color("#A6E3A1"),
		Loading:    lipgloss.Color("#F9E2AF"),
		Error:      lipgloss.Color("#F38BA8"),
		Border:     lipgloss.Color("#45475A"),
		Bar:        lipgloss.Color("#181825"),
	}
}

// Styles holds the pre-built styles of the monitor.
type Styles struct {
	theme *Theme

	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Normal    lipgloss.Style
	Label     lipgloss.Style
	Muted     lipgloss.Style
	Selected  lipgloss.Style
	Changed   lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Panel     lipgloss.Style
	StatusBar lipgloss.Style
	Help      lipgloss.Style
}

// NewStyles builds styles from a theme. A nil theme selects the default.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme:    theme,
		Title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Accent),
		Subtitle: lipgloss.NewStyle().Bold(true).Foreground(theme.Secondary),
		Normal:   lipgloss.NewStyle().Foreground(theme.Foreground),
		Label:    lipgloss.NewStyle().Foreground(theme.Muted).Width(14),
		Muted:    lipgloss.NewStyle().Foreground(theme.Muted),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			Background(theme.Accent),
		Changed: lipgloss.NewStyle().Bold(true).Foreground(theme.Loading),
		Success: lipgloss.NewStyle().Foreground(theme.Live),
		Warning: lipgloss.NewStyle().Foreground(theme.Loading),
		Error:   lipgloss.NewStyle().Foreground(theme.Error),
		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.Bar).
			Padding(0, 1),
		Help: lipgloss.NewStyle().Foreground(theme.Muted),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the palette the styles were built from.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// State returns the style used to show a handle state.
func (s *Styles) State(state domain.HandleState) lipgloss.Style {
	switch state {
	case domain.StateLive:
		return s.Success
	case domain.StateLoading:
		return s.Warning
	default:
		return s.Muted
	}
}
