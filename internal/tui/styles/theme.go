package styles

import (
	"csvdash/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles of one palette.
type Styles struct {
	App        lipgloss.Style
	Title      lipgloss.Style
	Tab        lipgloss.Style
	ActiveTab  lipgloss.Style
	TabBorder  lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Cursor     lipgloss.Style
	On         lipgloss.Style
	Off        lipgloss.Style
	Header     lipgloss.Style
	Cell       lipgloss.Style
	GridBorder lipgloss.Style
	Help       lipgloss.Style
	Error      lipgloss.Style
	Spinner    lipgloss.Style

	Palette config.Palette
}

// Theme is the active set of styles.
var Theme = New(config.GetTheme("default"))

// Apply switches Theme to the named palette.
func Apply(name string) {
	Theme = New(config.GetTheme(name))
}

// New builds the styles of a palette.
func New(p config.Palette) Styles {
	return Styles{
		App: lipgloss.NewStyle().
			Padding(1, 2),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.Primary)).
			MarginBottom(1),
		Tab: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)).
			Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.Emphasis)).
			Underline(true).
			Padding(0, 1),
		TabBorder: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color(p.Border)),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Success)).
			Bold(true),
		Unselected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)),
		Cursor: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Primary)).
			Bold(true),
		On: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Success)),
		Off: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Error)),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.Primary)).
			Padding(0, 1),
		Cell: lipgloss.NewStyle().
			Padding(0, 1),
		GridBorder: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Border)),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Error)),
		Spinner: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Success)),
		Palette: p,
	}
}
