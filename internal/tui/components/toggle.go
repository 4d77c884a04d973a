package components

import "csvdash/internal/tui/styles"

// Toggle renders an on/off switch.
type Toggle struct {
	Checked bool
}

// View renders "[on]" or "[off]".
func (t Toggle) View() string {
	if t.Checked {
		return styles.Theme.On.Render("[on]")
	}
	return styles.Theme.Off.Render("[off]")
}
