package components

import (
	"strconv"
	"strings"

	"csvdash/internal/tui/styles"
)

// TabBar renders the folder tabs. No tab is active until one is selected.
type TabBar struct {
	tabs   []string
	active int
	width  int
}

// NewTabBar creates a new tab bar
func NewTabBar(tabs []string) *TabBar {
	return &TabBar{
		tabs:   tabs,
		active: -1,
	}
}

// SetActive sets the active tab; -1 clears it.
func (t *TabBar) SetActive(index int) {
	if index >= -1 && index < len(t.tabs) {
		t.active = index
	}
}

// SetActiveName activates the tab with the given label, or clears the
// selection when none matches.
func (t *TabBar) SetActiveName(name string) {
	t.active = t.Index(name)
}

// Index returns the position of a label, or -1.
func (t *TabBar) Index(name string) int {
	for i, tab := range t.tabs {
		if tab == name {
			return i
		}
	}
	return -1
}

// Active returns the active tab index
func (t *TabBar) Active() int {
	return t.active
}

// SetWidth sets the tab bar width
func (t *TabBar) SetWidth(width int) {
	t.width = width
}

// Next moves to the next tab, starting from the first when none is active.
func (t *TabBar) Next() {
	if len(t.tabs) == 0 {
		return
	}
	t.active = (t.active + 1) % len(t.tabs)
}

// Prev moves to the previous tab
func (t *TabBar) Prev() {
	if len(t.tabs) == 0 {
		return
	}
	if t.active < 0 {
		t.active = len(t.tabs) - 1
		return
	}
	t.active = (t.active - 1 + len(t.tabs)) % len(t.tabs)
}

// View renders the tab bar
func (t *TabBar) View() string {
	tabs := make([]string, 0, len(t.tabs))
	for i, name := range t.tabs {
		label := name
		// only the first nine tabs have a number key
		if i < 9 {
			label = strconv.Itoa(i+1) + ":" + name
		}
		label = "[" + label + "]"

		if i == t.active {
			tabs = append(tabs, styles.Theme.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, styles.Theme.Tab.Render(label))
		}
	}

	border := styles.Theme.TabBorder
	if t.width > 0 {
		border = border.Width(t.width)
	}
	return border.Render(strings.Join(tabs, " "))
}

// TabNames returns the list of tab names
func (t *TabBar) TabNames() []string {
	return t.tabs
}
