// Package views renders full screens from model state.
package views

import (
	"strings"

	"csvdash/internal/tui/common"
	"csvdash/internal/tui/components"
	"csvdash/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Title is the heading of every screen.
const Title = "CSV Report Dashboard"

// RenderDashboard renders the folder tabs, the file list of the selected
// folder and the previews of its active files. While loading only the
// spinner is shown.
func RenderDashboard(m common.ModelReader) string {
	var sb strings.Builder
	sb.WriteString(styles.Theme.Title.Render(Title) + "\n")

	if m.Loading() {
		sb.WriteString(m.SpinnerView() + " Loading CSV files...\n")
		return styles.Theme.App.Render(sb.String())
	}

	tabs := components.NewTabBar(m.Folders())
	if folder, ok := m.ActiveFolder(); ok {
		tabs.SetActiveName(folder)
	}
	tabs.SetWidth(m.Width() - 4)
	sb.WriteString(tabs.View() + "\n")

	if _, ok := m.ActiveFolder(); !ok {
		sb.WriteString(styles.Theme.Help.Render("Select a folder with 1-9 or tab") + "\n")
	} else {
		list := components.NewFileList()
		list.SetFiles(m.Files())
		list.SetCursor(m.Cursor())
		list.SetFocused(m.Focus() == common.FocusFiles)
		sb.WriteString(list.View())
		sb.WriteString(renderPreviews(m))
	}

	sb.WriteString(renderFooter(m))
	return styles.Theme.App.Render(sb.String())
}

func renderPreviews(m common.ModelReader) string {
	previews := m.Previews()
	if len(previews) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, p := range previews {
		sb.WriteString("\n")
		focused := m.Focus() == common.FocusGrid && p.File == m.FocusedFile()
		name := styles.Theme.Header.Render(p.File)
		if focused {
			name = styles.Theme.ActiveTab.Render(p.File)
		}
		sb.WriteString(name + "\n")

		if !focused {
			sb.WriteString(components.RenderPreview(p.Columns, p.Rows, m.PageSize()) + "\n")
			continue
		}
		sb.WriteString(m.GridView() + "\n")
		if editor := m.EditorView(); editor != "" {
			sb.WriteString(lipgloss.NewStyle().MarginLeft(1).Render(editor) + "\n")
		}
	}
	return sb.String()
}

func renderFooter(m common.ModelReader) string {
	var sb strings.Builder
	if status := m.StatusText(); status != "" {
		sb.WriteString("\n" + status)
	}
	sb.WriteString("\n" + m.HelpView())
	return sb.String()
}
