package views

import (
	"strings"

	"csvdash/internal/tui/common"
	"csvdash/internal/tui/styles"
)

// RenderDetail renders the file behind the current route in full.
func RenderDetail(m common.ModelReader) string {
	var sb strings.Builder
	sb.WriteString(styles.Theme.Title.Render(Title) + "\n")
	sb.WriteString(styles.Theme.ActiveTab.Render(m.Route()) + "\n\n")
	sb.WriteString(m.GridView() + "\n")
	sb.WriteString(renderFooter(m))
	return styles.Theme.App.Render(sb.String())
}
