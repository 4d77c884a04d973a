package components

import (
	"fmt"
	"strings"

	"csvdash/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// RenderPreview draws the first page of rows as a bordered table. Total is
// the number of available rows; a footer shows how many are hidden.
func RenderPreview(columns []string, rows [][]string, pageSize int) string {
	if len(columns) == 0 {
		return styles.Theme.Help.Render("(empty file)")
	}
	shown := rows
	if pageSize > 0 && len(shown) > pageSize {
		shown = shown[:pageSize]
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.Theme.GridBorder).
		Headers(columns...).
		Rows(shown...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.Theme.Header
			}
			return styles.Theme.Cell
		})

	var s strings.Builder
	s.WriteString(t.Render())
	if hidden := len(rows) - len(shown); hidden > 0 {
		s.WriteString("\n" + styles.Theme.Help.Render(fmt.Sprintf("… %d more rows", hidden)))
	}
	return s.String()
}
