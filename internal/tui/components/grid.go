package components

import (
	"fmt"
	"unicode/utf8"

	"csvdash/internal/csvdata"
	"csvdash/internal/tui/styles"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DefaultPageSize is the number of rows a grid shows at once.
const DefaultPageSize = 5

const (
	minColumnWidth = 4
	maxColumnWidth = 24
)

// Grid is an interactive data grid over bubbles/table with a selected
// column for cell edits.
type Grid struct {
	table    table.Model
	columns  []string
	records  []csvdata.Record
	col      int
	pageSize int
}

// NewGrid creates an empty grid showing pageSize rows at a time.
func NewGrid(pageSize int) *Grid {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Theme.GridBorder.GetForeground()).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color(styles.Theme.Palette.Primary))

	t := table.New(
		table.WithHeight(pageSize+2),
		table.WithStyles(s),
	)
	return &Grid{table: t, pageSize: pageSize}
}

// SetData shows the records of t. The cursor is kept when still in range.
func (g *Grid) SetData(t *csvdata.Table) {
	cursor := g.table.Cursor()

	g.columns = nil
	g.records = nil
	if t != nil {
		g.columns = t.Columns
		g.records = t.Records
	}

	cols := make([]table.Column, len(g.columns))
	width := 0
	for i, name := range g.columns {
		cols[i] = table.Column{Title: name, Width: columnWidth(name, g.records)}
		// cells carry one space of padding on each side
		width += cols[i].Width + 2
	}
	rows := make([]table.Row, len(g.records))
	for i := range g.records {
		rows[i] = t.Row(i)
	}

	// rows must never be wider than the columns while swapping
	g.table.SetRows(nil)
	g.table.SetColumns(cols)
	g.table.SetRows(rows)
	g.table.SetWidth(width)

	if cursor >= len(rows) {
		cursor = len(rows) - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	g.table.SetCursor(cursor)
	if g.col >= len(g.columns) {
		g.col = 0
	}
}

func columnWidth(name string, records []csvdata.Record) int {
	w := utf8.RuneCountInString(name)
	for _, r := range records {
		if n := utf8.RuneCountInString(r[name]); n > w {
			w = n
		}
	}
	if w < minColumnWidth {
		return minColumnWidth
	}
	if w > maxColumnWidth {
		return maxColumnWidth
	}
	return w
}

func (g *Grid) Focus() { g.table.Focus() }
func (g *Grid) Blur()  { g.table.Blur() }

func (g *Grid) Focused() bool {
	return g.table.Focused()
}

// Len returns the number of rows.
func (g *Grid) Len() int {
	return len(g.records)
}

// MoveColumn moves the selected column by delta, staying in range.
func (g *Grid) MoveColumn(delta int) {
	next := g.col + delta
	if next >= 0 && next < len(g.columns) {
		g.col = next
	}
}

// Update forwards row navigation to the table.
func (g *Grid) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	g.table, cmd = g.table.Update(msg)
	return cmd
}

// Cursor returns the selected row and column.
func (g *Grid) Cursor() (row, col int) {
	return g.table.Cursor(), g.col
}

// Column returns the name of the selected column.
func (g *Grid) Column() string {
	if g.col < len(g.columns) {
		return g.columns[g.col]
	}
	return ""
}

// Cell returns the value of the selected cell.
func (g *Grid) Cell() string {
	row := g.table.Cursor()
	if row < 0 || row >= len(g.records) {
		return ""
	}
	return g.records[row][g.Column()]
}

// SetCell returns a copy of the records with the selected cell replaced.
// The grid itself is unchanged until the next SetData.
func (g *Grid) SetCell(value string) []csvdata.Record {
	out := make([]csvdata.Record, len(g.records))
	for i, r := range g.records {
		out[i] = r.Clone()
	}
	row := g.table.Cursor()
	if col := g.Column(); col != "" && row >= 0 && row < len(out) {
		out[row][col] = value
	}
	return out
}

// Page returns the 1-based page of the cursor and the page count.
func (g *Grid) Page() (page, pages int) {
	if len(g.records) == 0 {
		return 1, 1
	}
	pages = (len(g.records) + g.pageSize - 1) / g.pageSize
	return g.table.Cursor()/g.pageSize + 1, pages
}

func (g *Grid) View() string {
	if len(g.columns) == 0 {
		return styles.Theme.Help.Render("(no columns)")
	}
	page, pages := g.Page()
	footer := fmt.Sprintf("page %d/%d", page, pages)
	if col := g.Column(); col != "" && g.Focused() {
		footer += fmt.Sprintf("  %s: %s", col, g.Cell())
	}
	return g.table.View() + "\n" + styles.Theme.Help.Render(footer)
}
