package components

import (
	"fmt"
	"strings"

	"csvdash/internal/tui/common"
	"csvdash/internal/tui/styles"

	"github.com/dustin/go-humanize"
)

// FileList renders the loaded files of the selected folder with their
// active toggles.
type FileList struct {
	files   []common.FileEntry
	cursor  int
	focused bool
}

func NewFileList() *FileList {
	return &FileList{focused: true}
}

func (fl *FileList) SetFiles(files []common.FileEntry) {
	fl.files = files
	if fl.cursor >= len(files) {
		fl.cursor = len(files) - 1
	}
	if fl.cursor < 0 {
		fl.cursor = 0
	}
}

func (fl *FileList) SetCursor(pos int) {
	if pos >= 0 && pos < len(fl.files) {
		fl.cursor = pos
	}
}

func (fl *FileList) SetFocused(focused bool) {
	fl.focused = focused
}

func (fl *FileList) View() string {
	if len(fl.files) == 0 {
		return styles.Theme.Help.Render("No files loaded") + "\n"
	}

	var s strings.Builder
	for i, file := range fl.files {
		style := styles.Theme.Unselected
		if file.Active {
			style = styles.Theme.Selected
		}

		cursor := " "
		if i == fl.cursor && fl.focused {
			cursor = styles.Theme.Cursor.Render(">")
		}

		details := fmt.Sprintf(" %8s  %s", humanize.Bytes(uint64(file.Bytes)), pluralRows(file.Rows))
		s.WriteString(fmt.Sprintf("%s %s %s%s\n",
			cursor,
			Toggle{Checked: file.Active}.View(),
			style.Render(file.Name),
			styles.Theme.Help.Render(details)))
	}
	return s.String()
}

func (fl *FileList) MoveCursor(delta int) {
	newPos := fl.cursor + delta
	if newPos >= 0 && newPos < len(fl.files) {
		fl.cursor = newPos
	}
}

func (fl *FileList) Cursor() int {
	return fl.cursor
}

func (fl *FileList) Files() []common.FileEntry {
	return fl.files
}

// Current returns the file under the cursor.
func (fl *FileList) Current() (common.FileEntry, bool) {
	if fl.cursor >= 0 && fl.cursor < len(fl.files) {
		return fl.files[fl.cursor], true
	}
	return common.FileEntry{}, false
}

func pluralRows(n int) string {
	if n == 1 {
		return "1 row"
	}
	return humanize.Comma(int64(n)) + " rows"
}
