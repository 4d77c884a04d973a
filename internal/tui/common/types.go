package common

// Mode is the screen the model is showing.
type Mode int

const (
	// Dashboard shows folder tabs, the file list and previews.
	Dashboard Mode = iota
	// Detail shows one file in full.
	Detail
	// Editing edits one preview cell.
	Editing
)

// Focus is the dashboard pane receiving navigation keys.
type Focus int

const (
	FocusFiles Focus = iota
	FocusGrid
)

// ModelReader defines the interface that views use to read model state
type ModelReader interface {
	Mode() Mode
	Focus() Focus
	Loading() bool
	Folders() []string
	ActiveFolder() (string, bool)
	Files() []FileEntry
	Cursor() int
	Previews() []Preview
	FocusedFile() string
	Route() string
	ShowHelp() bool
	StatusText() string
	Width() int
	PageSize() int

	SpinnerView() string
	GridView() string
	EditorView() string
	HelpView() string
}

// FileEntry is one loaded file of the selected folder.
type FileEntry struct {
	Name   string
	Active bool
	Rows   int
	Bytes  int64
}

// Preview is the data of one preview grid.
type Preview struct {
	File    string
	Columns []string
	Rows    [][]string
}
