package tui

import (
	"context"
	"fmt"

	"csvdash/internal/dashboard"
	"csvdash/internal/errors"
	"csvdash/internal/tui/common"
	"csvdash/internal/tui/components"
	"csvdash/internal/tui/messages"
	"csvdash/internal/tui/views"
	"csvdash/internal/watch"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Option configures a Model.
type Option func(*Model)

// WithWatch reloads the dashboard whenever a change arrives on ch.
func WithWatch(ch <-chan watch.Change) Option {
	return func(m *Model) { m.changes = ch }
}

// WithPageSize sets the number of grid rows shown at once.
func WithPageSize(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.pageSize = n
		}
	}
}

// WithKeyMap replaces the default key bindings.
func WithKeyMap(k KeyMap) Option {
	return func(m *Model) { m.keys = k }
}

// Model is the bubbletea model of the dashboard. It renders controller
// state and turns key presses into controller operations.
type Model struct {
	ctx     context.Context
	ctrl    *dashboard.Controller
	router  *Router
	changes <-chan watch.Change

	keys   KeyMap
	help   help.Model
	tabs   *components.TabBar
	files  *components.FileList
	grid   *components.Grid
	status *components.StatusBar
	editor textinput.Model

	mode          common.Mode
	focus         common.Focus
	showHelp      bool
	loading       bool
	reloadPending bool
	pageSize      int
	width         int

	// file shown in the focused preview grid
	gridFile string
}

// New creates the model. The router must be the controller's navigator.
func New(ctx context.Context, ctrl *dashboard.Controller, router *Router, opts ...Option) *Model {
	if router == nil {
		router = NewRouter()
	}
	m := &Model{
		ctx:      ctx,
		ctrl:     ctrl,
		router:   router,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		tabs:     components.NewTabBar(ctrl.Folders()),
		files:    components.NewFileList(),
		status:   components.NewStatusBar(),
		mode:     common.Dashboard,
		focus:    common.FocusFiles,
		loading:  true,
		pageSize: components.DefaultPageSize,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.grid = components.NewGrid(m.pageSize)
	m.status.SetLoading(true)
	m.status.SetText("Loading CSV files...")
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.status.Tick(), m.loadCmd(false)}
	if m.changes != nil {
		cmds = append(cmds, m.watchCmd())
	}
	return tea.Batch(cmds...)
}

// View implements tea.Model
func (m *Model) View() string {
	if m.mode == common.Detail {
		return views.RenderDetail(m)
	}
	return views.RenderDashboard(m)
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.tabs.SetWidth(msg.Width - 4)
		return m, nil

	case spinner.TickMsg:
		return m, m.status.Update(msg)

	case messages.LoadCompleteMsg:
		return m, m.handleLoadComplete(msg)

	case messages.FileChangedMsg:
		m.status.SetText(fmt.Sprintf("%s/%s changed", msg.Change.Folder, msg.Change.File))
		return m, tea.Batch(m.startReload(), m.watchCmd())

	case messages.WatchClosedMsg:
		m.changes = nil
		return m, nil

	case messages.ErrorMsg:
		m.status.SetError(msg.Err)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	if m.mode == common.Editing {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) loadCmd(reload bool) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		if reload {
			return messages.LoadCompleteMsg{Err: ctrl.Reload(ctx)}
		}
		return messages.LoadCompleteMsg{Err: ctrl.Load(ctx)}
	}
}

func (m *Model) watchCmd() tea.Cmd {
	ch := m.changes
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		change, ok := <-ch
		if !ok {
			return messages.WatchClosedMsg{}
		}
		return messages.FileChangedMsg{Change: change}
	}
}

// startReload begins a reload, or queues one behind a running load.
func (m *Model) startReload() tea.Cmd {
	if m.loading {
		m.reloadPending = true
		return nil
	}
	m.loading = true
	m.status.SetLoading(true)
	m.status.SetText("Reloading CSV files...")
	return tea.Batch(m.status.Tick(), m.loadCmd(true))
}

func (m *Model) handleLoadComplete(msg messages.LoadCompleteMsg) tea.Cmd {
	m.loading = false
	m.status.SetLoading(false)
	if msg.Err != nil {
		m.status.SetError(errors.Wrap(msg.Err, "load interrupted"))
	} else {
		loaded := 0
		for _, folder := range m.ctrl.Folders() {
			loaded += len(m.ctrl.Files(folder))
		}
		m.status.SetText(fmt.Sprintf("Loaded %d of %d files", loaded, m.ctrl.Catalog().Len()))
	}
	m.refresh()

	if m.reloadPending {
		m.reloadPending = false
		return m.startReload()
	}
	return nil
}

// refresh pulls controller state into the components.
func (m *Model) refresh() {
	if folder, ok := m.ctrl.ActiveFolder(); ok {
		m.tabs.SetActiveName(folder)
	} else {
		m.tabs.SetActive(-1)
	}
	m.files.SetFiles(m.Files())

	switch m.mode {
	case common.Detail:
		m.syncRoute()
	default:
		m.syncGrid()
	}
}

// syncGrid shows the focused file's preview, dropping grid focus when the
// file is no longer shown.
func (m *Model) syncGrid() {
	if m.focus != common.FocusGrid {
		return
	}
	folder, ok := m.ctrl.ActiveFolder()
	if !ok || !m.ctrl.IsActive(folder, m.gridFile) {
		m.blurGrid()
		return
	}
	table, ok := m.ctrl.Preview(folder, m.gridFile)
	if !ok {
		m.blurGrid()
		return
	}
	m.grid.SetData(table)
}

func (m *Model) blurGrid() {
	m.focus = common.FocusFiles
	m.gridFile = ""
	m.grid.Blur()
	m.files.SetFocused(true)
	if m.mode == common.Editing {
		m.mode = common.Dashboard
	}
}

// syncRoute follows the router to the dashboard or a detail view.
func (m *Model) syncRoute() {
	route := m.router.Current()
	folder, file, ok := dashboard.ParseRoute(route)
	if route == RootRoute || !ok {
		m.mode = common.Dashboard
		if m.focus == common.FocusGrid {
			m.grid.Focus()
			m.syncGrid()
		}
		return
	}

	m.mode = common.Detail
	table, loaded := m.ctrl.Data(folder, file)
	if !loaded {
		m.status.SetError(fmt.Errorf("%s is not loaded", route))
	}
	m.grid.SetData(table)
	m.grid.Focus()
}

func (m *Model) selectFolder(folder string) {
	m.blurGrid()
	if !m.ctrl.SelectFolder(folder) {
		m.status.SetError(fmt.Errorf("unknown folder %s", folder))
	}
	m.refresh()
	m.files.SetCursor(0)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.mode {
	case common.Editing:
		return m, m.handleEditKeys(msg)
	case common.Detail:
		return m, m.handleDetailKeys(msg)
	}

	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.loading {
		return m, nil
	}
	return m, m.handleDashboardKeys(msg)
}

func (m *Model) handleDashboardKeys(msg tea.KeyMsg) tea.Cmd {
	folders := m.ctrl.Folders()

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	case key.Matches(msg, m.keys.Reload):
		return m.startReload()
	case key.Matches(msg, m.keys.Folder):
		if idx := int(msg.String()[0] - '1'); idx < len(folders) {
			m.selectFolder(folders[idx])
		}
	case key.Matches(msg, m.keys.NextFolder):
		if len(folders) > 0 {
			m.tabs.Next()
			m.selectFolder(folders[m.tabs.Active()])
		}
	case key.Matches(msg, m.keys.PrevFolder):
		if len(folders) > 0 {
			m.tabs.Prev()
			m.selectFolder(folders[m.tabs.Active()])
		}
	case m.focus == common.FocusGrid:
		return m.handleGridKeys(msg)
	default:
		m.handleFileKeys(msg)
	}
	return nil
}

func (m *Model) handleFileKeys(msg tea.KeyMsg) {
	folder, ok := m.ctrl.ActiveFolder()
	if !ok {
		return
	}
	entry, hasEntry := m.files.Current()

	switch {
	case key.Matches(msg, m.keys.Up):
		m.files.MoveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.files.MoveCursor(1)
	case key.Matches(msg, m.keys.Toggle) && hasEntry:
		active, err := m.ctrl.ToggleFileStatus(folder, entry.Name)
		if err != nil {
			m.status.SetError(err)
			return
		}
		state := "inactive"
		if active {
			state = "active"
		}
		m.status.SetText(fmt.Sprintf("%s is now %s", entry.Name, state))
		m.refresh()
	case key.Matches(msg, m.keys.Open) && hasEntry:
		m.open(folder, entry.Name)
	case key.Matches(msg, m.keys.FocusGrid) && hasEntry:
		if !entry.Active {
			m.status.SetText(fmt.Sprintf("%s is inactive", entry.Name))
			return
		}
		m.focus = common.FocusGrid
		m.gridFile = entry.Name
		m.files.SetFocused(false)
		m.grid.Focus()
		m.syncGrid()
	}
}

func (m *Model) handleGridKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.blurGrid()
	case key.Matches(msg, m.keys.Left):
		m.grid.MoveColumn(-1)
	case key.Matches(msg, m.keys.Right):
		m.grid.MoveColumn(1)
	case key.Matches(msg, m.keys.Edit):
		return m.startEdit()
	case key.Matches(msg, m.keys.Open):
		if folder, ok := m.ctrl.ActiveFolder(); ok {
			m.open(folder, m.gridFile)
		}
	default:
		return m.grid.Update(msg)
	}
	return nil
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.router.Back()
		m.syncRoute()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	case key.Matches(msg, m.keys.Left):
		m.grid.MoveColumn(-1)
	case key.Matches(msg, m.keys.Right):
		m.grid.MoveColumn(1)
	default:
		return m.grid.Update(msg)
	}
	return nil
}

func (m *Model) startEdit() tea.Cmd {
	if m.grid.Len() == 0 {
		return nil
	}
	m.editor = textinput.New()
	m.editor.Prompt = m.grid.Column() + ": "
	m.editor.CharLimit = 256
	m.editor.SetValue(m.grid.Cell())
	m.editor.Focus()
	m.mode = common.Editing
	return textinput.Blink
}

func (m *Model) handleEditKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.editor.Blur()
		m.mode = common.Dashboard
	case key.Matches(msg, m.keys.Save):
		records := m.grid.SetCell(m.editor.Value())
		m.editor.Blur()
		m.mode = common.Dashboard
		if err := m.ctrl.EditPreview(m.gridFile, records); err != nil {
			m.status.SetError(err)
			return nil
		}
		m.status.SetText(fmt.Sprintf("Edited %s in %s", m.grid.Column(), m.gridFile))
		m.syncGrid()
	default:
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return cmd
	}
	return nil
}

// open asks the controller to navigate to a file and follows the router.
func (m *Model) open(folder, file string) {
	m.ctrl.HandleFileClick(folder, file)
	m.syncRoute()
}

// Mode implements common.ModelReader.
func (m *Model) Mode() common.Mode { return m.mode }

// Focus implements common.ModelReader.
func (m *Model) Focus() common.Focus { return m.focus }

// Loading implements common.ModelReader.
func (m *Model) Loading() bool { return m.loading }

// Folders implements common.ModelReader.
func (m *Model) Folders() []string { return m.ctrl.Folders() }

// ActiveFolder implements common.ModelReader.
func (m *Model) ActiveFolder() (string, bool) { return m.ctrl.ActiveFolder() }

// Files returns the loaded files of the selected folder.
func (m *Model) Files() []common.FileEntry {
	folder, ok := m.ctrl.ActiveFolder()
	if !ok {
		return nil
	}
	names := m.ctrl.Files(folder)
	entries := make([]common.FileEntry, 0, len(names))
	for _, name := range names {
		entry := common.FileEntry{Name: name, Active: m.ctrl.IsActive(folder, name)}
		if t, ok := m.ctrl.Data(folder, name); ok {
			entry.Rows = t.Len()
			entry.Bytes = t.Bytes
		}
		entries = append(entries, entry)
	}
	return entries
}

// Cursor implements common.ModelReader.
func (m *Model) Cursor() int { return m.files.Cursor() }

// Previews returns the preview grids of the active files.
func (m *Model) Previews() []common.Preview {
	var out []common.Preview
	for _, p := range m.ctrl.ActivePreviews() {
		preview := common.Preview{File: p.File}
		if p.Table != nil {
			preview.Columns = p.Table.Columns
			preview.Rows = make([][]string, p.Table.Len())
			for i := range p.Table.Records {
				preview.Rows[i] = p.Table.Row(i)
			}
		}
		out = append(out, preview)
	}
	return out
}

// FocusedFile returns the file under the cursor or in the focused grid.
func (m *Model) FocusedFile() string {
	if m.focus == common.FocusGrid {
		return m.gridFile
	}
	if entry, ok := m.files.Current(); ok {
		return entry.Name
	}
	return ""
}

// Route implements common.ModelReader.
func (m *Model) Route() string { return m.router.Current() }

// ShowHelp implements common.ModelReader.
func (m *Model) ShowHelp() bool { return m.showHelp }

// StatusText implements common.ModelReader.
func (m *Model) StatusText() string { return m.status.View() }

// Width implements common.ModelReader.
func (m *Model) Width() int { return m.width }

// SpinnerView implements common.ModelReader.
func (m *Model) SpinnerView() string { return m.status.SpinnerView() }

// GridView implements common.ModelReader.
func (m *Model) GridView() string { return m.grid.View() }

// EditorView implements common.ModelReader.
func (m *Model) EditorView() string {
	if m.mode != common.Editing {
		return ""
	}
	return m.editor.View()
}

// HelpView implements common.ModelReader.
func (m *Model) HelpView() string { return m.help.View(m.keys) }

// PageSize returns the number of grid rows shown at once.
func (m *Model) PageSize() int { return m.pageSize }

// Run starts the program and blocks until it exits or ctx is done.
func Run(ctx context.Context, ctrl *dashboard.Controller, router *Router, opts ...Option) error {
	p := tea.NewProgram(New(ctx, ctrl, router, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
