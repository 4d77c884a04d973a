package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"csvdash/internal/catalog"
	"csvdash/internal/dashboard"
	"csvdash/internal/log"
	"csvdash/internal/source"
	"csvdash/internal/store"
	"csvdash/internal/tui/common"
	"csvdash/internal/tui/messages"
	"csvdash/internal/watch"
	"csvdash/pkg/testutils"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	model  *Model
	ctrl   *dashboard.Controller
	router *Router
	kv     *store.Memory
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	root := t.TempDir()
	testutils.CreateCSVTree(t, root, map[string]map[string]string{
		"folder1": {"a.csv": testutils.NumberedCSV(12), "b.csv": testutils.NumberedCSV(3)},
		"folder2": {"e.csv": testutils.NumberedCSV(1)},
	})
	dir, err := source.NewDir(root)
	require.NoError(t, err)

	cat := catalog.New(
		catalog.Folder{Name: "folder1", Files: []string{"a.csv", "b.csv", "c.csv"}},
		catalog.Folder{Name: "folder2", Files: []string{"e.csv"}},
	)
	kv := store.NewMemory()
	router := NewRouter()
	ctrl := dashboard.New(cat, dir, kv,
		dashboard.WithNavigator(router),
		dashboard.WithLogger(log.NewLogger(log.WithOutput(&strings.Builder{}))),
	)
	return &fixture{
		model:  New(context.Background(), ctrl, router, opts...),
		ctrl:   ctrl,
		router: router,
		kv:     kv,
	}
}

// load runs the initial load synchronously.
func (f *fixture) load(t *testing.T) {
	t.Helper()
	f.model.Update(f.model.loadCmd(false)())
	require.False(t, f.model.Loading())
}

func (f *fixture) press(keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		f.model.Update(msg)
	}
}

func (f *fixture) view() string {
	return testutils.StripANSI(f.model.View())
}

func TestLoadingThenDashboard(t *testing.T) {
	f := newFixture(t)
	assert.True(t, f.model.Loading())
	assert.Contains(t, f.view(), "Loading CSV files...")
	assert.NotContains(t, f.view(), "[1:folder1]")

	// keys are ignored while loading
	f.press("1")
	_, ok := f.ctrl.ActiveFolder()
	assert.False(t, ok)

	f.load(t)
	out := f.view()
	assert.Contains(t, out, "CSV Report Dashboard")
	assert.Contains(t, out, "[1:folder1]")
	assert.Contains(t, out, "[2:folder2]")
	assert.Contains(t, out, "Loaded 3 of 4 files")
	assert.NotContains(t, out, "Loading CSV files...")
}

func TestSelectFolderShowsLoadedFiles(t *testing.T) {
	f := newFixture(t)
	f.load(t)

	f.press("1")
	folder, ok := f.model.ActiveFolder()
	require.True(t, ok)
	assert.Equal(t, "folder1", folder)

	out := f.view()
	assert.Contains(t, out, "[on] a.csv")
	assert.Contains(t, out, "[on] b.csv")
	assert.NotContains(t, out, "c.csv")
	assert.Contains(t, out, "… 5 more rows")

	previews := f.model.Previews()
	require.Len(t, previews, 2)
	assert.Equal(t, "a.csv", previews[0].File)
	assert.Len(t, previews[0].Rows, dashboard.DefaultPreviewRows)

	f.press("tab")
	folder, _ = f.model.ActiveFolder()
	assert.Equal(t, "folder2", folder)
	assert.Contains(t, f.view(), "[on] e.csv")

	// out of range folder keys do nothing
	f.press("9")
	folder, _ = f.model.ActiveFolder()
	assert.Equal(t, "folder2", folder)
}

func TestToggleFromKeyboard(t *testing.T) {
	f := newFixture(t)
	f.load(t)
	f.press("1", " ")

	assert.False(t, f.ctrl.IsActive("folder1", "a.csv"))
	out := f.view()
	assert.Contains(t, out, "[off] a.csv")
	assert.Contains(t, out, "a.csv is now inactive")
	require.Len(t, f.model.Previews(), 1)
	assert.Equal(t, "b.csv", f.model.Previews()[0].File)

	raw, ok, err := f.kv.Get(dashboard.StatusKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"folder1":{"a.csv":false}}`, raw)

	f.press(" ")
	assert.True(t, f.ctrl.IsActive("folder1", "a.csv"))
	assert.Contains(t, f.view(), "[on] a.csv")
}

func TestOpenDetailAndBack(t *testing.T) {
	f := newFixture(t)
	f.load(t)
	f.press("1", "j", "enter")

	assert.Equal(t, "/folder1/b.csv", f.router.Current())
	assert.Equal(t, common.Detail, f.model.Mode())
	out := f.view()
	assert.Contains(t, out, "/folder1/b.csv")
	assert.Contains(t, out, "row-3")

	f.press("esc")
	assert.Equal(t, RootRoute, f.router.Current())
	assert.Equal(t, common.Dashboard, f.model.Mode())
	assert.Contains(t, f.view(), "[on] a.csv")
}

func TestEditPreviewCell(t *testing.T) {
	f := newFixture(t)
	f.load(t)
	f.press("1", "g")
	require.Equal(t, common.FocusGrid, f.model.Focus())
	assert.Equal(t, "a.csv", f.model.FocusedFile())

	f.press("l", "e")
	require.Equal(t, common.Editing, f.model.Mode())
	assert.Equal(t, "row-1", f.model.editor.Value())

	f.model.editor.SetValue("edited")
	f.press("enter")
	assert.Equal(t, common.Dashboard, f.model.Mode())

	preview, ok := f.ctrl.Preview("folder1", "a.csv")
	require.True(t, ok)
	assert.Equal(t, "edited", preview.Records[0]["value"])
	assert.Equal(t, dashboard.DefaultPreviewRows, preview.Len())

	data, _ := f.ctrl.Data("folder1", "a.csv")
	assert.Equal(t, "row-1", data.Records[0]["value"])

	sibling, ok := f.ctrl.Preview("folder1", "b.csv")
	require.True(t, ok)
	assert.Equal(t, 3, sibling.Len())

	f.press("esc")
	assert.Equal(t, common.FocusFiles, f.model.Focus())
}

func TestEditCancelKeepsPreview(t *testing.T) {
	f := newFixture(t)
	f.load(t)
	f.press("1", "g", "e")
	f.model.editor.SetValue("discarded")
	f.press("esc")

	assert.Equal(t, common.Dashboard, f.model.Mode())
	preview, _ := f.ctrl.Preview("folder1", "a.csv")
	assert.Equal(t, "1", preview.Records[0]["id"])
}

func TestGridRequiresActiveFile(t *testing.T) {
	f := newFixture(t)
	f.load(t)
	f.press("1", " ", "g")
	assert.Equal(t, common.FocusFiles, f.model.Focus())
	assert.Contains(t, f.view(), "a.csv is inactive")
}

func TestWatchTriggersReload(t *testing.T) {
	ch := make(chan watch.Change, 1)
	f := newFixture(t, WithWatch(ch))

	change := watch.Change{Folder: "folder1", File: "a.csv", Op: fsnotify.Write, Timestamp: time.Now()}

	// a change during the first load is queued
	f.model.Update(messages.FileChangedMsg{Change: change})
	assert.True(t, f.model.reloadPending)

	_, cmd := f.model.Update(f.model.loadCmd(false)())
	assert.NotNil(t, cmd)
	assert.True(t, f.model.Loading())
	assert.False(t, f.model.reloadPending)

	f.model.Update(f.model.loadCmd(true)())
	assert.False(t, f.model.Loading())

	ch <- change
	msg := f.model.watchCmd()()
	require.IsType(t, messages.FileChangedMsg{}, msg)
	f.model.Update(msg)
	assert.True(t, f.model.Loading())
	assert.Contains(t, f.model.status.Text(), "Reloading")

	close(ch)
	assert.Equal(t, messages.WatchClosedMsg{}, f.model.watchCmd()())
	f.model.Update(messages.WatchClosedMsg{})
	assert.Nil(t, f.model.watchCmd())
}

func TestQuit(t *testing.T) {
	f := newFixture(t)
	f.load(t)
	_, cmd := f.model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestRouter(t *testing.T) {
	r := NewRouter()
	assert.Equal(t, RootRoute, r.Current())
	assert.False(t, r.Back())

	r.Navigate("/folder1/a.csv")
	r.Navigate("/folder2/e.csv")
	assert.Equal(t, "/folder2/e.csv", r.Current())

	assert.True(t, r.Back())
	assert.Equal(t, "/folder1/a.csv", r.Current())
}
