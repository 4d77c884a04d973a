// Package dashboard owns the dashboard state: loaded CSV data, previews,
// per-file active status and the selected folder. Presentation code reads
// it through accessors and raises user events through the operations.
package dashboard

import (
	"sync"

	"csvdash/internal/catalog"
	"csvdash/internal/csvdata"
	"csvdash/internal/errors"
	"csvdash/internal/log"
	"csvdash/internal/metrics"
	"csvdash/internal/source"
	"csvdash/internal/store"
)

// DefaultPreviewRows is the number of rows kept per file preview.
const DefaultPreviewRows = 10

// CsvData maps folder -> file -> parsed table.
type CsvData map[string]map[string]*csvdata.Table

// PreviewData has the shape of CsvData but holds only the first rows.
type PreviewData map[string]map[string]*csvdata.Table

// Navigator receives navigation requests such as "/folder1/a.csv".
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

// Navigate implements Navigator.
func (f NavigatorFunc) Navigate(path string) { f(path) }

// FilePreview is one entry of the preview grid.
type FilePreview struct {
	Folder string
	File   string
	Table  *csvdata.Table
}

// Option configures a Controller.
type Option func(*Controller)

// WithNavigator sets the router receiving file clicks.
func WithNavigator(nav Navigator) Option {
	return func(c *Controller) { c.nav = nav }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithMetrics records load and status activity on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithPreviewRows sets how many rows a preview keeps. Values below 1 are ignored.
func WithPreviewRows(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.previewRows = n
		}
	}
}

// WithConcurrency sets how many files load at once. The default of 1 loads
// files one at a time in catalog order.
func WithConcurrency(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// Controller holds the dashboard state. It is safe for concurrent use.
type Controller struct {
	catalog *catalog.Catalog
	loader  source.Loader
	kv      store.KV
	nav     Navigator
	logger  *log.Logger
	metrics *metrics.Metrics

	previewRows int
	concurrency int

	mu           sync.RWMutex
	loading      bool
	data         CsvData
	preview      PreviewData
	status       FileStatus
	activeFolder string
	hasActive    bool
}

// New creates a controller in the loading state. A nil kv keeps status in
// memory only.
func New(cat *catalog.Catalog, loader source.Loader, kv store.KV, opts ...Option) *Controller {
	if cat == nil {
		cat = catalog.Default()
	}
	if kv == nil {
		kv = store.NewMemory()
	}
	c := &Controller{
		catalog:     cat,
		loader:      loader,
		kv:          kv,
		previewRows: DefaultPreviewRows,
		concurrency: 1,
		loading:     true,
		data:        CsvData{},
		preview:     PreviewData{},
		status:      FileStatus{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	c.logger = c.logger.With(log.F("component", "dashboard"))
	return c
}

// Catalog returns the catalog driving the load.
func (c *Controller) Catalog() *catalog.Catalog {
	return c.catalog
}

// IsLoading reports whether a load is in progress or has not run yet.
func (c *Controller) IsLoading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Folders returns the catalog folders in order.
func (c *Controller) Folders() []string {
	return c.catalog.Folders()
}

// Files returns the successfully loaded files of folder in catalog order.
func (c *Controller) Files(folder string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	loaded := c.data[folder]
	var files []string
	for _, f := range c.catalog.Files(folder) {
		if _, ok := loaded[f]; ok {
			files = append(files, f)
		}
	}
	return files
}

// ActiveFolder returns the selected folder, if any.
func (c *Controller) ActiveFolder() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.activeFolder, c.hasActive
}

// SelectFolder makes folder the only selected folder. An unknown folder
// clears the selection and returns false.
func (c *Controller) SelectFolder(folder string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.catalog.HasFolder(folder) {
		c.activeFolder, c.hasActive = "", false
		c.logger.With(log.F("folder", folder)).Debug("Selected unknown folder")
		return false
	}
	c.activeFolder, c.hasActive = folder, true
	return true
}

// IsActive returns the effective status of a pair; absent entries are active.
func (c *Controller) IsActive(folder, file string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status.IsActive(folder, file)
}

// Status returns a copy of the explicit status entries.
func (c *Controller) Status() FileStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status.Clone()
}

// ToggleFileStatus flips the status of a catalog pair, persists the
// mapping and returns the new value.
func (c *Controller) ToggleFileStatus(folder, file string) (bool, error) {
	if err := c.catalog.Check(folder, file); err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.status.Toggle(folder, file)
	c.metrics.RecordToggle(folder)
	c.logger.With(log.F("folder", folder), log.F("file", file), log.F("active", next)).Debug("Toggled file status")
	c.persist()
	return next, nil
}

// Data returns the full table of a loaded file. The table must not be modified.
func (c *Controller) Data(folder, file string) (*csvdata.Table, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.data[folder][file]
	return t, ok
}

// Preview returns the preview of a loaded file. The table must not be modified.
func (c *Controller) Preview(folder, file string) (*csvdata.Table, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.preview[folder][file]
	return t, ok
}

// ActivePreviews returns the previews of the active files of the selected
// folder, in catalog order. It is empty when no folder is selected.
func (c *Controller) ActivePreviews() []FilePreview {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.hasActive {
		return nil
	}
	folder := c.activeFolder
	var out []FilePreview
	for _, file := range c.catalog.Files(folder) {
		if _, loaded := c.data[folder][file]; !loaded || !c.status.IsActive(folder, file) {
			continue
		}
		out = append(out, FilePreview{Folder: folder, File: file, Table: c.preview[folder][file]})
	}
	return out
}

// HandleFileClick asks the navigator to open the detail view of a file.
// Existence is not checked.
func (c *Controller) HandleFileClick(folder, file string) {
	route := Route(folder, file)
	if c.nav == nil {
		c.logger.With(log.F("route", route)).Debug("No navigator configured")
		return
	}
	c.nav.Navigate(route)
}

// EditPreview replaces the preview rows of file in the selected folder.
// Previews of the other files in the folder are kept.
func (c *Controller) EditPreview(file string, records []csvdata.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasActive {
		return errors.NewCatalogError("no folder selected", "", file, errors.UnknownFolder)
	}
	folder := c.activeFolder
	if !c.catalog.HasFile(folder, file) {
		return errors.NewCatalogError("unknown file", folder, file, errors.UnknownFile)
	}

	base, ok := c.preview[folder][file]
	if !ok {
		base = c.data[folder][file]
	}
	rows := make([]csvdata.Record, len(records))
	for i, r := range records {
		rows[i] = r.Clone()
	}
	if c.preview[folder] == nil {
		c.preview[folder] = make(map[string]*csvdata.Table)
	}
	c.preview[folder][file] = base.WithRecords(rows)
	c.logger.With(log.F("folder", folder), log.F("file", file), log.F("rows", len(rows))).Debug("Edited preview")
	return nil
}
