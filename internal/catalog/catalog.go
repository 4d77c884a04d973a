// Package catalog holds the static folder -> file table that drives what the
// dashboard loads.
package catalog

import (
	"context"
	"fmt"
	"sort"

	"csvdash/internal/errors"

	"github.com/gobwas/glob"
)

// DefaultPattern selects files during discovery.
const DefaultPattern = "*.csv"

// Folder is one catalog folder and its ordered files.
type Folder struct {
	Name  string   `yaml:"folder"`
	Files []string `yaml:"files"`
}

// Catalog is an ordered, immutable folder -> files table.
type Catalog struct {
	folders []Folder
	index   map[string]int
}

// New builds a catalog. Later folders with a duplicate name are dropped.
func New(folders ...Folder) *Catalog {
	c := &Catalog{index: make(map[string]int, len(folders))}
	for _, f := range folders {
		if _, dup := c.index[f.Name]; dup {
			continue
		}
		files := make([]string, len(f.Files))
		copy(files, f.Files)
		c.index[f.Name] = len(c.folders)
		c.folders = append(c.folders, Folder{Name: f.Name, Files: files})
	}
	return c
}

// Default returns the built-in three-folder catalog.
func Default() *Catalog {
	return New(
		Folder{Name: "folder1", Files: []string{"a.csv", "b.csv", "c.csv", "d.csv"}},
		Folder{Name: "folder2", Files: []string{"e.csv", "f.csv", "g.csv", "h.csv"}},
		Folder{Name: "folder3", Files: []string{"i.csv", "j.csv", "k.csv", "l.csv"}},
	)
}

// Folders returns folder names in catalog order.
func (c *Catalog) Folders() []string {
	names := make([]string, len(c.folders))
	for i, f := range c.folders {
		names[i] = f.Name
	}
	return names
}

// Entries returns a copy of every folder with its files.
func (c *Catalog) Entries() []Folder {
	out := make([]Folder, len(c.folders))
	for i, f := range c.folders {
		out[i] = Folder{Name: f.Name, Files: c.Files(f.Name)}
	}
	return out
}

// Files returns the files of folder in catalog order, or nil for an unknown folder.
func (c *Catalog) Files(folder string) []string {
	i, ok := c.index[folder]
	if !ok {
		return nil
	}
	files := make([]string, len(c.folders[i].Files))
	copy(files, c.folders[i].Files)
	return files
}

// HasFolder reports whether folder is in the catalog.
func (c *Catalog) HasFolder(folder string) bool {
	_, ok := c.index[folder]
	return ok
}

// HasFile reports whether file is listed under folder.
func (c *Catalog) HasFile(folder, file string) bool {
	i, ok := c.index[folder]
	if !ok {
		return false
	}
	for _, f := range c.folders[i].Files {
		if f == file {
			return true
		}
	}
	return false
}

// Check returns a catalog error when the pair is not listed.
func (c *Catalog) Check(folder, file string) error {
	if !c.HasFolder(folder) {
		return errors.NewCatalogError("unknown folder", folder, "", errors.UnknownFolder)
	}
	if !c.HasFile(folder, file) {
		return errors.NewCatalogError("unknown file", folder, file, errors.UnknownFile)
	}
	return nil
}

// Len returns the number of files across all folders.
func (c *Catalog) Len() int {
	n := 0
	for _, f := range c.folders {
		n += len(f.Files)
	}
	return n
}

// Path returns the loader path of a catalog file.
func Path(folder, file string) string {
	return folder + "/" + file
}

// Lister lists the file names stored directly under a folder.
type Lister interface {
	List(ctx context.Context, folder string) ([]string, error)
}

// Discover builds a catalog by listing each folder and keeping the names that
// match pattern. Names are sorted. A folder that cannot be listed is kept
// with no files so it still renders as a tab.
func Discover(ctx context.Context, lister Lister, folders []string, pattern string) (*Catalog, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, errors.NewConfigError("invalid discovery pattern", pattern, errors.InvalidConfig, err)
	}

	var entries []Folder
	var failed []string
	for _, folder := range folders {
		names, err := lister.List(ctx, folder)
		if err != nil {
			failed = append(failed, folder)
			entries = append(entries, Folder{Name: folder})
			continue
		}
		var files []string
		for _, name := range names {
			if g.Match(name) {
				files = append(files, name)
			}
		}
		sort.Strings(files)
		entries = append(entries, Folder{Name: folder, Files: files})
	}

	c := New(entries...)
	if len(failed) > 0 {
		return c, fmt.Errorf("could not list folders %v", failed)
	}
	return c, nil
}
