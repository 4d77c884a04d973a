package source

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"csvdash/internal/csvdata"
	"csvdash/internal/errors"
)

// Dir reads CSV files below a local root directory.
type Dir struct {
	root string
}

// NewDir creates a directory source. The root must exist.
func NewDir(root string) (*Dir, error) {
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.NewConfigError("invalid data root", root, errors.InvalidConfig, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewConfigError("data root does not exist", abs, errors.InvalidConfig, err)
		}
		return nil, errors.NewConfigError("error accessing data root", abs, errors.InvalidConfig, err)
	}
	if !info.IsDir() {
		return nil, errors.NewConfigError("data root is not a directory", abs, errors.InvalidConfig, nil)
	}
	return &Dir{root: abs}, nil
}

// Root returns the absolute root directory.
func (d *Dir) Root() string {
	return d.root
}

// Describe implements Source.
func (d *Dir) Describe() string {
	return d.root
}

// resolve maps a slash path under the root, refusing anything that escapes it.
func (d *Dir) resolve(p string) (string, error) {
	clean := path.Clean("/" + p)
	if clean == "/" || strings.Contains(p, "\\") || escapes(p) {
		return "", errors.NewLoadError("invalid file path", "", p, errors.InvalidPath, nil)
	}
	return filepath.Join(d.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

// FolderPath returns the local directory of a catalog folder.
func (d *Dir) FolderPath(folder string) (string, error) {
	return d.resolve(folder)
}

// Load implements Loader.
func (d *Dir) Load(ctx context.Context, p string) (*csvdata.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	folder, file := splitPath(p)
	full, err := d.resolve(p)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewLoadError("file not found", folder, file, errors.FileNotFound, err)
		}
		return nil, errors.NewLoadError("failed to open csv", folder, file, errors.LoadFailed, err)
	}
	defer f.Close()

	table, err := csvdata.Parse(f)
	if err != nil {
		return nil, errors.NewLoadError("failed to parse csv", folder, file, errors.ParseFailed, err)
	}
	return table, nil
}

// List implements Lister. Only regular files are returned, sorted by name.
func (d *Dir) List(ctx context.Context, folder string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir, err := d.resolve(folder)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.NewLoadError("failed to list folder", folder, "", errors.LoadFailed, err)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// escapes reports whether p has a ".." segment.
func escapes(p string) bool {
	return slices.Contains(strings.Split(p, "/"), "..")
}

func splitPath(p string) (folder, file string) {
	folder, file = path.Split(strings.TrimPrefix(p, "/"))
	return strings.TrimSuffix(folder, "/"), file
}
