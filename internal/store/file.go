package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"csvdash/internal/errors"
)

// File keeps every key in one JSON object on disk. Writes go to a temporary
// file that is renamed over the original.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile creates a file store at path. The file is created on first Set.
func NewFile(path string) (*File, error) {
	if path == "" {
		path = DefaultPath("store.json")
	}
	return &File{path: path}, nil
}

// Path returns the backing file.
func (f *File) Path() string {
	return f.path
}

func (f *File) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, errors.NewStoreError("failed to read store file", f.path, errors.LoadFailed, err)
	}
	values := map[string]string{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, errors.NewStoreError("store file is corrupt", f.path, errors.CorruptState, err)
	}
	return values, nil
}

// Get implements KV.
func (f *File) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Set implements KV. A corrupt file is replaced rather than merged.
func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		if !errors.IsCorruptState(err) {
			return err
		}
		values = map[string]string{}
	}
	values[key] = value

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return errors.NewStoreError("failed to encode store", key, errors.PersistFailed, err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return errors.NewStoreError("failed to create store directory", key, errors.PersistFailed, err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return errors.NewStoreError("failed to write store", key, errors.PersistFailed, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return errors.NewStoreError("failed to replace store", key, errors.PersistFailed, err)
	}
	return nil
}
