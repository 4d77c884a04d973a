// Package store provides the durable key-value slot the dashboard persists
// file status into.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"csvdash/internal/errors"
)

// KV is a string key-value store that outlives a session.
type KV interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) (string, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(key, value string) error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Closer is implemented by backends holding resources.
type Closer interface {
	Close() error
}

// Open returns the backend named by backend, stored at path.
func Open(backend, path string) (KV, error) {
	switch strings.ToLower(backend) {
	case "", BackendFile:
		return NewFile(path)
	case BackendSQLite:
		return NewSQLite(path)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, errors.NewConfigError("unknown store backend", backend, errors.InvalidConfig, nil)
	}
}

// DefaultPath returns ~/.local/share/csvdash/<name>.
func DefaultPath(name string) string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "csvdash", name)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".local", "share", "csvdash", name)
}

// Close closes kv when it holds resources.
func Close(kv KV) error {
	if c, ok := kv.(Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("failed to close store: %w", err)
		}
	}
	return nil
}
