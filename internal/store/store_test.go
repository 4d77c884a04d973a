package store

import (
	"os"
	"path/filepath"
	"testing"

	"csvdash/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]KV {
	t.Helper()
	dir := t.TempDir()

	file, err := NewFile(filepath.Join(dir, "store.json"))
	require.NoError(t, err)
	db, err := NewSQLite(filepath.Join(dir, "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return map[string]KV{
		"memory": NewMemory(),
		"file":   file,
		"sqlite": db,
	}
}

func TestKVRoundTrip(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := kv.Get("fileStatus")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, kv.Set("fileStatus", `{"folder1":{"a.csv":false}}`))
			v, ok, err := kv.Get("fileStatus")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `{"folder1":{"a.csv":false}}`, v)

			require.NoError(t, kv.Set("fileStatus", `{}`))
			require.NoError(t, kv.Set("other", "x"))
			v, _, err = kv.Get("fileStatus")
			require.NoError(t, err)
			assert.Equal(t, `{}`, v)
		})
	}
}

func TestFilePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.json")
	first, err := NewFile(path)
	require.NoError(t, err)
	require.NoError(t, first.Set("fileStatus", "v1"))

	second, err := NewFile(path)
	require.NoError(t, err)
	v, ok, err := second.Get("fileStatus")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v1", v)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file should be renamed away")
}

func TestFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	f, err := NewFile(path)
	require.NoError(t, err)
	_, _, err = f.Get("fileStatus")
	require.Error(t, err)
	assert.True(t, errors.IsCorruptState(err))

	// a write replaces the corrupt content
	require.NoError(t, f.Set("fileStatus", "fresh"))
	v, ok, err := f.Get("fileStatus")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "fresh", v)
}

func TestSQLitePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")
	first, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, first.Set("fileStatus", "v1"))
	require.NoError(t, first.Close())

	second, err := NewSQLite(path)
	require.NoError(t, err)
	defer second.Close()
	v, ok, err := second.Get("fileStatus")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v1", v)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	kv, err := Open("memory", "")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, kv)

	kv, err = Open("", filepath.Join(dir, "s.json"))
	require.NoError(t, err)
	assert.IsType(t, &File{}, kv)

	kv, err = Open("sqlite", filepath.Join(dir, "s.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, kv)
	assert.NoError(t, Close(kv))

	_, err = Open("redis", "")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidConfig(err))
}

func TestDefaultPathHonoursXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", "csvdash", "store.json"), DefaultPath("store.json"))
}
