package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"csvdash/internal/errors"
	"csvdash/pkg/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	root   string
	config string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	root := filepath.Join(dir, "csv")
	testutils.CreateCSVTree(t, root, map[string]map[string]string{
		"sales": {"q1.csv": testutils.NumberedCSV(12), "q2.csv": testutils.NumberedCSV(2)},
		"ops":   {"uptime.csv": testutils.NumberedCSV(1)},
	})

	cfg := fmt.Sprintf(`
data:
  root: %q
catalog:
  - folder: sales
    files: [q1.csv, q2.csv]
  - folder: ops
    files: [uptime.csv, missing.csv]
status:
  backend: file
  path: %q
logging:
  level: error
`, root, filepath.Join(dir, "status.json"))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0644))
	return &testEnv{root: root, config: path}
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", e.config}, args...))
	err := cmd.ExecuteContext(context.Background())
	return testutils.StripANSI(out.String()), err
}

func TestCatalogCommand(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "catalog")
	require.NoError(t, err)
	assert.Contains(t, out, "(4 files)")
	assert.Contains(t, out, "sales")
	assert.Contains(t, out, "  q1.csv")
	assert.Contains(t, out, "  missing.csv")
}

func TestCatalogDiscovery(t *testing.T) {
	env := newTestEnv(t)
	testutils.CreateTestFilesWithContent(t, filepath.Join(env.root, "ops"), map[string]string{
		"latency.csv": testutils.NumberedCSV(1),
		"notes.txt":   "ignored",
	})
	cfg := fmt.Sprintf(`
data:
  root: %q
  discover: true
catalog:
  - folder: ops
    files: []
status:
  backend: memory
logging:
  level: error
`, env.root)
	require.NoError(t, os.WriteFile(env.config, []byte(cfg), 0644))

	out, err := env.run(t, "catalog")
	require.NoError(t, err)
	assert.Contains(t, out, "(2 files)")
	assert.Contains(t, out, "  latency.csv")
	assert.Contains(t, out, "  uptime.csv")
	assert.NotContains(t, out, "notes.txt")
	assert.NotContains(t, out, "sales")
}

func TestStatusToggleAndList(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "status", "toggle", "sales", "q2.csv")
	require.NoError(t, err)
	assert.Contains(t, out, "sales/q2.csv is now inactive")

	out, err = env.run(t, "status", "list")
	require.NoError(t, err)
	assert.Regexp(t, `q1\.csv\s+│\s+active`, out)
	assert.Regexp(t, `q2\.csv\s+│\s+inactive`, out)

	out, err = env.run(t, "status", "toggle", "sales", "q2.csv")
	require.NoError(t, err)
	assert.Contains(t, out, "sales/q2.csv is now active")
}

func TestStatusToggleUnknownFile(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "status", "toggle", "sales", "q9.csv")
	require.Error(t, err)
	assert.True(t, errors.IsUnknownEntry(err))
}

func TestPreviewCommand(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "status", "toggle", "sales", "q2.csv")
	require.NoError(t, err)

	out, err := env.run(t, "preview", "sales")
	require.NoError(t, err)
	assert.Regexp(t, `q1\.csv\s+12 rows`, out)
	assert.Contains(t, out, "row-10")
	assert.NotContains(t, out, "row-11")
	assert.NotContains(t, out, "q2.csv")
	assert.NotContains(t, out, "uptime.csv")

	out, err = env.run(t, "preview")
	require.NoError(t, err)
	assert.Regexp(t, `uptime\.csv\s+1 rows`, out)
	assert.NotContains(t, out, "missing.csv")

	_, err = env.run(t, "preview", "nope")
	require.Error(t, err)
	assert.True(t, errors.IsUnknownEntry(err))
}

func TestFlagOverrides(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "--store", "redis", "catalog")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid status backend")

	_, err = env.run(t, "--root", filepath.Join(env.root, "nope"), "catalog")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data root does not exist")

	// memory store forgets toggles between runs
	_, err = env.run(t, "--store", "memory", "status", "toggle", "sales", "q1.csv")
	require.NoError(t, err)
	out, err := env.run(t, "--store", "memory", "status", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "inactive")
}

func TestMissingExplicitConfig(t *testing.T) {
	env := &testEnv{config: filepath.Join(t.TempDir(), "absent.yaml")}
	_, err := env.run(t, "catalog")
	require.Error(t, err)
	assert.True(t, errors.IsConfigNotFound(err))
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)
	root := filepath.Join(dir, "csv")
	require.NoError(t, os.MkdirAll(root, 0755))
	env := &testEnv{root: root, config: filepath.Join(dir, "nested", "config.yaml")}

	out, err := env.run(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, env.config+"\n", out)

	out, err = env.run(t, "--root", root, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+env.config)

	// the written file drives normal commands
	out, err = env.run(t, "catalog")
	require.NoError(t, err)
	assert.Contains(t, out, root)
	assert.Contains(t, out, "folder1")

	_, err = env.run(t, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = env.run(t, "--store", "memory", "config", "init", "--force")
	require.NoError(t, err)

	out, err = env.run(t, "config", "themes")
	require.NoError(t, err)
	assert.Contains(t, out, "■ default")
	assert.Contains(t, out, "■ ocean")
}

func TestStartWatcher(t *testing.T) {
	env := newTestEnv(t)
	a := &app{cfgFile: env.config}
	require.NoError(t, a.loadConfig())
	a.configureLogging(false)

	e, err := a.open(context.Background())
	require.NoError(t, err)
	defer e.Close()

	w, err := a.startWatcher(e)
	require.NoError(t, err)
	defer w.Stop()
	assert.Equal(t, []string{"ops", "sales"}, w.Folders())
	assert.True(t, w.IsRunning())

	// no catalog folder exists on disk
	require.NoError(t, os.RemoveAll(env.root))
	require.NoError(t, os.MkdirAll(env.root, 0755))
	_, err = a.startWatcher(e)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no catalog folder could be watched")
}
