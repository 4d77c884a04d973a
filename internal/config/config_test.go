package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"csvdash/internal/catalog"
	"csvdash/internal/config"
	"csvdash/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a temporary YAML config file
func createTestYAML(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "config-*.yaml")
	require.NoError(t, err)
	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmpFile.Close())
	return tmpFile.Name()
}

const (
	validYAML = `
data:
  root: "/srv/reports"
  preview_rows: 5
  pattern: "*.tsv"
catalog:
  - folder: sales
    files: [q1.csv, q2.csv]
  - folder: ops
    files: [uptime.csv]
load:
  concurrency: 4
status:
  backend: sqlite
  path: "/tmp/status.db"
logging:
  level: debug
  format: json
metrics:
  addr: ":9102"
watch:
  enabled: true
theme:
  name: ocean
`
	invalidSyntaxYAML = `
data:
  root: "/srv/reports
  preview_rows: [1
`
	invalidValueYAML = `
status:
  backend: "redis"
`
)

func TestLoadConfigFile(t *testing.T) {
	t.Run("load valid config", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(createTestYAML(t, validYAML))
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, "/srv/reports", cfg.Data.Root)
		assert.Equal(t, 5, cfg.Data.PreviewRows)
		assert.Equal(t, "*.tsv", cfg.Data.Pattern)
		assert.Equal(t, 4, cfg.Load.Concurrency)
		assert.Equal(t, "sqlite", cfg.Status.Backend)
		assert.Equal(t, "/tmp/status.db", cfg.StorePath())
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "json", cfg.Logging.Format)
		assert.Equal(t, ":9102", cfg.Metrics.Addr)
		assert.True(t, cfg.Watch.Enabled)
		assert.Equal(t, "ocean", cfg.Theme.Name)

		cat := cfg.BuildCatalog()
		assert.Equal(t, []string{"sales", "ops"}, cat.Folders())
		assert.Equal(t, []string{"q1.csv", "q2.csv"}, cat.Files("sales"))
	})

	t.Run("unset fields keep defaults", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(createTestYAML(t, "data:\n  root: ./data\n"))
		require.NoError(t, err)

		defaults := config.New()
		assert.Equal(t, "./data", cfg.Data.Root)
		assert.Equal(t, defaults.Data.PreviewRows, cfg.Data.PreviewRows)
		assert.Equal(t, defaults.Load.Concurrency, cfg.Load.Concurrency)
		assert.Equal(t, defaults.Catalog, cfg.Catalog)
		assert.True(t, cfg.S3.UseSSL)
	})

	t.Run("load non-existent file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "does_not_exist.yaml")
		_, err := config.LoadConfigFile(path)
		require.Error(t, err)
		assert.True(t, errors.IsConfigNotFound(err))
		assert.Contains(t, err.Error(), path)
	})

	t.Run("missing default file uses defaults", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		cfg, err := config.LoadConfig()
		require.NoError(t, err)
		require.NotNil(t, cfg)

		defaults := config.New()
		assert.Equal(t, defaults.Data, cfg.Data)
		assert.Equal(t, 10, cfg.Data.PreviewRows)
		assert.Equal(t, 1, cfg.Load.Concurrency)
		assert.Equal(t, "file", cfg.Status.Backend)
		assert.Equal(t, catalog.Default().Folders(), cfg.BuildCatalog().Folders())
	})

	t.Run("load file with invalid YAML syntax", func(t *testing.T) {
		_, err := config.LoadConfigFile(createTestYAML(t, invalidSyntaxYAML))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error parsing config file")
		assert.True(t, errors.IsInvalidConfig(err))
	})

	t.Run("load file with invalid config value", func(t *testing.T) {
		_, err := config.LoadConfigFile(createTestYAML(t, invalidValueYAML))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
		assert.Contains(t, err.Error(), "invalid status backend")

		var cfgErr *errors.ConfigError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "status.backend", cfgErr.Param())
	})
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CSVDASH_S3_ENDPOINT", "localhost:9000")
	t.Setenv("CSVDASH_S3_ACCESS_KEY_ID", "minio")
	t.Setenv("CSVDASH_S3_SECRET_ACCESS_KEY", "minio123")
	t.Setenv("CSVDASH_S3_USE_SSL", "false")

	t.Setenv("HOME", t.TempDir())
	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", cfg.S3.Endpoint)
	assert.Equal(t, "minio", cfg.S3.AccessKeyID)
	assert.Equal(t, "minio123", cfg.S3.SecretAccessKey)
	assert.False(t, cfg.S3.UseSSL)
	assert.Equal(t, "us-east-1", cfg.S3.Region)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		param  string
	}{
		{"empty root", func(c *config.Config) { c.Data.Root = " " }, "data.root"},
		{"zero preview rows", func(c *config.Config) { c.Data.PreviewRows = 0 }, "data.preview_rows"},
		{"bad pattern", func(c *config.Config) { c.Data.Pattern = "[" }, "data.pattern"},
		{"zero concurrency", func(c *config.Config) { c.Load.Concurrency = 0 }, "load.concurrency"},
		{"bad level", func(c *config.Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad theme", func(c *config.Config) { c.Theme.Name = "neon" }, "theme.name"},
		{"duplicate folder", func(c *config.Config) {
			c.Catalog = append(c.Catalog, catalog.Folder{Name: "folder1"})
		}, "catalog"},
		{"nested file", func(c *config.Config) {
			c.Catalog = []catalog.Folder{{Name: "f", Files: []string{"a/b.csv"}}}
		}, "catalog"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			require.NoError(t, cfg.Validate())
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			var cfgErr *errors.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.param, cfgErr.Param())
		})
	}

	var nilCfg *config.Config
	assert.Error(t, nilCfg.Validate())
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := config.New()
	cfg.Data.Root = "s3://reports/csv"
	cfg.Theme.Name = "dark"
	cfg.Catalog = []catalog.Folder{{Name: "x", Files: []string{"1.csv"}}}

	require.NoError(t, config.SaveConfig(cfg, path))
	loaded, err := config.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Data, loaded.Data)
	assert.Equal(t, cfg.Catalog, loaded.Catalog)
	assert.Equal(t, "dark", loaded.Theme.Name)
}

func TestStorePathDefaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg")
	cfg := config.New()
	assert.Equal(t, "/tmp/xdg/csvdash/status.json", cfg.StorePath())
	cfg.Status.Backend = "sqlite"
	assert.Equal(t, "/tmp/xdg/csvdash/status.db", cfg.StorePath())
	cfg.Status.Backend = "memory"
	assert.Equal(t, "", cfg.StorePath())
	assert.Equal(t, "/tmp/xdg/csvdash/csvdash.log", cfg.LogPath())
}

func TestThemes(t *testing.T) {
	names := config.ListThemes()
	assert.Contains(t, names, "default")
	assert.Contains(t, names, "ocean")
	for _, name := range names {
		p := config.GetTheme(name)
		assert.NotEmpty(t, p.Primary, name)
		assert.NotEmpty(t, p.Border, name)
	}
	assert.Equal(t, config.GetTheme("default"), config.GetTheme("missing"))
}
