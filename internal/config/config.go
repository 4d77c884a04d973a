package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"csvdash/internal/catalog"
	"csvdash/internal/errors"
	"csvdash/internal/store"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration structure.
type Config struct {
	Data struct {
		Root        string `yaml:"root"`         // Local directory or s3://bucket/prefix
		PreviewRows int    `yaml:"preview_rows"` // Rows kept per file preview
		Discover    bool   `yaml:"discover"`     // Build the catalog by listing folders
		Pattern     string `yaml:"pattern"`      // Glob for discovered and watched files
	} `yaml:"data"`
	// Catalog lists folders and their files in display order. Empty means
	// the built-in catalog.
	Catalog []catalog.Folder `yaml:"catalog"`
	Load    struct {
		Concurrency int `yaml:"concurrency"` // Files loaded at once; 1 keeps catalog order
	} `yaml:"load"`
	Status struct {
		Backend string `yaml:"backend"` // file, sqlite or memory
		Path    string `yaml:"path"`    // Store location; empty uses the data directory
	} `yaml:"status"`
	S3 struct {
		Endpoint        string `yaml:"endpoint"`
		Region          string `yaml:"region"`
		AccessKeyID     string `yaml:"access_key_id"`
		SecretAccessKey string `yaml:"secret_access_key"`
		UseSSL          bool   `yaml:"use_ssl"`
	} `yaml:"s3"`
	Logging struct {
		Level  string `yaml:"level"`  // debug, info, warn, error
		Format string `yaml:"format"` // text or json
		File   string `yaml:"file"`   // Log file; the TUI always logs to a file
	} `yaml:"logging"`
	Metrics struct {
		Addr string `yaml:"addr"` // Listen address for /metrics; empty disables
	} `yaml:"metrics"`
	Watch struct {
		Enabled bool `yaml:"enabled"` // Reload when catalog files change
	} `yaml:"watch"`
	Theme struct {
		Name string `yaml:"name"`
	} `yaml:"theme"`
}

// DefaultPath returns ~/.config/csvdash/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "csvdash", "config.yaml"), nil
}

// LoadConfig loads the default config file. A missing file yields the
// default configuration.
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	cfg, err := LoadConfigFile(path)
	if errors.IsConfigNotFound(err) {
		return finish(defaultConfig())
	}
	return cfg, err
}

// LoadConfigFile loads configuration from a specific file path. Fields
// missing from the file keep their defaults.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewConfigError("config file not found", path, errors.ConfigNotFound, err)
		}
		return nil, errors.NewConfigError("error reading config file", path, errors.LoadFailed, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError("error parsing config file", path, errors.InvalidConfig, err)
	}
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyEnv overrides S3 settings from CSVDASH_S3_* variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("CSVDASH_S3_ENDPOINT"); v != "" {
		c.S3.Endpoint = v
	}
	if v := os.Getenv("CSVDASH_S3_REGION"); v != "" {
		c.S3.Region = v
	}
	if v := os.Getenv("CSVDASH_S3_ACCESS_KEY_ID"); v != "" {
		c.S3.AccessKeyID = v
	}
	if v := os.Getenv("CSVDASH_S3_SECRET_ACCESS_KEY"); v != "" {
		c.S3.SecretAccessKey = v
	}
	if v := os.Getenv("CSVDASH_S3_USE_SSL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.S3.UseSSL = b
		}
	}
}

func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Data.Root = filepath.Join("public", "csv")
	cfg.Data.PreviewRows = 10
	cfg.Data.Discover = false
	cfg.Data.Pattern = "*.csv"

	cfg.Catalog = catalog.Default().Entries()

	cfg.Load.Concurrency = 1

	cfg.Status.Backend = store.BackendFile

	cfg.S3.Region = "us-east-1"
	cfg.S3.UseSSL = true

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "text"

	cfg.Theme.Name = "default"

	return cfg
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

var (
	validBackends = map[string]bool{store.BackendFile: true, store.BackendSQLite: true, store.BackendMemory: true}
	validLevels   = map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "warning": true, "error": true}
	validFormats  = map[string]bool{"text": true, "json": true}
)

func invalid(param, format string, args ...interface{}) error {
	return errors.NewConfigError(fmt.Sprintf(format, args...), param, errors.InvalidConfig, nil)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return invalid("", "nil config")
	}

	if strings.TrimSpace(c.Data.Root) == "" {
		return invalid("data.root", "data root is required")
	}
	if c.Data.PreviewRows < 1 {
		return invalid("data.preview_rows", "preview rows must be >= 1, got %d", c.Data.PreviewRows)
	}
	if _, err := glob.Compile(c.Data.Pattern); err != nil || c.Data.Pattern == "" {
		return invalid("data.pattern", "invalid file pattern %q", c.Data.Pattern)
	}
	if c.Load.Concurrency < 1 {
		return invalid("load.concurrency", "concurrency must be >= 1, got %d", c.Load.Concurrency)
	}
	if !validBackends[strings.ToLower(c.Status.Backend)] {
		return invalid("status.backend", "invalid status backend: %s", c.Status.Backend)
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return invalid("logging.level", "invalid log level: %s", c.Logging.Level)
	}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return invalid("logging.format", "invalid log format: %s", c.Logging.Format)
	}
	if _, ok := themes[c.Theme.Name]; !ok {
		return invalid("theme.name", "unknown theme: %s", c.Theme.Name)
	}

	seen := make(map[string]bool, len(c.Catalog))
	for i, f := range c.Catalog {
		if f.Name == "" || strings.ContainsAny(f.Name, `/\`) {
			return invalid("catalog", "folder %d: invalid folder name %q", i, f.Name)
		}
		if seen[f.Name] {
			return invalid("catalog", "duplicate folder %s", f.Name)
		}
		seen[f.Name] = true
		for j, file := range f.Files {
			if file == "" || strings.ContainsAny(file, `/\`) {
				return invalid("catalog", "folder %s file %d: invalid file name %q", f.Name, j, file)
			}
		}
	}
	return nil
}

// BuildCatalog returns the configured catalog, or the built-in one when the
// configuration lists no folders.
func (c *Config) BuildCatalog() *catalog.Catalog {
	if len(c.Catalog) == 0 {
		return catalog.Default()
	}
	return catalog.New(c.Catalog...)
}

// StorePath returns the status store location for the configured backend.
func (c *Config) StorePath() string {
	if c.Status.Path != "" {
		return c.Status.Path
	}
	switch strings.ToLower(c.Status.Backend) {
	case store.BackendSQLite:
		return store.DefaultPath("status.db")
	case store.BackendMemory:
		return ""
	default:
		return store.DefaultPath("status.json")
	}
}

// LogPath returns the configured log file, or the default one in the data
// directory.
func (c *Config) LogPath() string {
	if c.Logging.File != "" {
		return c.Logging.File
	}
	return store.DefaultPath("csvdash.log")
}

// Palette holds the lipgloss color codes of a theme.
type Palette struct {
	Primary  string
	Success  string
	Warning  string
	Error    string
	Muted    string
	Emphasis string
	Border   string
}

var themes = map[string]Palette{
	"default": {
		Primary:  "213", // Purple
		Success:  "114", // Green
		Warning:  "220", // Yellow
		Error:    "196", // Red
		Muted:    "245", // Grey
		Emphasis: "212", // Light Pink
		Border:   "213",
	},
	"dark": {
		Primary:  "105",
		Success:  "78",
		Warning:  "214",
		Error:    "160",
		Muted:    "240",
		Emphasis: "147",
		Border:   "105",
	},
	"light": {
		Primary:  "135",
		Success:  "28",
		Warning:  "172",
		Error:    "124",
		Muted:    "244",
		Emphasis: "90",
		Border:   "135",
	},
	"monochrome": {
		Primary:  "252",
		Success:  "255",
		Warning:  "248",
		Error:    "255",
		Muted:    "241",
		Emphasis: "255",
		Border:   "245",
	},
	"ocean": {
		Primary:  "31", // Teal
		Success:  "36",
		Warning:  "220",
		Error:    "196",
		Muted:    "67",
		Emphasis: "51", // Cyan
		Border:   "31",
	},
}

// GetTheme returns the palette of a theme. Unknown names get the default.
func GetTheme(name string) Palette {
	if p, ok := themes[name]; ok {
		return p
	}
	return themes["default"]
}

// ListThemes returns the available theme names, sorted.
func ListThemes() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
