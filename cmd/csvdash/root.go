package main

import (
	"context"
	"io"
	"strings"

	"csvdash/internal/catalog"
	"csvdash/internal/config"
	"csvdash/internal/dashboard"
	"csvdash/internal/log"
	"csvdash/internal/metrics"
	"csvdash/internal/source"
	"csvdash/internal/store"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// app carries the persistent flags and the loaded configuration.
type app struct {
	cfgFile string
	root    string
	store   string
	debug   bool

	cfg    *config.Config
	logger *log.Logger
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "csvdash",
		Short:   "A terminal dashboard for folders of CSV reports",
		Long:    `csvdash loads a catalog of CSV files, previews their first rows per folder and remembers which files are active.`,
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.config/csvdash/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&a.root, "root", "", "CSV root directory or s3://bucket/prefix")
	rootCmd.PersistentFlags().StringVar(&a.store, "store", "", "status store backend: file, sqlite or memory")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	ui := newUICmd(a)
	rootCmd.RunE = ui.RunE
	rootCmd.Flags().AddFlagSet(ui.Flags())

	rootCmd.AddCommand(ui)
	rootCmd.AddCommand(newPreviewCmd(a))
	rootCmd.AddCommand(newStatusCmd(a))
	rootCmd.AddCommand(newCatalogCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))

	return rootCmd
}

func (a *app) loadConfig() error {
	var err error
	if a.cfgFile != "" {
		a.cfg, err = config.LoadConfigFile(a.cfgFile)
	} else {
		a.cfg, err = config.LoadConfig()
	}
	if err != nil {
		return err
	}

	if a.root != "" {
		a.cfg.Data.Root = a.root
	}
	if a.store != "" {
		a.cfg.Status.Backend = a.store
	}
	if a.debug {
		a.cfg.Logging.Level = "debug"
	}
	return a.cfg.Validate()
}

// configureLogging installs the package logger. The TUI owns the terminal,
// so toFile sends entries only to the log file.
func (a *app) configureLogging(toFile bool) {
	opts := []log.Option{log.WithLevel(a.cfg.Logging.Level)}
	if strings.EqualFold(a.cfg.Logging.Format, "json") {
		opts = append(opts, log.WithJSON())
	}
	switch {
	case toFile:
		opts = append(opts, log.WithOutput(io.Discard), log.WithFile(a.cfg.LogPath()))
	case a.cfg.Logging.File != "":
		opts = append(opts, log.WithFile(a.cfg.Logging.File))
	}
	log.Configure(opts...)
	log.SetDebug(strings.EqualFold(a.cfg.Logging.Level, "debug"))

	a.logger = log.Default().With(log.F("session", uuid.NewString()))
}

// env is everything a command needs to drive a controller.
type env struct {
	src      source.Source
	kv       store.KV
	ctrl     *dashboard.Controller
	registry *prometheus.Registry
}

func (e *env) Close() error {
	return store.Close(e.kv)
}

// open builds the source, catalog, status store and controller, and
// restores the saved file status.
func (a *app) open(ctx context.Context, opts ...dashboard.Option) (*env, error) {
	src, err := source.Open(ctx, source.Options{
		Root: a.cfg.Data.Root,
		S3: source.S3Options{
			Endpoint:        a.cfg.S3.Endpoint,
			Region:          a.cfg.S3.Region,
			AccessKeyID:     a.cfg.S3.AccessKeyID,
			SecretAccessKey: a.cfg.S3.SecretAccessKey,
			UseSSL:          a.cfg.S3.UseSSL,
		},
	})
	if err != nil {
		return nil, err
	}

	cat := a.cfg.BuildCatalog()
	if a.cfg.Data.Discover {
		discovered, err := catalog.Discover(ctx, src, cat.Folders(), a.cfg.Data.Pattern)
		if err != nil {
			a.logger.WithError(err).Warn("Catalog discovery incomplete")
		}
		if discovered != nil {
			cat = discovered
		}
	}

	kv, err := store.Open(a.cfg.Status.Backend, a.cfg.StorePath())
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	base := []dashboard.Option{
		dashboard.WithLogger(a.logger),
		dashboard.WithMetrics(metrics.New(registry)),
		dashboard.WithPreviewRows(a.cfg.Data.PreviewRows),
		dashboard.WithConcurrency(a.cfg.Load.Concurrency),
	}
	ctrl := dashboard.New(cat, src, kv, append(base, opts...)...)
	ctrl.Hydrate()

	a.logger.With(
		log.F("source", src.Describe()),
		log.F("store", a.cfg.Status.Backend),
		log.F("files", cat.Len()),
	).Debug("Dashboard ready")

	return &env{src: src, kv: kv, ctrl: ctrl, registry: registry}, nil
}
