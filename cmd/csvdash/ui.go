package main

import (
	"context"
	"strings"

	"csvdash/internal/dashboard"
	"csvdash/internal/errors"
	"csvdash/internal/log"
	"csvdash/internal/metrics"
	"csvdash/internal/source"
	"csvdash/internal/tui"
	"csvdash/internal/tui/styles"
	"csvdash/internal/watch"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newUICmd(a *app) *cobra.Command {
	var (
		watchFiles  bool
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Start the terminal dashboard",
		Long:  `Start the terminal dashboard. Logs go to the log file while the dashboard runs.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("watch") {
				a.cfg.Watch.Enabled = watchFiles
			}
			if metricsAddr != "" {
				a.cfg.Metrics.Addr = metricsAddr
			}
			a.configureLogging(true)
			styles.Apply(a.cfg.Theme.Name)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			router := tui.NewRouter()
			e, err := a.open(ctx, dashboard.WithNavigator(router))
			if err != nil {
				return err
			}
			defer e.Close()

			var opts []tui.Option
			if a.cfg.Watch.Enabled {
				w, err := a.startWatcher(e)
				if err != nil {
					a.logger.WithError(err).Warn("File watching disabled")
				} else {
					defer w.Stop()
					opts = append(opts, tui.WithWatch(w.Events()))
				}
			}

			g, gctx := errgroup.WithContext(ctx)
			if addr := a.cfg.Metrics.Addr; addr != "" {
				g.Go(func() error {
					if err := metrics.Serve(gctx, addr, e.registry); err != nil {
						a.logger.WithError(err).Error("Metrics server stopped")
					}
					return nil
				})
			}

			runErr := tui.Run(ctx, e.ctrl, router, opts...)
			cancel()
			if err := g.Wait(); err != nil {
				return err
			}
			return runErr
		},
	}

	cmd.Flags().BoolVarP(&watchFiles, "watch", "w", false, "reload when catalog files change")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9102")

	return cmd
}

// startWatcher watches every catalog folder of a local data root.
func (a *app) startWatcher(e *env) (*watch.Watcher, error) {
	dir, ok := e.src.(*source.Dir)
	if !ok {
		return nil, errors.Newf("file watching needs a local data root, got %s", e.src.Describe())
	}

	w, err := watch.New(a.cfg.Data.Pattern)
	if err != nil {
		return nil, err
	}
	for _, folder := range e.ctrl.Folders() {
		path, err := dir.FolderPath(folder)
		if err == nil {
			err = w.AddFolder(folder, path)
		}
		if err != nil {
			a.logger.With(log.F("folder", folder)).WithError(err).Warn("Folder not watched")
		}
	}
	watched := w.Folders()
	if len(watched) == 0 {
		w.Stop()
		return nil, errors.New("no catalog folder could be watched")
	}
	a.logger.With(log.F("folders", strings.Join(watched, ","))).Info("Watching catalog folders")
	if err := w.Start(); err != nil {
		w.Stop()
		return nil, err
	}
	return w, nil
}
