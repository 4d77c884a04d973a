// Package metrics provides Prometheus metrics for the dashboard
package metrics

import (
	"context"
	"net/http"
	"time"

	"csvdash/internal/log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result label values.
const (
	ResultOK     = "ok"
	ResultFailed = "failed"
)

// Metrics records load, toggle and persistence activity. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	FilesLoaded   *prometheus.CounterVec
	RowsLoaded    *prometheus.CounterVec
	LoadDuration  prometheus.Histogram
	StatusToggles *prometheus.CounterVec
	StoreWrites   *prometheus.CounterVec
}

// New registers the dashboard metrics on reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		FilesLoaded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "csvdash_files_loaded_total",
				Help: "Total number of CSV file loads by outcome",
			},
			[]string{"folder", "result"},
		),
		RowsLoaded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "csvdash_rows_loaded_total",
				Help: "Total number of CSV rows loaded",
			},
			[]string{"folder"},
		),
		LoadDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "csvdash_load_duration_seconds",
				Help:    "Time taken to load the whole catalog",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
			},
		),
		StatusToggles: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "csvdash_status_toggles_total",
				Help: "Total number of file status toggles",
			},
			[]string{"folder"},
		),
		StoreWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "csvdash_store_writes_total",
				Help: "Total number of status store writes by outcome",
			},
			[]string{"result"},
		),
	}
}

// RecordFile records the outcome of one file load.
func (m *Metrics) RecordFile(folder string, rows int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.FilesLoaded.WithLabelValues(folder, ResultFailed).Inc()
		return
	}
	m.FilesLoaded.WithLabelValues(folder, ResultOK).Inc()
	m.RowsLoaded.WithLabelValues(folder).Add(float64(rows))
}

// RecordLoad records the duration of a full catalog load.
func (m *Metrics) RecordLoad(d time.Duration) {
	if m == nil {
		return
	}
	m.LoadDuration.Observe(d.Seconds())
}

// RecordToggle counts a status toggle.
func (m *Metrics) RecordToggle(folder string) {
	if m == nil {
		return
	}
	m.StatusToggles.WithLabelValues(folder).Inc()
}

// RecordWrite counts a store write.
func (m *Metrics) RecordWrite(err error) {
	if m == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultFailed
	}
	m.StoreWrites.WithLabelValues(result).Inc()
}

// Handler returns the /metrics handler for g.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(g))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		log.LogWithFields(log.F("addr", addr)).Info("Serving metrics")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
