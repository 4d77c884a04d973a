package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFile(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordFile("folder1", 3, nil)
	m.RecordFile("folder1", 7, nil)
	m.RecordFile("folder1", 0, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.FilesLoaded.WithLabelValues("folder1", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FilesLoaded.WithLabelValues("folder1", ResultFailed)))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.RowsLoaded.WithLabelValues("folder1")))
}

func TestRecordToggleAndWrite(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordToggle("folder2")
	m.RecordWrite(nil)
	m.RecordWrite(errors.New("disk full"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatusToggles.WithLabelValues("folder2")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreWrites.WithLabelValues(ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreWrites.WithLabelValues(ResultFailed)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordFile("f", 1, nil)
		m.RecordLoad(time.Second)
		m.RecordToggle("f")
		m.RecordWrite(nil)
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.RecordLoad(50 * time.Millisecond)
	m.RecordToggle("folder1")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "csvdash_load_duration_seconds_count 1"))
	assert.True(t, strings.Contains(body, `csvdash_status_toggles_total{folder="folder1"} 1`))
}
