package harvest

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/fdpharvest/labels"
)

func TestRunMetricsDisabled(t *testing.T) {
	m, err := newRunMetrics(nil)
	require.NoError(t, err)
	assert.Nil(t, m)

	// Nil metrics are safe to use.
	m.recordDiscovered("p", "dataset")
	m.recordStatus("p", statusPublished)
	m.recordLabels("p", labels.Outcome{Kind: labels.Resolved, Count: 2})
	m.recordRun("p", time.Second)
}

func TestRunMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := newRunMetrics(reg)
	require.NoError(t, err)

	m.recordDiscovered("p", "dataset")
	m.recordDiscovered("p", "dataset")
	m.recordDiscovered("p", "catalog")
	m.recordStatus("p", statusPublished)
	m.recordStatus("p", statusFailed)
	m.recordStatus("p", statusFailed)
	m.recordLabels("p", labels.Outcome{Kind: labels.NoWorkNeeded})
	m.recordLabels("p", labels.Outcome{Kind: labels.Resolved, Count: 4})
	m.recordRun("p", 2*time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.discovered.WithLabelValues("p", "dataset")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.discovered.WithLabelValues("p", "catalog")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.records.WithLabelValues("p", statusPublished)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.records.WithLabelValues("p", statusFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.labels.WithLabelValues("p", "no_work_needed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.labels.WithLabelValues("p", "resolved")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.runDuration))
}

func TestRunMetricsDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := newRunMetrics(reg)
	require.NoError(t, err)

	_, err = newRunMetrics(reg)
	assert.Error(t, err)
}
