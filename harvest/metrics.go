package harvest

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360studio/fdpharvest/labels"
)

// Record statuses.
const (
	statusPublished = "published"
	statusSkipped   = "skipped"
	statusFailed    = "failed"
)

// runMetrics holds Prometheus metrics for harvest runs.
type runMetrics struct {
	discovered *prometheus.CounterVec // By profile and record type
	records    *prometheus.CounterVec // By profile and status (published/skipped/failed)
	labels     *prometheus.CounterVec // By profile and outcome

	runDuration *prometheus.HistogramVec // By profile
}

// newRunMetrics creates and registers harvest metrics with reg.
func newRunMetrics(reg prometheus.Registerer) (*runMetrics, error) {
	if reg == nil {
		return nil, nil // Metrics disabled
	}

	m := &runMetrics{
		discovered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fdpharvest",
			Subsystem: "harvest",
			Name:      "discovered_total",
			Help:      "Total number of records discovered by FDP crawls",
		}, []string{"profile", "type"}),

		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fdpharvest",
			Subsystem: "harvest",
			Name:      "records_total",
			Help:      "Total number of processed records",
		}, []string{"profile", "status"}),

		labels: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fdpharvest",
			Subsystem: "harvest",
			Name:      "label_resolutions_total",
			Help:      "Total number of label resolutions by outcome",
		}, []string{"profile", "outcome"}),

		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fdpharvest",
			Subsystem: "harvest",
			Name:      "run_duration_seconds",
			Help:      "Harvest run duration in seconds",
			Buckets:   []float64{1, 5, 15, 60, 300, 900, 3600},
		}, []string{"profile"}),
	}

	for _, c := range []prometheus.Collector{m.discovered, m.records, m.labels, m.runDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *runMetrics) recordDiscovered(profileName, recordType string) {
	if m == nil {
		return
	}
	m.discovered.WithLabelValues(profileName, recordType).Inc()
}

func (m *runMetrics) recordStatus(profileName, status string) {
	if m == nil {
		return
	}
	m.records.WithLabelValues(profileName, status).Inc()
}

func (m *runMetrics) recordLabels(profileName string, outcome labels.Outcome) {
	if m == nil {
		return
	}
	m.labels.WithLabelValues(profileName, outcomeLabel(outcome.Kind)).Inc()
}

func (m *runMetrics) recordRun(profileName string, duration time.Duration) {
	if m == nil {
		return
	}
	m.runDuration.WithLabelValues(profileName).Observe(duration.Seconds())
}

func outcomeLabel(kind labels.OutcomeKind) string {
	switch kind {
	case labels.NoWorkNeeded:
		return "no_work_needed"
	case labels.NothingUsable:
		return "nothing_usable"
	case labels.Resolved:
		return "resolved"
	default:
		return "unknown"
	}
}
