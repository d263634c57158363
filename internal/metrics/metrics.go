package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics holds the various metrics recorded during an offboarding run.
// It includes counters for processed employees, sent emails, written rows and failures,
// a gauge for the last completed run, and a histogram for database queries.
type Metrics struct {
	EmployeesProcessed prometheus.Counter
	EmailsSent         prometheus.Counter
	RowsWritten        prometheus.Counter
	Failures           *prometheus.CounterVec
	LastRun            prometheus.Gauge
	DBQueryDuration    *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// NewMetrics creates a new Metrics instance registered on reg.
// The registry is also kept as the gatherer used by Push and WriteTextfile.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	metrics := &Metrics{
		EmployeesProcessed: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "offboard_employees_processed_total",
			Help: "Total number of roster entries the pipeline attempted.",
		}),
		EmailsSent: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "offboard_emails_sent_total",
			Help: "Total number of offboarding emails accepted by the relay.",
		}),
		RowsWritten: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "offboard_rows_written_total",
			Help: "Total number of hardware rows appended to the combined audit file.",
		}),
		Failures: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "offboard_failures_total",
			Help: "Per-employee failures by pipeline stage.",
		}, []string{"stage"}), // stage: 'query', 'write', 'notify'
		LastRun: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "offboard_last_run_timestamp_seconds",
			Help: "Unix time of the last completed run.",
		}),
		DBQueryDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "offboard_db_query_duration_seconds",
			Help:    "Duration of database queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query_type"}),
		gatherer: reg,
	}

	metrics.Failures.WithLabelValues("query")
	metrics.Failures.WithLabelValues("write")
	metrics.Failures.WithLabelValues("notify")

	return metrics
}

// MarkRun sets the last run gauge.
func (m *Metrics) MarkRun(at time.Time) {
	m.LastRun.Set(float64(at.Unix()))
}

// Push sends every gathered metric to a Pushgateway under the given job and run id.
func (m *Metrics) Push(url, job, runID string) error {
	err := push.New(url, job).
		Grouping("run_id", runID).
		Gatherer(m.gatherer).
		Push()
	if err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}

	return nil
}

// WriteTextfile writes the metrics in the node exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.gatherer); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}

	return nil
}
