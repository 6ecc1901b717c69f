package prometheus

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/custodia-labs/valueindex/internal/core/domain"
	"github.com/custodia-labs/valueindex/internal/core/ports/driven"
)

// Ensure Recorder implements the interface.
var _ driven.MetricsRecorder = (*Recorder)(nil)

const (
	outcomeOK     = "ok"
	outcomeFailed = "failed"
)

// Recorder implements driven.MetricsRecorder.
type Recorder struct {
	registry *prometheus.Registry

	databases      *prometheus.CounterVec
	records        prometheus.Counter
	dropped        *prometheus.CounterVec
	columnFailures prometheus.Counter
	indexDuration  *prometheus.HistogramVec
}

// NewRecorder creates a recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		databases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "valueindex_databases_total",
			Help: "Database passes by outcome",
		}, []string{"outcome"}),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "valueindex_records_total",
			Help: "Records staged for indexing",
		}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "valueindex_values_dropped_total",
			Help: "Harvested values rejected by the candidate filter",
		}, []string{"reason"}),
		columnFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "valueindex_column_failures_total",
			Help: "Columns skipped because they could not be harvested",
		}),
		indexDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "valueindex_index_duration_seconds",
			Help:    "Wall time of the external indexing engine",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}, []string{"outcome"}),
	}

	r.registry.MustRegister(r.databases, r.records, r.dropped, r.columnFailures, r.indexDuration)

	// Pre-create label combinations so a clean run still exports zeros.
	r.databases.WithLabelValues(outcomeOK)
	r.databases.WithLabelValues(outcomeFailed)
	r.dropped.WithLabelValues(string(domain.DropEmpty))
	r.dropped.WithLabelValues(string(domain.DropTooLong))
	return r
}

// Registry returns the registry holding the run metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveDatabase records the outcome of one database pass.
func (r *Recorder) ObserveDatabase(outcome domain.DatabaseOutcome) {
	r.databases.WithLabelValues(label(outcome.Err)).Inc()
	r.records.Add(float64(outcome.Records))

	for _, c := range outcome.Columns {
		if !c.OK() {
			r.columnFailures.Inc()
		}
		r.dropped.WithLabelValues(string(domain.DropEmpty)).Add(float64(c.DroppedEmpty))
		r.dropped.WithLabelValues(string(domain.DropTooLong)).Add(float64(c.DroppedTooLong))
	}
}

// ObserveIndexing records one engine invocation.
func (r *Recorder) ObserveIndexing(elapsed time.Duration, err error) {
	r.indexDuration.WithLabelValues(label(err)).Observe(elapsed.Seconds())
}

// WriteTextfile writes all metrics to path in the Prometheus text format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}

func label(err error) string {
	if err != nil {
		return outcomeFailed
	}
	return outcomeOK
}
