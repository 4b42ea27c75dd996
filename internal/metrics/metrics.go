// Package metrics exposes Prometheus collectors for the snapshot
// generator.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	changeEventsTotal     *prometheus.CounterVec
	snapshotsWrittenTotal *prometheus.CounterVec
	snapshotsDeletedTotal *prometheus.CounterVec
	snapshotSkipsTotal    *prometheus.CounterVec
	renderDurationSeconds *prometheus.HistogramVec
	bulkInflightWrites    prometheus.Gauge

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		changeEventsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seo_change_events_total",
				Help: "Total change notifications handled, labeled by entity kind and operation.",
			},
			[]string{"kind", "op"},
		)

		snapshotsWrittenTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seo_snapshots_written_total",
				Help: "Total snapshot artifacts written, labeled by entity kind.",
			},
			[]string{"kind"},
		)

		snapshotsDeletedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seo_snapshots_deleted_total",
				Help: "Total snapshot artifacts deleted, labeled by entity kind.",
			},
			[]string{"kind"},
		)

		snapshotSkipsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seo_snapshot_skips_total",
				Help: "Total change notifications that produced no write, labeled by kind and reason.",
			},
			[]string{"kind", "reason"},
		)

		renderDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "seo_render_duration_seconds",
				Help:    "Histogram of render-and-write latencies, labeled by entity kind.",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2},
			},
			[]string{"kind"},
		)

		bulkInflightWrites = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "seo_bulk_inflight_writes",
				Help: "Number of bulk regeneration writes currently in flight.",
			},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveChangeEvent counts one handled change notification.
func ObserveChangeEvent(kind, op string) {
	changeEventsTotal.WithLabelValues(kind, op).Inc()
}

// ObserveSnapshotWritten counts one written artifact.
func ObserveSnapshotWritten(kind string) {
	snapshotsWrittenTotal.WithLabelValues(kind).Inc()
}

// ObserveSnapshotDeleted counts one deleted artifact.
func ObserveSnapshotDeleted(kind string) {
	snapshotsDeletedTotal.WithLabelValues(kind).Inc()
}

// ObserveSnapshotSkip counts one no-write decision.
func ObserveSnapshotSkip(kind, reason string) {
	snapshotSkipsTotal.WithLabelValues(kind, reason).Inc()
}

// ObserveRenderDuration records a render-and-write latency.
func ObserveRenderDuration(kind string, duration time.Duration) {
	renderDurationSeconds.WithLabelValues(kind).Observe(duration.Seconds())
}

// IncBulkInflight increments the in-flight bulk write gauge.
func IncBulkInflight() {
	bulkInflightWrites.Inc()
}

// DecBulkInflight decrements the in-flight bulk write gauge.
func DecBulkInflight() {
	bulkInflightWrites.Dec()
}
