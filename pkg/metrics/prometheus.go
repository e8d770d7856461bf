package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	ItemsFetched      *prometheus.CounterVec
	BookingsExtracted *prometheus.CounterVec
	RecordsNew        prometheus.Counter
	RecordsMerged     prometheus.Counter
	RecordsSkipped    prometheus.Counter
	SyncDuration      prometheus.Histogram
	ErrorsCount       *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		ItemsFetched: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_fetched_total",
			Help:      "The total number of raw items fetched per source",
		}, []string{"source"}),
		BookingsExtracted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_extracted_total",
			Help:      "The total number of bookings extracted per type",
		}, []string{"type"}),
		RecordsNew: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_new_total",
			Help:      "The total number of location records created",
		}),
		RecordsMerged: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_merged_total",
			Help:      "The total number of location records merged",
		}),
		RecordsSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_skipped_total",
			Help:      "The total number of bookings skipped during reconciliation",
		}),
		SyncDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sync_duration_seconds",
			Help:      "Time taken by a full sync run",
			Buckets:   prometheus.DefBuckets,
		}),
		ErrorsCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
