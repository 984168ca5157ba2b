package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder exposes metrics through a prometheus registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	wishlistAdded         prometheus.Counter
	wishlistRemoved       prometheus.Counter
	wishlistDuplicateAdds prometheus.Counter
	listResolveDuration   prometheus.Histogram
	entriesResolved       *prometheus.CounterVec

	trackingPublished     *prometheus.CounterVec
	trackingProcessed     *prometheus.CounterVec
	trackingBatchSize     prometheus.Histogram
	trackingBatchDuration prometheus.Histogram
	trackingQueueDepth    prometheus.Gauge
	trackingIngestLag     prometheus.Histogram
}

// NewPrometheus returns a Recorder backed by a fresh prometheus registry.
func NewPrometheus() *PrometheusRecorder {
	registry := prometheus.NewRegistry()

	r := &PrometheusRecorder{
		registry: registry,
		wishlistAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dealdrop_wishlist_added_total",
			Help: "Wishlist entries created.",
		}),
		wishlistRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dealdrop_wishlist_removed_total",
			Help: "Wishlist remove operations completed.",
		}),
		wishlistDuplicateAdds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dealdrop_wishlist_duplicate_adds_total",
			Help: "Add operations resolved as idempotent duplicates.",
		}),
		listResolveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dealdrop_wishlist_list_resolve_seconds",
			Help:    "Time to resolve a full wishlist view.",
			Buckets: prometheus.DefBuckets,
		}),
		entriesResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dealdrop_wishlist_entries_resolved_total",
			Help: "Per-entry resolutions by resulting status.",
		}, []string{"status"}),
		trackingPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dealdrop_tracking_events_published_total",
			Help: "Tracking events published to the stream.",
		}, []string{"status"}),
		trackingProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dealdrop_tracking_events_processed_total",
			Help: "Tracking events persisted by the worker.",
		}, []string{"status"}),
		trackingBatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dealdrop_tracking_batch_size",
			Help:    "Events per processed tracking batch.",
			Buckets: []float64{1, 10, 50, 100, 250, 500},
		}),
		trackingBatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dealdrop_tracking_batch_duration_seconds",
			Help:    "Time to persist a tracking batch.",
			Buckets: prometheus.DefBuckets,
		}),
		trackingQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dealdrop_tracking_queue_depth",
			Help: "Pending plus unread messages on the tracking stream.",
		}),
		trackingIngestLag: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dealdrop_tracking_ingest_lag_seconds",
			Help:    "Delay between event emission and persistence.",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300},
		}),
	}

	registry.MustRegister(
		r.wishlistAdded,
		r.wishlistRemoved,
		r.wishlistDuplicateAdds,
		r.listResolveDuration,
		r.entriesResolved,
		r.trackingPublished,
		r.trackingProcessed,
		r.trackingBatchSize,
		r.trackingBatchDuration,
		r.trackingQueueDepth,
		r.trackingIngestLag,
	)

	return r
}

// Registry returns the underlying registry for the /metrics handler.
func (r *PrometheusRecorder) Registry() *prometheus.Registry {
	return r.registry
}

// IncWishlistAdded increments the added counter.
func (r *PrometheusRecorder) IncWishlistAdded() { r.wishlistAdded.Inc() }

// IncWishlistRemoved increments the removed counter.
func (r *PrometheusRecorder) IncWishlistRemoved() { r.wishlistRemoved.Inc() }

// IncWishlistDuplicateAdd increments the idempotent-duplicate counter.
func (r *PrometheusRecorder) IncWishlistDuplicateAdd() { r.wishlistDuplicateAdds.Inc() }

// ObserveListResolveDuration records one list resolution.
func (r *PrometheusRecorder) ObserveListResolveDuration(duration time.Duration) {
	r.listResolveDuration.Observe(duration.Seconds())
}

// IncEntryResolved increments the per-status resolution counter.
func (r *PrometheusRecorder) IncEntryResolved(status string) {
	r.entriesResolved.WithLabelValues(status).Inc()
}

// IncTrackingEventPublished increments publish counters.
func (r *PrometheusRecorder) IncTrackingEventPublished(status string) {
	r.trackingPublished.WithLabelValues(status).Inc()
}

// IncTrackingEventProcessed increments the per-status processed counter.
func (r *PrometheusRecorder) IncTrackingEventProcessed(status string) {
	r.trackingProcessed.WithLabelValues(status).Inc()
}

// ObserveTrackingBatchSize records one processed batch.
func (r *PrometheusRecorder) ObserveTrackingBatchSize(size int) {
	r.trackingBatchSize.Observe(float64(size))
}

// ObserveTrackingBatchDuration records batch processing time.
func (r *PrometheusRecorder) ObserveTrackingBatchDuration(duration time.Duration) {
	r.trackingBatchDuration.Observe(duration.Seconds())
}

// SetTrackingQueueDepth records current stream backlog.
func (r *PrometheusRecorder) SetTrackingQueueDepth(depth int64) {
	r.trackingQueueDepth.Set(float64(depth))
}

// ObserveTrackingIngestLag records publish-to-persist lag.
func (r *PrometheusRecorder) ObserveTrackingIngestLag(lag time.Duration) {
	r.trackingIngestLag.Observe(lag.Seconds())
}
