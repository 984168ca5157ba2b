package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	WishlistAdded            uint64
	WishlistRemoved          uint64
	WishlistDuplicateAdds    uint64
	ListResolveCount         uint64
	ListResolveTotalNs       int64
	EntriesResolved          map[string]uint64
	TrackingEventsPublished  uint64
	TrackingEventsDropped    uint64
	TrackingEventsProcessed  map[string]uint64
	TrackingBatchCount       uint64
	TrackingQueueDepth       int64
	TrackingBatchDurationNs  int64
	TrackingIngestLagCount   uint64
	TrackingIngestLagTotalNs int64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	wishlistAdded            uint64
	wishlistRemoved          uint64
	wishlistDuplicateAdds    uint64
	listResolveCount         uint64
	listResolveTotalNs       int64
	trackingEventsPublished  uint64
	trackingEventsDropped    uint64
	trackingBatchCount       uint64
	trackingQueueDepth       int64
	trackingBatchDurationNs  int64
	trackingIngestLagCount   uint64
	trackingIngestLagTotalNs int64

	mu                      sync.Mutex
	entriesResolved         map[string]uint64
	trackingEventsProcessed map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		entriesResolved:         make(map[string]uint64),
		trackingEventsProcessed: make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	resolved := make(map[string]uint64, len(m.entriesResolved))
	for k, v := range m.entriesResolved {
		resolved[k] = v
	}
	processed := make(map[string]uint64, len(m.trackingEventsProcessed))
	for k, v := range m.trackingEventsProcessed {
		processed[k] = v
	}
	m.mu.Unlock()

	return Snapshot{
		WishlistAdded:            atomic.LoadUint64(&m.wishlistAdded),
		WishlistRemoved:          atomic.LoadUint64(&m.wishlistRemoved),
		WishlistDuplicateAdds:    atomic.LoadUint64(&m.wishlistDuplicateAdds),
		ListResolveCount:         atomic.LoadUint64(&m.listResolveCount),
		ListResolveTotalNs:       atomic.LoadInt64(&m.listResolveTotalNs),
		EntriesResolved:          resolved,
		TrackingEventsPublished:  atomic.LoadUint64(&m.trackingEventsPublished),
		TrackingEventsDropped:    atomic.LoadUint64(&m.trackingEventsDropped),
		TrackingEventsProcessed:  processed,
		TrackingBatchCount:       atomic.LoadUint64(&m.trackingBatchCount),
		TrackingQueueDepth:       atomic.LoadInt64(&m.trackingQueueDepth),
		TrackingBatchDurationNs:  atomic.LoadInt64(&m.trackingBatchDurationNs),
		TrackingIngestLagCount:   atomic.LoadUint64(&m.trackingIngestLagCount),
		TrackingIngestLagTotalNs: atomic.LoadInt64(&m.trackingIngestLagTotalNs),
	}
}

// IncWishlistAdded increments the added counter.
func (m *InMemoryRecorder) IncWishlistAdded() {
	atomic.AddUint64(&m.wishlistAdded, 1)
}

// IncWishlistRemoved increments the removed counter.
func (m *InMemoryRecorder) IncWishlistRemoved() {
	atomic.AddUint64(&m.wishlistRemoved, 1)
}

// IncWishlistDuplicateAdd increments the idempotent-duplicate counter.
func (m *InMemoryRecorder) IncWishlistDuplicateAdd() {
	atomic.AddUint64(&m.wishlistDuplicateAdds, 1)
}

// ObserveListResolveDuration records one list resolution.
func (m *InMemoryRecorder) ObserveListResolveDuration(duration time.Duration) {
	atomic.AddUint64(&m.listResolveCount, 1)
	atomic.AddInt64(&m.listResolveTotalNs, duration.Nanoseconds())
}

// IncEntryResolved increments the per-status resolution counter.
func (m *InMemoryRecorder) IncEntryResolved(status string) {
	m.mu.Lock()
	m.entriesResolved[status]++
	m.mu.Unlock()
}

// IncTrackingEventPublished increments publish counters.
func (m *InMemoryRecorder) IncTrackingEventPublished(status string) {
	if status == "success" {
		atomic.AddUint64(&m.trackingEventsPublished, 1)
		return
	}
	atomic.AddUint64(&m.trackingEventsDropped, 1)
}

// IncTrackingEventProcessed increments the per-status processed counter.
func (m *InMemoryRecorder) IncTrackingEventProcessed(status string) {
	m.mu.Lock()
	m.trackingEventsProcessed[status]++
	m.mu.Unlock()
}

// ObserveTrackingBatchSize records one processed batch.
func (m *InMemoryRecorder) ObserveTrackingBatchSize(size int) {
	atomic.AddUint64(&m.trackingBatchCount, 1)
}

// ObserveTrackingBatchDuration records batch processing time.
func (m *InMemoryRecorder) ObserveTrackingBatchDuration(duration time.Duration) {
	atomic.AddInt64(&m.trackingBatchDurationNs, duration.Nanoseconds())
}

// SetTrackingQueueDepth records current stream backlog.
func (m *InMemoryRecorder) SetTrackingQueueDepth(depth int64) {
	atomic.StoreInt64(&m.trackingQueueDepth, depth)
}

// ObserveTrackingIngestLag records publish-to-persist lag.
func (m *InMemoryRecorder) ObserveTrackingIngestLag(lag time.Duration) {
	atomic.AddUint64(&m.trackingIngestLagCount, 1)
	atomic.AddInt64(&m.trackingIngestLagTotalNs, lag.Nanoseconds())
}
