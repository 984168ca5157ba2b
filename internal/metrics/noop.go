package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncWishlistAdded is a no-op.
func (n *NoopRecorder) IncWishlistAdded() {}

// IncWishlistRemoved is a no-op.
func (n *NoopRecorder) IncWishlistRemoved() {}

// IncWishlistDuplicateAdd is a no-op.
func (n *NoopRecorder) IncWishlistDuplicateAdd() {}

// ObserveListResolveDuration is a no-op.
func (n *NoopRecorder) ObserveListResolveDuration(duration time.Duration) {}

// IncEntryResolved is a no-op.
func (n *NoopRecorder) IncEntryResolved(status string) {}

// IncTrackingEventPublished is a no-op.
func (n *NoopRecorder) IncTrackingEventPublished(status string) {}

// IncTrackingEventProcessed is a no-op.
func (n *NoopRecorder) IncTrackingEventProcessed(status string) {}

// ObserveTrackingBatchSize is a no-op.
func (n *NoopRecorder) ObserveTrackingBatchSize(size int) {}

// ObserveTrackingBatchDuration is a no-op.
func (n *NoopRecorder) ObserveTrackingBatchDuration(duration time.Duration) {}

// SetTrackingQueueDepth is a no-op.
func (n *NoopRecorder) SetTrackingQueueDepth(depth int64) {}

// ObserveTrackingIngestLag is a no-op.
func (n *NoopRecorder) ObserveTrackingIngestLag(lag time.Duration) {}
