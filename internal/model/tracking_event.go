// Package model defines domain entities for the application.
package model

import "time"

// Tracking event names emitted by the wishlist service.
const (
	EventWishlistAdd    = "wishlist_add"
	EventWishlistRemove = "wishlist_remove"
)

// TrackingEvent is one observability event persisted by the tracking worker.
type TrackingEvent struct {
	ID      string `json:"id"`       // ULID (time-sortable)
	EventID string `json:"event_id"` // Idempotency key (Redis stream ID)

	Name       string            `json:"name"`
	Attributes map[string]string `json:"attributes,omitempty"` // stored as JSONB

	OccurredAt time.Time `json:"occurred_at"` // Event timestamp
	CreatedAt  time.Time `json:"created_at"`  // DB insertion time
}
