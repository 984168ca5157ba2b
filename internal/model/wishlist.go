// Package model defines domain entities for the application.
package model

import "time"

// WishlistEntry is an account's saved reference to a deal.
// Entries are never mutated in place: the only transitions are
// absent -> present and present -> absent. Toggling alert_enabled
// means removing and re-adding the entry.
type WishlistEntry struct {
	ID           string    `json:"id"`
	AccountID    string    `json:"account_id"`
	DealID       string    `json:"deal_id"`
	AlertEnabled bool      `json:"alert_enabled"`
	CreatedAt    time.Time `json:"created_at"`
}

// ResolvedEntry is the derived, non-persisted view of a wishlist entry
// returned to callers. Status and best price are recomputed from live
// catalog state on every read; nothing caches them.
type ResolvedEntry struct {
	DealID       string     `json:"deal_id"`
	AlertEnabled bool       `json:"alert_enabled"`
	CreatedAt    time.Time  `json:"created_at"`
	Status       DealStatus `json:"status"`
	// BestPrice is nil for expired or unresolved deals, and for active
	// deals with no price observations.
	BestPrice *int64 `json:"best_price"`
}
