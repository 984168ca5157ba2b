// Package model defines domain entities for the application.
package model

import "time"

// DealStatus represents the resolved freshness of a deal.
type DealStatus string

const (
	// DealStatusActive means the deal exists, is active, and has not expired.
	DealStatusActive DealStatus = "active"
	// DealStatusExpired means the deal is missing, deactivated, or past its expiry.
	DealStatusExpired DealStatus = "expired"
	// DealStatusUnknown means the catalog could not be consulted for this deal.
	// It is only ever produced when a resolution fails, never by a healthy read.
	DealStatusUnknown DealStatus = "unknown"
)

// Deal represents a catalog offer. The catalog owns its lifecycle;
// this service only reads deals.
type Deal struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	IsActive  bool       `json:"is_active"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// StatusAt computes the deal's freshness at the given instant.
// A deal with expires_at strictly before now is expired even when is_active
// is still true.
func (d *Deal) StatusAt(now time.Time) DealStatus {
	if !d.IsActive {
		return DealStatusExpired
	}
	if d.ExpiresAt != nil && d.ExpiresAt.Before(now) {
		return DealStatusExpired
	}
	return DealStatusActive
}

// IsFresh returns true if the deal resolves active at the given instant.
func (d *Deal) IsFresh(now time.Time) bool {
	return d.StatusAt(now) == DealStatusActive
}
