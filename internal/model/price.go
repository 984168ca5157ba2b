// Package model defines domain entities for the application.
package model

import "time"

// PriceObservation is one recorded price point for a deal.
// Observations are append-only; nothing in this service updates or
// deletes them. The amount is a plain integer scalar with no currency
// attached.
type PriceObservation struct {
	ID        string    `json:"id"`
	DealID    string    `json:"deal_id"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// BestPrice returns the minimum amount among the observations.
// The second return is false when there are no observations — zero is a
// legitimate price, so absence has to be explicit.
func BestPrice(observations []PriceObservation) (int64, bool) {
	if len(observations) == 0 {
		return 0, false
	}

	best := observations[0].Amount
	for _, obs := range observations[1:] {
		if obs.Amount < best {
			best = obs.Amount
		}
	}
	return best, true
}
