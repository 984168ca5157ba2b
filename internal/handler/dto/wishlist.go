// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/dealdrop/dealdrop/internal/model"
)

// AddWishlistEntryRequest represents the request body for saving a deal.
type AddWishlistEntryRequest struct {
	DealID       string `json:"dealId"`
	AlertEnabled bool   `json:"alertEnabled,omitempty"`
}

// WishlistEntryResponse represents one resolved wishlist entry.
type WishlistEntryResponse struct {
	DealID       string    `json:"dealId"`
	AlertEnabled bool      `json:"alertEnabled"`
	CreatedAt    time.Time `json:"createdAt"`
	Status       string    `json:"status"`
	// BestPrice is null for expired or unresolved deals, and for
	// active deals with no recorded prices.
	BestPrice *int64 `json:"bestPrice"`
}

// SuccessResponse acknowledges a state-changing request.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// ToWishlistEntryResponse converts a resolved entry to its API shape.
func ToWishlistEntryResponse(entry model.ResolvedEntry) WishlistEntryResponse {
	return WishlistEntryResponse{
		DealID:       entry.DealID,
		AlertEnabled: entry.AlertEnabled,
		CreatedAt:    entry.CreatedAt,
		Status:       string(entry.Status),
		BestPrice:    entry.BestPrice,
	}
}

// ToWishlistResponse converts a resolved wishlist, preserving order.
func ToWishlistResponse(entries []model.ResolvedEntry) []WishlistEntryResponse {
	out := make([]WishlistEntryResponse, len(entries))
	for i, entry := range entries {
		out[i] = ToWishlistEntryResponse(entry)
	}
	return out
}
