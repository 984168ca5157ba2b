package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dealdrop/dealdrop/internal/auth"
	"github.com/dealdrop/dealdrop/internal/handler/dto"
	"github.com/dealdrop/dealdrop/internal/model"
	"github.com/dealdrop/dealdrop/internal/service"
)

// WishlistProvider defines the service operations the handler needs.
type WishlistProvider interface {
	ListEntries(ctx context.Context, accountID string) ([]model.ResolvedEntry, error)
	AddEntry(ctx context.Context, input service.AddEntryInput) error
	RemoveEntry(ctx context.Context, accountID, dealID string) error
}

// WishlistHandler handles HTTP requests for wishlist operations.
type WishlistHandler struct {
	svc    WishlistProvider
	logger *slog.Logger
}

// NewWishlistHandler creates a new WishlistHandler.
func NewWishlistHandler(svc WishlistProvider, logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /api/v1/wishlist.
func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	account := auth.MustAccountFromContext(r.Context())

	entries, err := h.svc.ListEntries(r.Context(), account.AccountID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToWishlistResponse(entries))
}

// Add handles POST /api/v1/wishlist.
func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	account := auth.MustAccountFromContext(r.Context())

	var req dto.AddWishlistEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	input := service.AddEntryInput{
		AccountID:    account.AccountID,
		Role:         account.Role,
		DealID:       req.DealID,
		AlertEnabled: req.AlertEnabled,
	}

	if err := h.svc.AddEntry(r.Context(), input); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("wishlist_entry_added",
		"account_id", account.AccountID,
		"deal_id", req.DealID,
		"alert_enabled", req.AlertEnabled,
	)

	writeJSON(w, http.StatusCreated, dto.SuccessResponse{Success: true})
}

// Remove handles DELETE /api/v1/wishlist/{dealId}.
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	account := auth.MustAccountFromContext(r.Context())

	dealID := chi.URLParam(r, "dealId")
	if dealID == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_DEAL_ID", "Deal ID is required")
		return
	}

	if err := h.svc.RemoveEntry(r.Context(), account.AccountID, dealID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("wishlist_entry_removed",
		"account_id", account.AccountID,
		"deal_id", dealID,
	)

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Success: true})
}

// handleServiceError maps service errors to HTTP responses.
func (h *WishlistHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDealID):
		h.writeError(w, http.StatusBadRequest, "INVALID_DEAL_ID", "Deal ID must be a valid UUID")
	case errors.Is(err, service.ErrAlertsRequireSubscription):
		h.writeError(w, http.StatusForbidden, "ALERTS_REQUIRE_SUBSCRIPTION", "Price-drop alerts require a subscriber account")
	case errors.Is(err, service.ErrDealNotFound):
		h.writeError(w, http.StatusNotFound, "DEAL_NOT_FOUND", "Deal not found")
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes an error response.
func (h *WishlistHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
