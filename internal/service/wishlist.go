// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dealdrop/dealdrop/internal/metrics"
	"github.com/dealdrop/dealdrop/internal/model"
	"github.com/dealdrop/dealdrop/internal/repository"
)

// Service errors.
var (
	ErrInvalidDealID             = errors.New("deal id must be a valid UUID")
	ErrDealNotFound              = errors.New("deal not found")
	ErrAlertsRequireSubscription = errors.New("price-drop alerts require a subscriber account")
)

const defaultResolveConcurrency = 8

// CatalogStore is the read contract against the deal catalog.
type CatalogStore interface {
	GetDeal(ctx context.Context, id string) (*model.Deal, error)
	GetPrices(ctx context.Context, dealID string) ([]model.PriceObservation, error)
}

// WishlistStore is the membership-record contract. The (account, deal)
// uniqueness invariant lives in the store, not here.
type WishlistStore interface {
	ListWishlistByAccount(ctx context.Context, accountID string) ([]model.WishlistEntry, error)
	InsertWishlistEntry(ctx context.Context, entry *model.WishlistEntry) error
	DeleteWishlistEntry(ctx context.Context, accountID, dealID string) (int64, error)
}

// Tracker records observability events. Implementations are
// fire-and-forget; a tracker failure never reaches the caller.
type Tracker interface {
	Record(name string, attributes map[string]string)
}

// NoopTracker discards all events.
type NoopTracker struct{}

// Record is a no-op.
func (NoopTracker) Record(name string, attributes map[string]string) {}

// WishlistService resolves wishlist views and governs entry creation
// and removal.
type WishlistService struct {
	catalog     CatalogStore
	store       WishlistStore
	tracker     Tracker
	metrics     metrics.Recorder
	logger      *slog.Logger
	concurrency int
	now         func() time.Time
}

// NewWishlistService creates a new WishlistService.
// concurrency bounds the per-entry resolution fan-out during List.
func NewWishlistService(catalog CatalogStore, store WishlistStore, tracker Tracker, logger *slog.Logger, recorder metrics.Recorder, concurrency int) *WishlistService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if tracker == nil {
		tracker = NoopTracker{}
	}
	if concurrency <= 0 {
		concurrency = defaultResolveConcurrency
	}
	return &WishlistService{
		catalog:     catalog,
		store:       store,
		tracker:     tracker,
		metrics:     recorder,
		logger:      logger,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// ResolveStatus determines the freshness of one deal.
// A missing, deactivated, or past-expiry deal resolves expired with no
// payload; none of those are errors. Only a failed catalog read returns
// a non-nil error.
func (s *WishlistService) ResolveStatus(ctx context.Context, dealID string) (model.DealStatus, *model.Deal, error) {
	deal, err := s.catalog.GetDeal(ctx, dealID)
	if err != nil {
		if errors.Is(err, repository.ErrDealNotFound) {
			return model.DealStatusExpired, nil, nil
		}
		return model.DealStatusUnknown, nil, fmt.Errorf("resolve status for %s: %w", dealID, err)
	}

	if status := deal.StatusAt(s.now()); status != model.DealStatusActive {
		return status, nil, nil
	}
	return model.DealStatusActive, deal, nil
}

// ResolveBestPrice determines the lowest observed price for a deal.
// Returns (nil, nil) when no observations exist; zero is a real price.
// Callers only invoke this for deals already resolved active.
func (s *WishlistService) ResolveBestPrice(ctx context.Context, dealID string) (*int64, error) {
	observations, err := s.catalog.GetPrices(ctx, dealID)
	if err != nil {
		return nil, fmt.Errorf("resolve best price for %s: %w", dealID, err)
	}

	best, ok := model.BestPrice(observations)
	if !ok {
		return nil, nil
	}
	return &best, nil
}

// ListEntries builds the resolved wishlist view for an account.
// Entries resolve independently and concurrently; results are
// reassembled in store order. A single entry's catalog failure degrades
// that entry to status unknown instead of aborting the list.
func (s *WishlistService) ListEntries(ctx context.Context, accountID string) ([]model.ResolvedEntry, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveListResolveDuration(time.Since(start))
	}()

	entries, err := s.store.ListWishlistByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist entries: %w", err)
	}

	resolved := make([]model.ResolvedEntry, len(entries))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			resolved[i] = s.resolveEntry(ctx, entry)
			return nil
		})
	}
	// Resolution failures degrade individual entries; the group never errors.
	_ = g.Wait()

	for _, view := range resolved {
		s.metrics.IncEntryResolved(string(view.Status))
	}

	return resolved, nil
}

// resolveEntry derives the view for one wishlist entry.
func (s *WishlistService) resolveEntry(ctx context.Context, entry model.WishlistEntry) model.ResolvedEntry {
	view := model.ResolvedEntry{
		DealID:       entry.DealID,
		AlertEnabled: entry.AlertEnabled,
		CreatedAt:    entry.CreatedAt,
	}

	status, _, err := s.ResolveStatus(ctx, entry.DealID)
	if err != nil {
		s.logger.Warn("wishlist entry resolution degraded",
			"deal_id", entry.DealID,
			"error", err,
		)
		view.Status = model.DealStatusUnknown
		return view
	}

	view.Status = status
	if status != model.DealStatusActive {
		// An expired or missing deal has no meaningful price.
		return view
	}

	best, err := s.ResolveBestPrice(ctx, entry.DealID)
	if err != nil {
		s.logger.Warn("wishlist entry resolution degraded",
			"deal_id", entry.DealID,
			"error", err,
		)
		view.Status = model.DealStatusUnknown
		return view
	}

	view.BestPrice = best
	return view
}

// AddEntryInput defines input for saving a deal.
type AddEntryInput struct {
	AccountID    string
	Role         model.Role
	DealID       string
	AlertEnabled bool
}

// AddEntry saves a deal to the account's wishlist.
// Alert opt-in is gated on the subscriber tier before any storage write.
// Re-adding an already-saved deal is an idempotent success.
func (s *WishlistService) AddEntry(ctx context.Context, input AddEntryInput) error {
	if _, err := uuid.Parse(input.DealID); err != nil {
		return ErrInvalidDealID
	}

	if input.AlertEnabled && !input.Role.IsSubscriber() {
		return ErrAlertsRequireSubscription
	}

	entry := &model.WishlistEntry{
		ID:           uuid.NewString(),
		AccountID:    input.AccountID,
		DealID:       input.DealID,
		AlertEnabled: input.AlertEnabled,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.store.InsertWishlistEntry(ctx, entry); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEntry):
			// Already saved: the desired state holds, report success.
			s.metrics.IncWishlistDuplicateAdd()
			return nil
		case errors.Is(err, repository.ErrDealMissing):
			return ErrDealNotFound
		default:
			return fmt.Errorf("add wishlist entry: %w", err)
		}
	}

	s.metrics.IncWishlistAdded()
	s.tracker.Record(model.EventWishlistAdd, map[string]string{
		"account_id": input.AccountID,
		"deal_id":    input.DealID,
	})

	return nil
}

// RemoveEntry deletes the (account, deal) entry if present.
// Removing an absent entry is success: the desired state already holds.
func (s *WishlistService) RemoveEntry(ctx context.Context, accountID, dealID string) error {
	if _, err := uuid.Parse(dealID); err != nil {
		return ErrInvalidDealID
	}

	removed, err := s.store.DeleteWishlistEntry(ctx, accountID, dealID)
	if err != nil {
		return fmt.Errorf("remove wishlist entry: %w", err)
	}

	if removed > 0 {
		s.metrics.IncWishlistRemoved()
	}
	s.tracker.Record(model.EventWishlistRemove, map[string]string{
		"account_id": accountID,
		"deal_id":    dealID,
	})

	return nil
}
