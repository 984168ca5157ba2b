package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/dealdrop/dealdrop/internal/model"
)

// Common errors for wishlist store operations.
var (
	// ErrDuplicateEntry means the (account, deal) pair is already saved.
	// The unique index on wishlist_entries enforces this; there is no
	// application-level check-then-insert.
	ErrDuplicateEntry = errors.New("wishlist entry already exists")
	// ErrDealMissing means the insert referenced a deal the catalog does
	// not hold.
	ErrDealMissing = errors.New("referenced deal does not exist")
)

// ListWishlistByAccount retrieves all wishlist entries for an account in
// insertion order.
func (r *Repository) ListWishlistByAccount(ctx context.Context, accountID string) ([]model.WishlistEntry, error) {
	query := `
		SELECT id, account_id, deal_id, alert_enabled, created_at
		FROM wishlist_entries
		WHERE account_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist entries: %w", err)
	}
	defer rows.Close()

	var entries []model.WishlistEntry
	for rows.Next() {
		var entry model.WishlistEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.AccountID,
			&entry.DealID,
			&entry.AlertEnabled,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan wishlist entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wishlist entries: %w", err)
	}

	return entries, nil
}

// InsertWishlistEntry inserts a new wishlist entry.
// Returns ErrDuplicateEntry when the (account, deal) pair already exists
// and ErrDealMissing when the deal reference is unknown; any other
// failure is a genuine storage fault.
func (r *Repository) InsertWishlistEntry(ctx context.Context, entry *model.WishlistEntry) error {
	query := `
		INSERT INTO wishlist_entries (id, account_id, deal_id, alert_enabled, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.AccountID,
		entry.DealID,
		entry.AlertEnabled,
		entry.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEntry
		}
		if isForeignKeyViolation(err) {
			return ErrDealMissing
		}
		return fmt.Errorf("failed to insert wishlist entry: %w", err)
	}

	return nil
}

// DeleteWishlistEntry deletes the entry matching both account and deal.
// Returns the number of rows removed (0 or 1); deleting a non-existent
// entry is not an error.
func (r *Repository) DeleteWishlistEntry(ctx context.Context, accountID, dealID string) (int64, error) {
	query := `
		DELETE FROM wishlist_entries
		WHERE account_id = $1 AND deal_id = $2
	`

	result, err := r.pool.Exec(ctx, query, accountID, dealID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete wishlist entry: %w", err)
	}

	return result.RowsAffected(), nil
}
