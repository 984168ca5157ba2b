package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dealdrop/dealdrop/internal/model"
)

// Common errors for catalog access.
var (
	ErrDealNotFound = errors.New("deal not found")
)

// GetDeal retrieves a deal by its ID. Returns ErrDealNotFound when the
// catalog holds no such deal; callers treat that as a normal outcome.
func (r *Repository) GetDeal(ctx context.Context, id string) (*model.Deal, error) {
	query := `
		SELECT id, title, is_active, expires_at, created_at
		FROM deals
		WHERE id = $1
	`

	var deal model.Deal
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&deal.ID,
		&deal.Title,
		&deal.IsActive,
		&deal.ExpiresAt,
		&deal.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDealNotFound
		}
		return nil, fmt.Errorf("failed to get deal: %w", err)
	}

	return &deal, nil
}

// GetPrices retrieves all price observations for a deal.
// No ordering is applied; the price resolver computes the minimum itself.
func (r *Repository) GetPrices(ctx context.Context, dealID string) ([]model.PriceObservation, error) {
	query := `
		SELECT id, deal_id, amount, created_at
		FROM prices
		WHERE deal_id = $1
	`

	rows, err := r.pool.Query(ctx, query, dealID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}
	defer rows.Close()

	var observations []model.PriceObservation
	for rows.Next() {
		var obs model.PriceObservation
		if err := rows.Scan(&obs.ID, &obs.DealID, &obs.Amount, &obs.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan price: %w", err)
		}
		observations = append(observations, obs)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating prices: %w", err)
	}

	return observations, nil
}
