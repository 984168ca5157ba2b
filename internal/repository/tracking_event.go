package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dealdrop/dealdrop/internal/model"
)

// TrackingEventRepository provides database access for tracking events.
type TrackingEventRepository struct {
	repo *Repository
}

// NewTrackingEventRepository creates a new TrackingEventRepository.
func NewTrackingEventRepository(repo *Repository) *TrackingEventRepository {
	return &TrackingEventRepository{repo: repo}
}

// BulkInsert inserts multiple tracking events with idempotency via
// ON CONFLICT DO NOTHING on the stream-derived event_id.
func (r *TrackingEventRepository) BulkInsert(ctx context.Context, events []*model.TrackingEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch := &pgx.Batch{}

	query := `
		INSERT INTO tracking_events (id, event_id, name, attributes, occurred_at, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (event_id) DO NOTHING
	`

	for _, event := range events {
		attrs, err := json.Marshal(event.Attributes)
		if err != nil {
			return fmt.Errorf("marshal attributes for %s: %w", event.EventID, err)
		}
		batch.Queue(query,
			event.ID,
			event.EventID,
			event.Name,
			attrs,
			event.OccurredAt,
		)
	}

	results := r.repo.pool.SendBatch(ctx, batch)
	defer results.Close()

	// Check for errors in batch execution
	for i := 0; i < len(events); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch insert event %d: %w", i, err)
		}
	}

	return nil
}
