// Package tracking provides wishlist event capture and processing.
package tracking

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dealdrop/dealdrop/internal/metrics"
)

const (
	// StreamKey is the Redis stream for tracking events.
	StreamKey = "stream:tracking_events"

	// DeadLetterStreamKey is the Redis stream for poison messages.
	DeadLetterStreamKey = "stream:tracking_events:dlq"

	// MaxStreamLen is the approximate max length of the stream.
	MaxStreamLen = 100000

	// PublishTimeout is the max time to wait for Redis publish.
	PublishTimeout = 100 * time.Millisecond
)

// EventPayload is the compressed event format for the Redis stream.
type EventPayload struct {
	Name       string            `json:"n"`            // event name
	Attributes map[string]string `json:"a,omitempty"`  // event attributes
	OccurredAt int64             `json:"t"`            // Unix milliseconds
}

// Publisher enqueues tracking events to the Redis stream.
type Publisher struct {
	redis   *redis.Client
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewPublisher creates a new tracking event publisher.
func NewPublisher(client *redis.Client, logger *slog.Logger, recorder metrics.Recorder) *Publisher {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Publisher{
		redis:   client,
		logger:  logger.With("component", "tracking.publisher"),
		metrics: recorder,
	}
}

// Publish adds a tracking event to the stream synchronously.
func (p *Publisher) Publish(ctx context.Context, event EventPayload) (string, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("marshal event: %w", err)
	}

	result, err := p.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamKey,
		MaxLen: MaxStreamLen,
		Approx: true, // ~MAXLEN for performance
		ID:     "*",  // Auto-generate ID
		Values: map[string]interface{}{
			"payload": string(data),
		},
	}).Result()

	if err != nil {
		return "", fmt.Errorf("xadd: %w", err)
	}

	return result, nil
}

// PublishAsync publishes without blocking the caller.
// Errors are logged but not returned (fire-and-forget).
func (p *Publisher) PublishAsync(event EventPayload) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), PublishTimeout)
		defer cancel()

		streamID, err := p.Publish(ctx, event)
		if err != nil {
			p.logger.Warn("failed to publish tracking event",
				"event_name", event.Name,
				"error", err,
			)
			p.metrics.IncTrackingEventPublished("dropped")
			return
		}

		p.logger.Debug("tracking event published",
			"event_name", event.Name,
			"stream_id", streamID,
		)
		p.metrics.IncTrackingEventPublished("success")
	}()
}

// Record implements the service tracker contract. The event is stamped
// with the current time and enqueued without blocking the caller.
func (p *Publisher) Record(name string, attributes map[string]string) {
	p.PublishAsync(EventPayload{
		Name:       name,
		Attributes: attributes,
		OccurredAt: time.Now().UnixMilli(),
	})
}
