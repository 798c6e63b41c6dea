package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/alturabank/ledger/internal/domain"
	"github.com/alturabank/ledger/internal/usecase"
)

const (
	// ChannelPrefix namespaces the pub/sub channels events are published to.
	ChannelPrefix = "ledger.events."

	defaultBatchSize    = 100
	defaultPollInterval = 2 * time.Second
)

// Publisher drains the transactional outbox and publishes events to Redis
// pub/sub channels, one channel per event type. Events are marked
// published only after a successful publish, so delivery is at least once.
type Publisher struct {
	repo         usecase.OutboxRepository
	client       *redis.Client
	logger       zerolog.Logger
	batchSize    int
	pollInterval time.Duration
}

// NewPublisher creates a new Publisher.
func NewPublisher(repo usecase.OutboxRepository, client *redis.Client, logger zerolog.Logger) *Publisher {
	return &Publisher{
		repo:         repo,
		client:       client,
		logger:       logger,
		batchSize:    defaultBatchSize,
		pollInterval: defaultPollInterval,
	}
}

// WithPollInterval overrides the poll interval.
func (p *Publisher) WithPollInterval(d time.Duration) *Publisher {
	p.pollInterval = d
	return p
}

// Run polls the outbox until the context is cancelled.
func (p *Publisher) Run(ctx context.Context) {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.Drain(ctx); err != nil {
				p.logger.Error().Err(err).Msg("outbox drain failed")
			}
		}
	}
}

// Drain publishes one batch of unpublished events.
func (p *Publisher) Drain(ctx context.Context) error {
	events, err := p.repo.GetUnpublished(ctx, p.batchSize)
	if err != nil {
		return err
	}

	for _, event := range events {
		if err := p.publish(ctx, event); err != nil {
			p.logger.Error().
				Err(err).
				Str("event_id", event.ID).
				Str("event_type", event.EventType).
				Msg("failed to publish event")

			// Leave the event unpublished; the next drain retries it.
			continue
		}

		if err := p.repo.MarkPublished(ctx, event.ID, time.Now().UTC()); err != nil {
			return err
		}
	}

	return nil
}

func (p *Publisher) publish(ctx context.Context, event *domain.OutboxEvent) error {
	payload, err := json.Marshal(map[string]any{
		"id":             event.ID,
		"aggregate_id":   event.AggregateID,
		"aggregate_type": event.AggregateType,
		"event_type":     event.EventType,
		"payload":        event.Payload,
		"created_at":     event.CreatedAt,
	})
	if err != nil {
		return err
	}

	return p.client.Publish(ctx, ChannelPrefix+event.EventType, payload).Err()
}
