package outbox

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// OutboxStore defines what the relay needs from the outbox repository.
type OutboxStore interface {
	FetchUnpublished(ctx context.Context, limit int32) ([]Event, error)
	MarkPublished(ctx context.Context, id uuid.UUID) error
}

// Publisher ships one event to the message bus.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// RelayConfig controls the poll loop.
type RelayConfig struct {
	PollInterval time.Duration
	BatchSize    int32
}

func DefaultRelayConfig() RelayConfig {
	return RelayConfig{
		PollInterval: time.Second,
		BatchSize:    100,
	}
}

// Relay polls the outbox for undelivered events and publishes them in order.
// A publish failure stops the batch so ordering per session is preserved;
// the failed event is retried on the next poll.
type Relay struct {
	store     OutboxStore
	publisher Publisher
	clock     clockwork.Clock
	cfg       RelayConfig
}

func NewRelay(store OutboxStore, publisher Publisher, clock clockwork.Clock, cfg RelayConfig) *Relay {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	return &Relay{
		store:     store,
		publisher: publisher,
		clock:     clock,
		cfg:       cfg,
	}
}

// Run loops until the context is canceled.
func (r *Relay) Run(ctx context.Context) {
	log.Info().
		Dur("poll_interval", r.cfg.PollInterval).
		Int32("batch_size", r.cfg.BatchSize).
		Msg("outbox relay started")

	ticker := r.clock.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("outbox relay shutting down")
			return
		case <-ticker.Chan():
			if n, err := r.Drain(ctx); err != nil {
				log.Error().Err(err).Msg("outbox drain failed")
			} else if n > 0 {
				log.Debug().Int("published", n).Msg("outbox drained")
			}
		}
	}
}

// Drain publishes one batch and returns how many events went out.
func (r *Relay) Drain(ctx context.Context) (int, error) {
	batch, err := r.store.FetchUnpublished(ctx, r.cfg.BatchSize)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, event := range batch {
		if err := r.publisher.Publish(ctx, event); err != nil {
			return published, err
		}
		if err := r.store.MarkPublished(ctx, event.ID); err != nil {
			// The event went out but the stamp failed; the duplicate window
			// on the bus absorbs the redelivery.
			return published, err
		}
		published++
	}
	return published, nil
}
