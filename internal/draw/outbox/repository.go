// Package outbox relays persisted draw events to NATS JetStream. The
// scheduler writes events to the draw_outbox table in the same store as the
// session rows; the relay ships them out-of-band so external collaborators
// (payment accounting, notifications, reputation) and standalone gateways
// never sit on the tick path.
package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pasanaku/pasanaku/internal/draw/db"
)

// Event is one undelivered outbox row. Payload is the full wire-shape event,
// marshaled once at emit time.
type Event struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	GroupID   uuid.UUID
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

type Repository struct {
	queries *db.Queries
}

func NewRepository(queries *db.Queries) *Repository {
	return &Repository{queries: queries}
}

// FetchUnpublished claims up to limit undelivered events, oldest first.
func (r *Repository) FetchUnpublished(ctx context.Context, limit int32) ([]Event, error) {
	rows, err := r.queries.FetchUnpublishedEvents(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unpublished events: %w", err)
	}
	events := make([]Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, Event{
			ID:        row.ID,
			SessionID: row.SessionID,
			GroupID:   row.GroupID,
			EventType: row.EventType,
			Payload:   row.Payload,
			CreatedAt: row.CreatedAt,
		})
	}
	return events, nil
}

// MarkPublished stamps the row so it is never delivered again.
func (r *Repository) MarkPublished(ctx context.Context, id uuid.UUID) error {
	if err := r.queries.MarkEventPublished(ctx, id); err != nil {
		return fmt.Errorf("failed to mark event published: %w", err)
	}
	return nil
}
