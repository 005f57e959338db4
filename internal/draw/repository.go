package draw

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pasanaku/pasanaku/internal/draw/db"
	"github.com/pasanaku/pasanaku/internal/draw/events"
	"github.com/pasanaku/pasanaku/internal/models"
)

// ErrStaleStep is returned when a guarded step advance matches no row: the
// session is no longer IN_PROGRESS or another writer already advanced it.
var ErrStaleStep = errors.New("draw: stale step advance")

const uniqueViolation = "23505"

// Repository is the sole writer of draw session rows. All mutation is
// single-row, keyed by session id; the one-active-session invariant is
// enforced by a partial unique index, not by read-then-write checks.
type Repository struct {
	queries *db.Queries
}

func NewRepository(queries *db.Queries) *Repository {
	return &Repository{queries: queries}
}

// CreateSession inserts the session as IN_PROGRESS with its full committed
// order. A concurrent start for the same group loses the race on the partial
// unique index and surfaces as ErrSessionAlreadyActive.
func (r *Repository) CreateSession(ctx context.Context, req CreateSessionRequest) (*models.DrawSession, error) {
	positions, err := json.Marshal(req.FinalPositions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal final positions: %w", err)
	}

	row, err := r.queries.CreateDrawSession(ctx, db.CreateDrawSessionParams{
		ID:             req.ID,
		GroupID:        req.GroupID,
		Status:         db.SessionStatusINPROGRESS,
		TotalSteps:     int32(req.TotalSteps),
		CurrentStep:    0,
		FinalPositions: positions,
		StartTime:      sql.NullTime{Time: req.StartTime, Valid: true},
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrSessionAlreadyActive
		}
		return nil, fmt.Errorf("failed to create draw session: %w: %w", ErrStoreUnavailable, err)
	}

	return r.rowToModel(row)
}

func (r *Repository) GetSession(ctx context.Context, id uuid.UUID) (*models.DrawSession, error) {
	row, err := r.queries.GetDrawSession(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to get draw session: %w: %w", ErrStoreUnavailable, err)
	}
	return r.rowToModel(row)
}

// GetLatestSessionByGroup returns the most recent session for the group by
// start time, or ErrNoSession when the group has no draw history.
func (r *Repository) GetLatestSessionByGroup(ctx context.Context, groupID uuid.UUID) (*models.DrawSession, error) {
	row, err := r.queries.GetLatestSessionByGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to get latest session: %w: %w", ErrStoreUnavailable, err)
	}
	return r.rowToModel(row)
}

func (r *Repository) ListInProgressSessions(ctx context.Context) ([]*models.DrawSession, error) {
	rows, err := r.queries.ListInProgressSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list in-progress sessions: %w: %w", ErrStoreUnavailable, err)
	}
	sessions := make([]*models.DrawSession, 0, len(rows))
	for _, row := range rows {
		s, err := r.rowToModel(row)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

// AdvanceStep persists current_step = step iff the persisted value is step-1
// and the session is still IN_PROGRESS, keeping the step strictly monotone.
func (r *Repository) AdvanceStep(ctx context.Context, id uuid.UUID, step int) (*models.DrawSession, error) {
	row, err := r.queries.AdvanceDrawStep(ctx, db.AdvanceDrawStepParams{
		ID:          id,
		CurrentStep: int32(step),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStaleStep
		}
		return nil, fmt.Errorf("failed to advance step: %w: %w", ErrStoreUnavailable, err)
	}
	return r.rowToModel(row)
}

func (r *Repository) CompleteSession(ctx context.Context, id uuid.UUID, endTime time.Time) (*models.DrawSession, error) {
	row, err := r.queries.CompleteDrawSession(ctx, db.CompleteDrawSessionParams{
		ID:      id,
		EndTime: sql.NullTime{Time: endTime, Valid: true},
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStaleStep
		}
		return nil, fmt.Errorf("failed to complete session: %w: %w", ErrStoreUnavailable, err)
	}
	return r.rowToModel(row)
}

func (r *Repository) FailSession(ctx context.Context, id uuid.UUID, endTime time.Time) (*models.DrawSession, error) {
	row, err := r.queries.FailDrawSession(ctx, db.FailDrawSessionParams{
		ID:      id,
		EndTime: sql.NullTime{Time: endTime, Valid: true},
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStaleStep
		}
		return nil, fmt.Errorf("failed to mark session failed: %w: %w", ErrStoreUnavailable, err)
	}
	return r.rowToModel(row)
}

// InsertOutboxEvent records an event for the durable relay in the same store
// as the session rows.
func (r *Repository) InsertOutboxEvent(ctx context.Context, event events.Event) error {
	id, err := uuid.Parse(event.ID)
	if err != nil {
		return fmt.Errorf("failed to parse event id: %w", err)
	}
	sessionID, err := uuid.Parse(event.SessionID)
	if err != nil {
		return fmt.Errorf("failed to parse event session id: %w", err)
	}
	groupID, err := uuid.Parse(event.GroupID)
	if err != nil {
		return fmt.Errorf("failed to parse event group id: %w", err)
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	if err := r.queries.InsertOutboxEvent(ctx, db.InsertOutboxEventParams{
		ID:        id,
		SessionID: sessionID,
		GroupID:   groupID,
		EventType: string(event.Type),
		Payload:   payload,
	}); err != nil {
		return fmt.Errorf("failed to insert outbox event: %w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

func (r *Repository) rowToModel(row db.DrawSession) (*models.DrawSession, error) {
	var positions []models.PositionAssignment
	if err := json.Unmarshal(row.FinalPositions, &positions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal final positions: %w", err)
	}

	s := &models.DrawSession{
		ID:             row.ID,
		GroupID:        row.GroupID,
		Status:         models.SessionStatus(row.Status),
		TotalSteps:     int(row.TotalSteps),
		CurrentStep:    int(row.CurrentStep),
		FinalPositions: positions,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
	if row.StartTime.Valid {
		s.StartTime = &row.StartTime.Time
	}
	if row.EndTime.Valid {
		s.EndTime = &row.EndTime.Time
	}
	return s, nil
}
