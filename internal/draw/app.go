package draw

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/pasanaku/pasanaku/internal/draw/events"
	"github.com/pasanaku/pasanaku/internal/draw/shuffle"
	"github.com/pasanaku/pasanaku/internal/models"
)

// SessionRepository defines what the app layer needs from the session store.
type SessionRepository interface {
	CreateSession(ctx context.Context, req CreateSessionRequest) (*models.DrawSession, error)
	GetSession(ctx context.Context, id uuid.UUID) (*models.DrawSession, error)
	GetLatestSessionByGroup(ctx context.Context, groupID uuid.UUID) (*models.DrawSession, error)
	ListInProgressSessions(ctx context.Context) ([]*models.DrawSession, error)
	AdvanceStep(ctx context.Context, id uuid.UUID, step int) (*models.DrawSession, error)
	CompleteSession(ctx context.Context, id uuid.UUID, endTime time.Time) (*models.DrawSession, error)
	FailSession(ctx context.Context, id uuid.UUID, endTime time.Time) (*models.DrawSession, error)
	InsertOutboxEvent(ctx context.Context, event events.Event) error
}

// MembershipSource is the read-only external collaborator that owns group
// membership. The member list must be stable for the duration of one
// StartDraw call.
type MembershipSource interface {
	GetGroup(ctx context.Context, groupID uuid.UUID) (*models.Group, error)
	ListMembers(ctx context.Context, groupID uuid.UUID) ([]models.Member, error)
	IsMember(ctx context.Context, groupID, memberID uuid.UUID) (bool, error)
}

// App owns the draw engine's business rules: start invariants, the
// compute-once-reveal-later split, and status queries. Authentication is an
// external collaborator; callers arrive here already identified.
type App struct {
	repo       SessionRepository
	membership MembershipSource
	clock      clockwork.Clock
}

func NewApp(repo SessionRepository, membership MembershipSource, clock clockwork.Clock) *App {
	return &App{
		repo:       repo,
		membership: membership,
		clock:      clock,
	}
}

// StartDraw computes the full payout order and persists the session in a
// single atomic insert. Only the revelation is incremental; the order is
// committed here and never recomputed.
func (a *App) StartDraw(ctx context.Context, groupID uuid.UUID) (*models.DrawSession, error) {
	group, err := a.membership.GetGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("group lookup failed: %w", err)
	}
	if !group.MembershipFinal {
		return nil, fmt.Errorf("membership is not final for group %s: %w", groupID, ErrGroupNotEligible)
	}

	members, err := a.membership.ListMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("membership lookup failed: %w", err)
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("group %s has no eligible members: %w", groupID, ErrInvalidInput)
	}

	seed, err := shuffle.NewSeed()
	if err != nil {
		return nil, fmt.Errorf("failed to seed shuffle: %w", err)
	}
	order, err := shuffle.Shuffle(members, seed)
	if err != nil {
		if errors.Is(err, shuffle.ErrEmptyInput) {
			return nil, ErrInvalidInput
		}
		return nil, fmt.Errorf("shuffle failed: %w", err)
	}

	session, err := a.repo.CreateSession(ctx, CreateSessionRequest{
		ID:             uuid.New(),
		GroupID:        groupID,
		TotalSteps:     len(members),
		FinalPositions: order,
		StartTime:      a.clock.Now(),
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("session_id", session.ID.String()).
		Str("group_id", groupID.String()).
		Int("total_steps", session.TotalSteps).
		Msg("draw session started")

	return session, nil
}

// GetStatus returns the latest persisted session for the group.
func (a *App) GetStatus(ctx context.Context, groupID uuid.UUID) (*models.DrawSession, error) {
	session, err := a.repo.GetLatestSessionByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Authorize verifies the requester belongs to the group before a subscribe
// or status read is honored.
func (a *App) Authorize(ctx context.Context, groupID, memberID uuid.UUID) error {
	ok, err := a.membership.IsMember(ctx, groupID, memberID)
	if err != nil {
		return fmt.Errorf("membership check failed: %w", err)
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}

// AdvanceStep persists one reveal step. Scheduler use only.
func (a *App) AdvanceStep(ctx context.Context, sessionID uuid.UUID, step int) (*models.DrawSession, error) {
	return a.repo.AdvanceStep(ctx, sessionID, step)
}

// CompleteSession transitions the session to COMPLETED. Scheduler use only.
func (a *App) CompleteSession(ctx context.Context, sessionID uuid.UUID) (*models.DrawSession, error) {
	return a.repo.CompleteSession(ctx, sessionID, a.clock.Now())
}

// FailSession transitions the session to FAILED after tick retries are
// exhausted. Scheduler use only.
func (a *App) FailSession(ctx context.Context, sessionID uuid.UUID) (*models.DrawSession, error) {
	return a.repo.FailSession(ctx, sessionID, a.clock.Now())
}

// ListInProgressSessions returns sessions to resume after a restart.
func (a *App) ListInProgressSessions(ctx context.Context) ([]*models.DrawSession, error) {
	return a.repo.ListInProgressSessions(ctx)
}

// RecordEvent appends an event to the durable outbox for external consumers.
func (a *App) RecordEvent(ctx context.Context, event events.Event) error {
	return a.repo.InsertOutboxEvent(ctx, event)
}
