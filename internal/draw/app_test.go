package draw

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pasanaku/pasanaku/internal/draw/events"
	"github.com/pasanaku/pasanaku/internal/models"
)

type fakeRepo struct {
	sessions map[uuid.UUID]*models.DrawSession
	byGroup  map[uuid.UUID]*models.DrawSession
	created  []CreateSessionRequest

	createErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		sessions: make(map[uuid.UUID]*models.DrawSession),
		byGroup:  make(map[uuid.UUID]*models.DrawSession),
	}
}

func (f *fakeRepo) CreateSession(ctx context.Context, req CreateSessionRequest) (*models.DrawSession, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if existing, ok := f.byGroup[req.GroupID]; ok && existing.Status == models.SessionStatusInProgress {
		return nil, ErrSessionAlreadyActive
	}
	f.created = append(f.created, req)
	start := req.StartTime
	s := &models.DrawSession{
		ID:             req.ID,
		GroupID:        req.GroupID,
		Status:         models.SessionStatusInProgress,
		TotalSteps:     req.TotalSteps,
		CurrentStep:    0,
		FinalPositions: req.FinalPositions,
		StartTime:      &start,
	}
	f.sessions[s.ID] = s
	f.byGroup[s.GroupID] = s
	return s, nil
}

func (f *fakeRepo) GetSession(ctx context.Context, id uuid.UUID) (*models.DrawSession, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, ErrNoSession
	}
	return s, nil
}

func (f *fakeRepo) GetLatestSessionByGroup(ctx context.Context, groupID uuid.UUID) (*models.DrawSession, error) {
	s, ok := f.byGroup[groupID]
	if !ok {
		return nil, ErrNoSession
	}
	return s, nil
}

func (f *fakeRepo) ListInProgressSessions(ctx context.Context) ([]*models.DrawSession, error) {
	var out []*models.DrawSession
	for _, s := range f.sessions {
		if s.Status == models.SessionStatusInProgress {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRepo) AdvanceStep(ctx context.Context, id uuid.UUID, step int) (*models.DrawSession, error) {
	s, ok := f.sessions[id]
	if !ok || s.CurrentStep != step-1 || s.Status != models.SessionStatusInProgress {
		return nil, ErrStaleStep
	}
	s.CurrentStep = step
	return s, nil
}

func (f *fakeRepo) CompleteSession(ctx context.Context, id uuid.UUID, endTime time.Time) (*models.DrawSession, error) {
	s, ok := f.sessions[id]
	if !ok || s.Status != models.SessionStatusInProgress {
		return nil, ErrStaleStep
	}
	s.Status = models.SessionStatusCompleted
	s.EndTime = &endTime
	return s, nil
}

func (f *fakeRepo) FailSession(ctx context.Context, id uuid.UUID, endTime time.Time) (*models.DrawSession, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, ErrStaleStep
	}
	s.Status = models.SessionStatusFailed
	s.EndTime = &endTime
	return s, nil
}

func (f *fakeRepo) InsertOutboxEvent(ctx context.Context, event events.Event) error {
	return nil
}

type fakeMembership struct {
	group   *models.Group
	members []models.Member

	groupErr error
}

func (f *fakeMembership) GetGroup(ctx context.Context, groupID uuid.UUID) (*models.Group, error) {
	if f.groupErr != nil {
		return nil, f.groupErr
	}
	return f.group, nil
}

func (f *fakeMembership) ListMembers(ctx context.Context, groupID uuid.UUID) ([]models.Member, error) {
	return f.members, nil
}

func (f *fakeMembership) IsMember(ctx context.Context, groupID, memberID uuid.UUID) (bool, error) {
	for _, m := range f.members {
		if m.ID == memberID {
			return true, nil
		}
	}
	return false, nil
}

func finalGroup(memberCount int) (*fakeMembership, uuid.UUID) {
	groupID := uuid.New()
	members := make([]models.Member, memberCount)
	for i := range members {
		members[i] = models.Member{ID: uuid.New(), DisplayName: "member"}
	}
	return &fakeMembership{
		group:   &models.Group{ID: groupID, Name: "pasanaku", MembershipFinal: true},
		members: members,
	}, groupID
}

func TestStartDrawCommitsFullOrder(t *testing.T) {
	repo := newFakeRepo()
	membership, groupID := finalGroup(5)
	app := NewApp(repo, membership, clockwork.NewFakeClock())

	session, err := app.StartDraw(context.Background(), groupID)
	require.NoError(t, err)

	assert.Equal(t, models.SessionStatusInProgress, session.Status)
	assert.Equal(t, 5, session.TotalSteps)
	assert.Equal(t, 0, session.CurrentStep)
	require.Len(t, session.FinalPositions, 5)

	// The order is committed at creation, not dealt out incrementally.
	require.Len(t, repo.created, 1)
	assert.Len(t, repo.created[0].FinalPositions, 5)
}

func TestStartDrawRejectsNonFinalMembership(t *testing.T) {
	repo := newFakeRepo()
	membership, groupID := finalGroup(3)
	membership.group.MembershipFinal = false
	app := NewApp(repo, membership, clockwork.NewFakeClock())

	_, err := app.StartDraw(context.Background(), groupID)
	assert.ErrorIs(t, err, ErrGroupNotEligible)
	assert.Empty(t, repo.created)
}

func TestStartDrawRejectsEmptyGroup(t *testing.T) {
	repo := newFakeRepo()
	membership, groupID := finalGroup(0)
	app := NewApp(repo, membership, clockwork.NewFakeClock())

	_, err := app.StartDraw(context.Background(), groupID)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestStartDrawSecondStartConflicts(t *testing.T) {
	repo := newFakeRepo()
	membership, groupID := finalGroup(4)
	app := NewApp(repo, membership, clockwork.NewFakeClock())

	_, err := app.StartDraw(context.Background(), groupID)
	require.NoError(t, err)

	_, err = app.StartDraw(context.Background(), groupID)
	assert.ErrorIs(t, err, ErrSessionAlreadyActive)
}

func TestGetStatusNoSession(t *testing.T) {
	repo := newFakeRepo()
	membership, groupID := finalGroup(3)
	app := NewApp(repo, membership, clockwork.NewFakeClock())

	_, err := app.GetStatus(context.Background(), groupID)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestAuthorize(t *testing.T) {
	repo := newFakeRepo()
	membership, groupID := finalGroup(2)
	app := NewApp(repo, membership, clockwork.NewFakeClock())

	err := app.Authorize(context.Background(), groupID, membership.members[0].ID)
	assert.NoError(t, err)

	err = app.Authorize(context.Background(), groupID, uuid.New())
	assert.ErrorIs(t, err, ErrUnauthorized)
}
