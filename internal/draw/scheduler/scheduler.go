// Package scheduler drives the paced reveal of committed draw orders. Each
// active session owns one goroutine and one timer; ticks within a session are
// strictly sequential, sessions across groups run concurrently.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/pasanaku/pasanaku/internal/draw/events"
	"github.com/pasanaku/pasanaku/internal/models"
)

// SessionStore defines what the scheduler needs from the draw app. All writes
// are single-row and guarded; the scheduler is the only mutator of step and
// terminal state.
type SessionStore interface {
	AdvanceStep(ctx context.Context, sessionID uuid.UUID, step int) (*models.DrawSession, error)
	CompleteSession(ctx context.Context, sessionID uuid.UUID) (*models.DrawSession, error)
	FailSession(ctx context.Context, sessionID uuid.UUID) (*models.DrawSession, error)
	ListInProgressSessions(ctx context.Context) ([]*models.DrawSession, error)
	RecordEvent(ctx context.Context, event events.Event) error
}

// Broadcaster fans an event out to live subscribers. Must not block: slow
// connections are the hub's problem, never the tick loop's.
type Broadcaster interface {
	Broadcast(groupID uuid.UUID, event events.Event)
}

// Config controls reveal pacing and tick persistence retries.
type Config struct {
	RevealInterval time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
}

func DefaultConfig() Config {
	return Config{
		RevealInterval: time.Second,
		MaxRetries:     3,
		RetryBackoff:   500 * time.Millisecond,
	}
}

// Scheduler owns one reveal runner per active session. The registry is
// created at service start and torn down on Stop; there is no ambient global
// state.
type Scheduler struct {
	store       SessionStore
	broadcaster Broadcaster
	clock       clockwork.Clock
	cfg         Config

	// Runners live until their session terminates or Stop is called; they
	// are never bound to a caller's request context.
	rootCtx    context.Context
	rootCancel context.CancelFunc

	mu      sync.Mutex
	runners map[uuid.UUID]context.CancelFunc
	wg      sync.WaitGroup
}

func New(store SessionStore, broadcaster Broadcaster, clock clockwork.Clock, cfg Config) *Scheduler {
	if cfg.RevealInterval <= 0 {
		cfg.RevealInterval = time.Second
	}
	rootCtx, rootCancel := context.WithCancel(context.Background())
	return &Scheduler{
		store:       store,
		broadcaster: broadcaster,
		clock:       clock,
		cfg:         cfg,
		rootCtx:     rootCtx,
		rootCancel:  rootCancel,
		runners:     make(map[uuid.UUID]context.CancelFunc),
	}
}

// Launch announces the session and starts its reveal runner. Launching a
// session that is already running is a no-op; the store's one-active-session
// invariant makes that a restart artifact, not a second live draw.
func (s *Scheduler) Launch(ctx context.Context, session *models.DrawSession) {
	s.mu.Lock()
	if _, exists := s.runners[session.ID]; exists {
		s.mu.Unlock()
		log.Warn().Str("session_id", session.ID.String()).Msg("session already has a runner")
		return
	}
	runnerCtx, cancel := context.WithCancel(s.rootCtx)
	s.runners[session.ID] = cancel
	s.mu.Unlock()

	s.emit(ctx, session.GroupID, events.NewDrawStarted(session, s.clock.Now()))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.remove(session.ID)
		s.run(runnerCtx, session)
	}()

	log.Info().
		Str("session_id", session.ID.String()).
		Str("group_id", session.GroupID.String()).
		Int("current_step", session.CurrentStep).
		Int("total_steps", session.TotalSteps).
		Msg("reveal runner launched")
}

// Recover resumes every persisted IN_PROGRESS session after a process
// restart. Policy: resume from the persisted current_step at the normal
// interval. The committed order is read back from the store; the shuffle is
// never re-run.
func (s *Scheduler) Recover(ctx context.Context) error {
	sessions, err := s.store.ListInProgressSessions(ctx)
	if err != nil {
		return err
	}
	for _, session := range sessions {
		log.Info().
			Str("session_id", session.ID.String()).
			Int("current_step", session.CurrentStep).
			Msg("resuming in-progress session")
		s.Launch(ctx, session)
	}
	return nil
}

// Stop cancels all runners and waits for them to drain. Sessions stay
// IN_PROGRESS in the store and are picked up by Recover on the next start.
func (s *Scheduler) Stop() {
	s.rootCancel()
	s.wg.Wait()
}

// ActiveSessions reports how many runners are currently live.
func (s *Scheduler) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.runners)
}

func (s *Scheduler) remove(sessionID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cancel, exists := s.runners[sessionID]; exists {
		cancel()
		delete(s.runners, sessionID)
	}
}

// emit broadcasts to live subscribers and appends to the durable outbox. The
// broadcast is fire-and-forget; an outbox write failure is logged but does
// not fail the tick, since the session row itself is already persisted.
func (s *Scheduler) emit(ctx context.Context, groupID uuid.UUID, event events.Event) {
	s.broadcaster.Broadcast(groupID, event)
	if err := s.store.RecordEvent(ctx, event); err != nil {
		log.Error().
			Err(err).
			Str("session_id", event.SessionID).
			Str("event_type", string(event.Type)).
			Msg("failed to record event in outbox")
	}
}
