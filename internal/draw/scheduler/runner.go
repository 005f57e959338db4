package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/pasanaku/pasanaku/internal/draw"
	"github.com/pasanaku/pasanaku/internal/draw/events"
	"github.com/pasanaku/pasanaku/internal/models"
)

// run is the per-session tick loop. One timer, one goroutine; the next tick
// is only scheduled after the previous persistence write completed, so any
// reader observes current_step monotonically.
func (s *Scheduler) run(ctx context.Context, session *models.DrawSession) {
	timer := s.clock.NewTimer(s.cfg.RevealInterval)
	defer stopAndDrainTimer(timer)

	for step := session.CurrentStep + 1; step <= session.TotalSteps; step++ {
		select {
		case <-ctx.Done():
			log.Info().
				Str("session_id", session.ID.String()).
				Int("next_step", step).
				Msg("runner stopped before completion")
			return
		case <-timer.Chan():
		}

		updated, err := s.advanceWithRetry(ctx, session, step)
		if err != nil {
			if errors.Is(err, draw.ErrStaleStep) {
				// Another process owns this session now. Back off quietly.
				log.Warn().
					Str("session_id", session.ID.String()).
					Int("step", step).
					Msg("step advance lost to another writer, stopping runner")
				return
			}
			if ctx.Err() != nil {
				return
			}
			s.failSession(ctx, session, err)
			return
		}
		session = updated

		winner := session.FinalPositions[step-1]
		s.emit(ctx, session.GroupID, events.NewDrawProgress(session, winner, s.clock.Now()))

		log.Debug().
			Str("session_id", session.ID.String()).
			Int("current_step", session.CurrentStep).
			Str("member_id", winner.MemberID.String()).
			Msg("revealed position")

		timer.Reset(s.cfg.RevealInterval)
	}

	completed, err := s.completeWithRetry(ctx, session)
	if err != nil {
		if errors.Is(err, draw.ErrStaleStep) {
			return
		}
		if ctx.Err() != nil {
			return
		}
		s.failSession(ctx, session, err)
		return
	}

	s.emit(ctx, completed.GroupID, events.NewDrawCompleted(completed, s.clock.Now()))

	log.Info().
		Str("session_id", completed.ID.String()).
		Str("group_id", completed.GroupID.String()).
		Msg("draw session completed")
}

// advanceWithRetry persists one step, retrying transient store failures with
// linear backoff up to MaxRetries before giving up.
func (s *Scheduler) advanceWithRetry(ctx context.Context, session *models.DrawSession, step int) (*models.DrawSession, error) {
	var lastErr error
	for attempt := 0; attempt <= s.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := s.sleep(ctx, time.Duration(attempt)*s.cfg.RetryBackoff); err != nil {
				return nil, err
			}
			log.Warn().
				Str("session_id", session.ID.String()).
				Int("step", step).
				Int("attempt", attempt).
				Msg("retrying step persistence")
		}

		updated, err := s.store.AdvanceStep(ctx, session.ID, step)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, draw.ErrStaleStep) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (s *Scheduler) completeWithRetry(ctx context.Context, session *models.DrawSession) (*models.DrawSession, error) {
	var lastErr error
	for attempt := 0; attempt <= s.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := s.sleep(ctx, time.Duration(attempt)*s.cfg.RetryBackoff); err != nil {
				return nil, err
			}
		}

		completed, err := s.store.CompleteSession(ctx, session.ID)
		if err == nil {
			return completed, nil
		}
		if errors.Is(err, draw.ErrStaleStep) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// failSession transitions the session to FAILED and emits the terminal
// failure event so subscribers are not left waiting indefinitely.
func (s *Scheduler) failSession(ctx context.Context, session *models.DrawSession, cause error) {
	log.Error().
		Err(cause).
		Str("session_id", session.ID.String()).
		Msg("tick persistence retries exhausted, failing session")

	failed, err := s.store.FailSession(ctx, session.ID)
	if err != nil {
		// The store is down hard. Recover will resume the session once it
		// comes back; subscribers reconnecting meanwhile see IN_PROGRESS.
		log.Error().
			Err(err).
			Str("session_id", session.ID.String()).
			Msg("failed to persist FAILED status")
		failed = session
		failed.Status = models.SessionStatusFailed
	}

	s.emit(ctx, failed.GroupID, events.NewDrawFailed(failed, "draw could not be persisted", s.clock.Now()))
}

func (s *Scheduler) sleep(ctx context.Context, d time.Duration) error {
	timer := s.clock.NewTimer(d)
	defer stopAndDrainTimer(timer)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.Chan():
		return nil
	}
}

// stopAndDrainTimer stops a timer and drains its channel so no goroutine
// leaks a pending tick.
func stopAndDrainTimer(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}
