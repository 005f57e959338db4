// Package events defines the wire shape of draw reveal events. The same
// shape travels over every transport: the in-process hub, the websocket push
// stream, and the JetStream relay.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/pasanaku/pasanaku/internal/models"
)

// Type identifies a draw event.
type Type string

const (
	TypeDrawStarted   Type = "DRAW_STARTED"
	TypeDrawProgress  Type = "DRAW_PROGRESS"
	TypeDrawCompleted Type = "DRAW_COMPLETED"
	TypeDrawFailed    Type = "DRAW_FAILED"
)

// Event is a single reveal event. Fields beyond type/sessionId are populated
// per type; finalPositions only ever appears on DRAW_COMPLETED.
type Event struct {
	ID             string                      `json:"id"`
	Type           Type                        `json:"type"`
	SessionID      string                      `json:"sessionId"`
	GroupID        string                      `json:"groupId"`
	TotalSteps     int                         `json:"totalSteps,omitempty"`
	CurrentStep    int                         `json:"currentStep,omitempty"`
	CurrentWinner  *models.PositionAssignment  `json:"currentWinner,omitempty"`
	FinalPositions []models.PositionAssignment `json:"finalPositions,omitempty"`
	Reason         string                      `json:"reason,omitempty"`
	Timestamp      time.Time                   `json:"timestamp"`
}

func newEvent(t Type, s *models.DrawSession, now time.Time) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      t,
		SessionID: s.ID.String(),
		GroupID:   s.GroupID.String(),
		Timestamp: now,
	}
}

// NewDrawStarted announces a freshly created session. CurrentStep is carried
// so the same shape doubles as the catch-up event for late subscribers.
func NewDrawStarted(s *models.DrawSession, now time.Time) Event {
	e := newEvent(TypeDrawStarted, s, now)
	e.TotalSteps = s.TotalSteps
	e.CurrentStep = s.CurrentStep
	return e
}

// NewDrawProgress announces the reveal of one position.
func NewDrawProgress(s *models.DrawSession, winner models.PositionAssignment, now time.Time) Event {
	e := newEvent(TypeDrawProgress, s, now)
	e.TotalSteps = s.TotalSteps
	e.CurrentStep = s.CurrentStep
	e.CurrentWinner = &winner
	return e
}

// NewDrawCompleted carries the entire committed order. Always the last event
// of a successful session.
func NewDrawCompleted(s *models.DrawSession, now time.Time) Event {
	e := newEvent(TypeDrawCompleted, s, now)
	e.TotalSteps = s.TotalSteps
	e.CurrentStep = s.CurrentStep
	e.FinalPositions = s.FinalPositions
	return e
}

// NewDrawFailed terminates the stream for a session whose persistence retries
// were exhausted, so subscribers are not left waiting.
func NewDrawFailed(s *models.DrawSession, reason string, now time.Time) Event {
	e := newEvent(TypeDrawFailed, s, now)
	e.TotalSteps = s.TotalSteps
	e.CurrentStep = s.CurrentStep
	e.Reason = reason
	return e
}

// CatchUp builds the synthetic event a late subscriber receives before any
// live event, reflecting the latest persisted snapshot.
func CatchUp(s *models.DrawSession, now time.Time) Event {
	switch s.Status {
	case models.SessionStatusCompleted:
		return NewDrawCompleted(s, now)
	case models.SessionStatusFailed:
		return NewDrawFailed(s, "session failed", now)
	default:
		return NewDrawStarted(s, now)
	}
}
