package draw

import (
	"time"

	"github.com/google/uuid"

	"github.com/pasanaku/pasanaku/internal/models"
)

// CreateSessionRequest carries everything the store needs to persist a new
// session atomically. FinalPositions is the full committed order; it never
// changes after this insert.
type CreateSessionRequest struct {
	ID             uuid.UUID
	GroupID        uuid.UUID
	TotalSteps     int
	FinalPositions []models.PositionAssignment
	StartTime      time.Time
}

// StatusResponse is the pull-transport snapshot for a group's latest session.
// While a reveal is running, FinalPositions holds only the already-revealed
// prefix; the full order appears once the session is COMPLETED.
type StatusResponse struct {
	Status         models.SessionStatus        `json:"status"`
	SessionID      string                      `json:"sessionId,omitempty"`
	StartTime      *time.Time                  `json:"startTime,omitempty"`
	EndTime        *time.Time                  `json:"endTime,omitempty"`
	CurrentStep    *int                        `json:"currentStep,omitempty"`
	TotalSteps     *int                        `json:"totalSteps,omitempty"`
	FinalPositions []models.PositionAssignment `json:"finalPositions,omitempty"`
}

// NewStatusResponse builds the pull snapshot from a persisted session.
func NewStatusResponse(s *models.DrawSession) StatusResponse {
	step := s.CurrentStep
	total := s.TotalSteps
	resp := StatusResponse{
		Status:      s.Status,
		SessionID:   s.ID.String(),
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		CurrentStep: &step,
		TotalSteps:  &total,
	}
	switch s.Status {
	case models.SessionStatusCompleted:
		resp.FinalPositions = s.FinalPositions
	case models.SessionStatusInProgress:
		if step > 0 && step <= len(s.FinalPositions) {
			resp.FinalPositions = s.FinalPositions[:step]
		}
	}
	return resp
}
