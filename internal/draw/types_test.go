package draw

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pasanaku/pasanaku/internal/models"
)

func snapshotSession(status models.SessionStatus, step int) *models.DrawSession {
	return &models.DrawSession{
		ID:          uuid.New(),
		GroupID:     uuid.New(),
		Status:      status,
		TotalSteps:  4,
		CurrentStep: step,
		FinalPositions: []models.PositionAssignment{
			{Position: 1, MemberID: uuid.New(), DisplayName: "ana"},
			{Position: 2, MemberID: uuid.New(), DisplayName: "beto"},
			{Position: 3, MemberID: uuid.New(), DisplayName: "carla"},
			{Position: 4, MemberID: uuid.New(), DisplayName: "diego"},
		},
	}
}

func TestStatusResponseInProgressRevealsPrefixOnly(t *testing.T) {
	s := snapshotSession(models.SessionStatusInProgress, 2)

	resp := NewStatusResponse(s)

	require.NotNil(t, resp.CurrentStep)
	assert.Equal(t, 2, *resp.CurrentStep)
	require.Len(t, resp.FinalPositions, 2)
	assert.Equal(t, s.FinalPositions[:2], resp.FinalPositions)
}

func TestStatusResponseInProgressNothingRevealed(t *testing.T) {
	s := snapshotSession(models.SessionStatusInProgress, 0)

	resp := NewStatusResponse(s)

	assert.Empty(t, resp.FinalPositions)
}

func TestStatusResponseCompletedRevealsAll(t *testing.T) {
	s := snapshotSession(models.SessionStatusCompleted, 4)

	resp := NewStatusResponse(s)

	assert.Equal(t, s.FinalPositions, resp.FinalPositions)
}

func TestStatusResponseFailedRevealsNothing(t *testing.T) {
	s := snapshotSession(models.SessionStatusFailed, 2)

	resp := NewStatusResponse(s)

	assert.Equal(t, models.SessionStatusFailed, resp.Status)
	assert.Empty(t, resp.FinalPositions)
}
