package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pasanaku/pasanaku/internal/models"
)

func testSession(status models.SessionStatus, step int) *models.DrawSession {
	return &models.DrawSession{
		ID:          uuid.New(),
		GroupID:     uuid.New(),
		Status:      status,
		TotalSteps:  3,
		CurrentStep: step,
		FinalPositions: []models.PositionAssignment{
			{Position: 1, MemberID: uuid.New(), DisplayName: "ana"},
			{Position: 2, MemberID: uuid.New(), DisplayName: "beto"},
			{Position: 3, MemberID: uuid.New(), DisplayName: "carla"},
		},
	}
}

func TestNewDrawProgressWireShape(t *testing.T) {
	s := testSession(models.SessionStatusInProgress, 2)
	now := time.Now()

	e := NewDrawProgress(s, s.FinalPositions[1], now)
	data, err := json.Marshal(e)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "DRAW_PROGRESS", decoded["type"])
	assert.Equal(t, s.ID.String(), decoded["sessionId"])
	assert.Equal(t, s.GroupID.String(), decoded["groupId"])
	assert.Equal(t, float64(3), decoded["totalSteps"])
	assert.Equal(t, float64(2), decoded["currentStep"])

	winner, ok := decoded["currentWinner"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(2), winner["position"])
	assert.Equal(t, "beto", winner["displayName"])

	// The full order never leaks before completion.
	assert.NotContains(t, decoded, "finalPositions")
}

func TestNewDrawCompletedCarriesFullOrder(t *testing.T) {
	s := testSession(models.SessionStatusCompleted, 3)

	e := NewDrawCompleted(s, time.Now())

	assert.Equal(t, TypeDrawCompleted, e.Type)
	assert.Equal(t, s.FinalPositions, e.FinalPositions)
}

func TestNewDrawFailedReason(t *testing.T) {
	s := testSession(models.SessionStatusFailed, 1)

	e := NewDrawFailed(s, "store unavailable", time.Now())

	assert.Equal(t, TypeDrawFailed, e.Type)
	assert.Equal(t, "store unavailable", e.Reason)
	assert.Empty(t, e.FinalPositions)
}

func TestCatchUpMapsStatus(t *testing.T) {
	now := time.Now()

	tests := []struct {
		status models.SessionStatus
		want   Type
	}{
		{models.SessionStatusInProgress, TypeDrawStarted},
		{models.SessionStatusCompleted, TypeDrawCompleted},
		{models.SessionStatusFailed, TypeDrawFailed},
	}
	for _, tt := range tests {
		e := CatchUp(testSession(tt.status, 2), now)
		assert.Equal(t, tt.want, e.Type, "status %s", tt.status)
	}
}

func TestCatchUpInProgressCarriesCurrentStep(t *testing.T) {
	s := testSession(models.SessionStatusInProgress, 2)

	e := CatchUp(s, time.Now())

	assert.Equal(t, 2, e.CurrentStep)
	assert.Equal(t, 3, e.TotalSteps)
	assert.Empty(t, e.FinalPositions)
}
