package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus defines the lifecycle state of a draw session.
type SessionStatus string

const (
	SessionStatusPending    SessionStatus = "PENDING"
	SessionStatusInProgress SessionStatus = "IN_PROGRESS"
	SessionStatusCompleted  SessionStatus = "COMPLETED"
	SessionStatusFailed     SessionStatus = "FAILED"
)

// Terminal reports whether no further transitions are allowed from the status.
func (s SessionStatus) Terminal() bool {
	return s == SessionStatusCompleted || s == SessionStatusFailed
}

// PositionAssignment is one entry of the committed payout order: the member
// who receives the payout in the given period.
type PositionAssignment struct {
	Position    int       `json:"position"`
	MemberID    uuid.UUID `json:"memberId"`
	DisplayName string    `json:"displayName"`
}

// DrawSession represents one draw cycle for a group. The full payout order is
// committed at creation; only its revelation is paced. At most one session per
// group may be IN_PROGRESS at any time.
type DrawSession struct {
	ID             uuid.UUID            `json:"id"`
	GroupID        uuid.UUID            `json:"group_id"`
	Status         SessionStatus        `json:"status"`
	TotalSteps     int                  `json:"total_steps"`
	CurrentStep    int                  `json:"current_step"`
	FinalPositions []PositionAssignment `json:"final_positions"`
	StartTime      *time.Time           `json:"start_time,omitempty"`
	EndTime        *time.Time           `json:"end_time,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}
