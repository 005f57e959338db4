package models

import (
	"time"

	"github.com/google/uuid"
)

// Group is the slice of the platform's group record the draw engine needs.
// Membership must be final before a draw can start.
type Group struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MembershipFinal bool      `json:"membership_final"`
	CreatedAt       time.Time `json:"created_at"`
}
