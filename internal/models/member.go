package models

import "github.com/google/uuid"

// Member is one eligible group member as reported by the membership source.
type Member struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
}
