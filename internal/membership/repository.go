// Package membership is the read side of group membership. The draw engine
// treats it as an external collaborator: it never mutates groups, it only
// checks eligibility and resolves the member roster at draw time.
package membership

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pasanaku/pasanaku/internal/draw"
	"github.com/pasanaku/pasanaku/internal/draw/db"
	"github.com/pasanaku/pasanaku/internal/models"
)

// Repository reads groups and their rosters from the shared store.
type Repository struct {
	queries *db.Queries
}

func NewRepository(queries *db.Queries) *Repository {
	return &Repository{queries: queries}
}

// GetGroup loads one group. A missing group is not eligible for a draw, so
// the not-found case maps onto the eligibility error rather than a separate
// sentinel.
func (r *Repository) GetGroup(ctx context.Context, groupID uuid.UUID) (*models.Group, error) {
	row, err := r.queries.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("group %s not found: %w", groupID, draw.ErrGroupNotEligible)
		}
		return nil, fmt.Errorf("failed to get group: %w: %w", draw.ErrStoreUnavailable, err)
	}
	return &models.Group{
		ID:              row.ID,
		Name:            row.Name,
		MembershipFinal: row.MembershipFinal,
		CreatedAt:       row.CreatedAt,
	}, nil
}

// ListMembers returns the roster in join-position order. The order is stable
// so the shuffle input is reproducible from the same roster.
func (r *Repository) ListMembers(ctx context.Context, groupID uuid.UUID) ([]models.Member, error) {
	rows, err := r.queries.ListGroupMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w: %w", draw.ErrStoreUnavailable, err)
	}
	members := make([]models.Member, 0, len(rows))
	for _, row := range rows {
		members = append(members, models.Member{
			ID:          row.MemberID,
			DisplayName: row.DisplayName,
		})
	}
	return members, nil
}

// IsMember reports whether memberID belongs to the group.
func (r *Repository) IsMember(ctx context.Context, groupID, memberID uuid.UUID) (bool, error) {
	rows, err := r.queries.ListGroupMembers(ctx, groupID)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w: %w", draw.ErrStoreUnavailable, err)
	}
	for _, row := range rows {
		if row.MemberID == memberID {
			return true, nil
		}
	}
	return false, nil
}
