package group

import (
	"context"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

// Repository defines persistence for groups. Every read attaches Members.
type Repository interface {
	shared.DAO[Group]

	// CreateWithMembers inserts the group and its members atomically.
	CreateWithMembers(ctx context.Context, fields shared.Fields, members []int64) (*Group, error)

	// UpdateWithMembers applies fields and, when members is non-nil, replaces
	// the member list in the same transaction.
	UpdateWithMembers(ctx context.Context, id int64, fields shared.Fields, members []int64) (*Group, bool, error)

	// ListByCoach returns the active groups of a coach.
	ListByCoach(ctx context.Context, coachID int64) ([]*Group, error)
}
