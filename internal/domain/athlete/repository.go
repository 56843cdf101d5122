package athlete

import (
	"context"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

// Repository defines persistence for athletes.
type Repository interface {
	shared.DAO[Athlete]

	// FindByDNI looks an athlete up by national id.
	FindByDNI(ctx context.Context, dni string) (*Athlete, bool, error)

	// GetByIDs returns the athletes whose ids are listed, in id order.
	GetByIDs(ctx context.Context, ids []int64) ([]*Athlete, error)
}
