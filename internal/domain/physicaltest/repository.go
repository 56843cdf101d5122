package physicaltest

import (
	"context"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

// Repository defines persistence for physical tests.
type Repository interface {
	shared.DAO[PhysicalTest]

	// ListByAthlete returns an athlete's tests, most recent first.
	ListByAthlete(ctx context.Context, athleteID int64, activeOnly bool) ([]*PhysicalTest, error)
}
