package measurement

import (
	"context"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

// Repository defines persistence for measurements.
type Repository interface {
	shared.DAO[Measurement]

	// ListByAthlete returns an athlete's measurements ordered by registration date.
	ListByAthlete(ctx context.Context, athleteID int64, activeOnly bool) ([]*Measurement, error)
}
