package enrollment

import (
	"context"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

// Repository defines persistence for enrollments.
type Repository interface {
	shared.DAO[Enrollment]

	// GetByAthlete returns the athlete's enrollment, if any.
	GetByAthlete(ctx context.Context, athleteID int64) (*Enrollment, bool, error)
}
