package coach

import (
	"context"
	"io"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

// Repository defines persistence for coaches.
type Repository interface {
	shared.DAO[Coach]

	// FindByEmail looks a coach up by e-mail (case-insensitive).
	FindByEmail(ctx context.Context, email string) (*Coach, bool, error)

	// FindByDNI looks a coach up by national id.
	FindByDNI(ctx context.Context, dni string) (*Coach, bool, error)
}

// PersonDirectory resolves people in the external user module.
type PersonDirectory interface {
	// PersonExists reports whether the external id is known. The bearer token
	// of the current caller is forwarded.
	PersonExists(ctx context.Context, externalID, token string) (bool, error)
}

// PhotoStore keeps profile pictures.
type PhotoStore interface {
	UploadCoachPhoto(ctx context.Context, coachID int64, r io.Reader, size int64, contentType string) (string, error)
	DeleteObject(ctx context.Context, url string) error
}
