package shared

import "context"

// DAO is the generic data-access contract implemented once for every entity.
// It never classifies failures into Results; callers inspect the returned
// values and wrap storage faults themselves.
type DAO[T any] interface {
	// GetByID returns the entity or found=false when no row has the id.
	GetByID(ctx context.Context, id int64) (*T, bool, error)

	// Create inserts a row and returns it as stored. Uniqueness violations
	// surface as errors wrapping ErrDuplicate.
	Create(ctx context.Context, fields Fields) (*T, error)

	// Update applies exactly the given fields. found=false when the id does not exist.
	Update(ctx context.Context, id int64, fields Fields) (*T, bool, error)

	// SoftDelete sets flagField to false and reports whether a row changed.
	SoftDelete(ctx context.Context, id int64, flagField string) (bool, error)

	// Restore sets flagField back to true and reports whether a row changed.
	Restore(ctx context.Context, id int64, flagField string) (bool, error)

	// GetAll returns every row in natural order.
	GetAll(ctx context.Context) ([]*T, error)

	// GetByFilter returns rows matching all equality criteria.
	GetByFilter(ctx context.Context, criteria Fields) ([]*T, error)

	// Search returns rows where term is a case-insensitive substring of any field.
	Search(ctx context.Context, fields []string, term string) ([]*T, error)
}
