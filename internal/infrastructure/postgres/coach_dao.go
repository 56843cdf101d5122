package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/coach"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

var coachMapping = Mapping[coach.Coach]{
	Table:    "coaches",
	IDColumn: "id",
	Columns: []string{
		"id", coach.FieldFirstName, coach.FieldLastName, coach.FieldEmail, coach.FieldDNI,
		coach.FieldSpecialty, coach.FieldAssignedClub, coach.FieldPhotoURL,
		coach.FieldPersonaExternal, coach.FieldIsActive, "created_at",
	},
	Writable: append([]string{coach.FieldDNI, coach.FieldPersonaExternal, coach.FieldPhotoURL, coach.FieldIsActive},
		coach.UpdatableFields...),
	OrderBy: "last_name, first_name, id",
	Scan:    scanCoach,
}

func scanCoach(row rowScanner) (*coach.Coach, error) {
	var (
		c               coach.Coach
		photo, external sql.NullString
	)
	if err := row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.DNI,
		&c.Specialty, &c.AssignedClub, &photo, &external, &c.IsActive, &c.CreatedAt,
	); err != nil {
		return nil, err
	}
	c.PhotoURL = photo.String
	c.PersonaExternal = external.String
	return &c, nil
}

// CoachDAO implements coach.Repository.
type CoachDAO struct {
	*GenericDAO[coach.Coach]
}

// NewCoachDAO creates a new CoachDAO.
func NewCoachDAO(db *DB) *CoachDAO {
	return &CoachDAO{GenericDAO: NewGenericDAO(db, coachMapping)}
}

// Verify interface implementation at compile time.
var _ coach.Repository = (*CoachDAO)(nil)

// FindByEmail looks a coach up by e-mail. Emails are stored lower-cased.
func (d *CoachDAO) FindByEmail(ctx context.Context, email string) (*coach.Coach, bool, error) {
	return d.findOne(ctx, shared.Fields{coach.FieldEmail: strings.ToLower(strings.TrimSpace(email))})
}

// FindByDNI looks a coach up by national id.
func (d *CoachDAO) FindByDNI(ctx context.Context, dni string) (*coach.Coach, bool, error) {
	return d.findOne(ctx, shared.Fields{coach.FieldDNI: dni})
}
