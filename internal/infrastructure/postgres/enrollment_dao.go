package postgres

import (
	"context"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/enrollment"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

var enrollmentMapping = Mapping[enrollment.Enrollment]{
	Table:    "enrollments",
	IDColumn: "id",
	Columns: []string{
		"id", enrollment.FieldAthleteID, enrollment.FieldEnrollmentDate,
		enrollment.FieldType, enrollment.FieldEnabled, "created_at",
	},
	Writable: []string{enrollment.FieldAthleteID, enrollment.FieldEnrollmentDate, enrollment.FieldType, enrollment.FieldEnabled},
	OrderBy:  "enrollment_date DESC, id DESC",
	Scan:     scanEnrollment,
}

func scanEnrollment(row rowScanner) (*enrollment.Enrollment, error) {
	var (
		e   enrollment.Enrollment
		typ string
	)
	if err := row.Scan(&e.ID, &e.AthleteID, &e.EnrollmentDate, &typ, &e.Enabled, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Type = enrollment.Type(typ)
	return &e, nil
}

// EnrollmentDAO implements enrollment.Repository.
type EnrollmentDAO struct {
	*GenericDAO[enrollment.Enrollment]
}

// NewEnrollmentDAO creates a new EnrollmentDAO.
func NewEnrollmentDAO(db *DB) *EnrollmentDAO {
	return &EnrollmentDAO{GenericDAO: NewGenericDAO(db, enrollmentMapping)}
}

// Verify interface implementation at compile time.
var _ enrollment.Repository = (*EnrollmentDAO)(nil)

// GetByAthlete returns the athlete's enrollment, if any.
func (d *EnrollmentDAO) GetByAthlete(ctx context.Context, athleteID int64) (*enrollment.Enrollment, bool, error) {
	return d.findOne(ctx, shared.Fields{enrollment.FieldAthleteID: athleteID})
}
