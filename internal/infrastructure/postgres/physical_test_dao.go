package postgres

import (
	"context"
	"database/sql"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/physicaltest"
)

var physicalTestMapping = Mapping[physicaltest.PhysicalTest]{
	Table:    "physical_tests",
	IDColumn: "id",
	Columns: []string{
		"id", physicaltest.FieldAthleteID, physicaltest.FieldRegistrationDate, physicaltest.FieldTestType,
		physicaltest.FieldResult, physicaltest.FieldUnit, physicaltest.FieldNotes, physicaltest.FieldIsActive, "created_at",
	},
	Writable: []string{
		physicaltest.FieldAthleteID, physicaltest.FieldRegistrationDate, physicaltest.FieldTestType,
		physicaltest.FieldResult, physicaltest.FieldUnit, physicaltest.FieldNotes, physicaltest.FieldIsActive,
	},
	OrderBy: "registration_date DESC, id DESC",
	Scan:    scanPhysicalTest,
}

func scanPhysicalTest(row rowScanner) (*physicaltest.PhysicalTest, error) {
	var (
		p     physicaltest.PhysicalTest
		typ   string
		notes sql.NullString
	)
	if err := row.Scan(
		&p.ID, &p.AthleteID, &p.RegistrationDate, &typ,
		&p.Result, &p.Unit, &notes, &p.IsActive, &p.CreatedAt,
	); err != nil {
		return nil, err
	}
	p.TestType = physicaltest.TestType(typ)
	p.Notes = notes.String
	return &p, nil
}

// PhysicalTestDAO implements physicaltest.Repository.
type PhysicalTestDAO struct {
	*GenericDAO[physicaltest.PhysicalTest]
}

// NewPhysicalTestDAO creates a new PhysicalTestDAO.
func NewPhysicalTestDAO(db *DB) *PhysicalTestDAO {
	return &PhysicalTestDAO{GenericDAO: NewGenericDAO(db, physicalTestMapping)}
}

// Verify interface implementation at compile time.
var _ physicaltest.Repository = (*PhysicalTestDAO)(nil)

// ListByAthlete returns an athlete's tests, most recent first.
func (d *PhysicalTestDAO) ListByAthlete(ctx context.Context, athleteID int64, activeOnly bool) ([]*physicaltest.PhysicalTest, error) {
	where := "athlete_id = $1"
	if activeOnly {
		where += " AND is_active IS TRUE"
	}
	return d.selectWhere(ctx, where, "", athleteID)
}
