package postgres

import (
	"context"
	"database/sql"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/measurement"
)

var measurementMapping = Mapping[measurement.Measurement]{
	Table:    "anthropometric_tests",
	IDColumn: "id",
	Columns: []string{
		"id", measurement.ColumnAthleteID, measurement.FieldRegistrationDate,
		measurement.FieldWeight, measurement.FieldHeight, measurement.FieldSittingHeight, measurement.FieldWingspan,
		measurement.ColumnBMI, measurement.ColumnCormicIndex, measurement.ColumnNotes,
		measurement.ColumnRecordedBy, measurement.ColumnRecordedByRole, measurement.ColumnIsActive, "created_at",
	},
	Writable: []string{
		measurement.ColumnAthleteID, measurement.FieldRegistrationDate,
		measurement.FieldWeight, measurement.FieldHeight, measurement.FieldSittingHeight, measurement.FieldWingspan,
		measurement.ColumnBMI, measurement.ColumnCormicIndex, measurement.ColumnNotes,
		measurement.ColumnRecordedBy, measurement.ColumnRecordedByRole, measurement.ColumnIsActive,
	},
	OrderBy: "registration_date DESC, id DESC",
	Scan:    scanMeasurement,
}

func scanMeasurement(row rowScanner) (*measurement.Measurement, error) {
	var (
		m     measurement.Measurement
		notes sql.NullString
	)
	if err := row.Scan(
		&m.ID, &m.AthleteID, &m.RegistrationDate,
		&m.Weight, &m.Height, &m.SittingHeight, &m.Wingspan,
		&m.BMI, &m.CormicIndex, &notes,
		&m.RecordedBy, &m.RecordedByRole, &m.IsActive, &m.CreatedAt,
	); err != nil {
		return nil, err
	}
	m.Notes = notes.String
	return &m, nil
}

// MeasurementDAO implements measurement.Repository.
type MeasurementDAO struct {
	*GenericDAO[measurement.Measurement]
}

// NewMeasurementDAO creates a new MeasurementDAO.
func NewMeasurementDAO(db *DB) *MeasurementDAO {
	return &MeasurementDAO{GenericDAO: NewGenericDAO(db, measurementMapping)}
}

// Verify interface implementation at compile time.
var _ measurement.Repository = (*MeasurementDAO)(nil)

// ListByAthlete returns an athlete's measurements ordered by registration date.
func (d *MeasurementDAO) ListByAthlete(ctx context.Context, athleteID int64, activeOnly bool) ([]*measurement.Measurement, error) {
	where := "athlete_id = $1"
	if activeOnly {
		where += " AND is_active IS TRUE"
	}
	return d.selectWhere(ctx, where, "registration_date, id", athleteID)
}
