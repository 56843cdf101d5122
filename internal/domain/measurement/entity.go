// Package measurement provides domain logic for anthropometric measurements.
package measurement

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

// Column names of the anthropometric_tests table.
const (
	ColumnAthleteID      = "athlete_id"
	ColumnBMI            = "bmi"
	ColumnCormicIndex    = "cormic_index"
	ColumnNotes          = "notes"
	ColumnRecordedBy     = "recorded_by"
	ColumnRecordedByRole = "recorded_by_role"
	ColumnIsActive       = "is_active"
)

// UpdatableFields lists the fields a caller may change on an existing record.
var UpdatableFields = []string{
	FieldWeight, FieldHeight, FieldSittingHeight, FieldWingspan, FieldRegistrationDate, ColumnNotes,
}

// Measurement is an anthropometric test taken for one athlete.
type Measurement struct {
	ID               int64           `json:"id"`
	AthleteID        int64           `json:"athlete_id"`
	RegistrationDate time.Time       `json:"registration_date"`
	Weight           decimal.Decimal `json:"weight"`
	Height           decimal.Decimal `json:"height"`
	SittingHeight    decimal.Decimal `json:"sitting_height"`
	Wingspan         decimal.Decimal `json:"wingspan"`
	BMI              decimal.Decimal `json:"bmi"`
	CormicIndex      decimal.Decimal `json:"cormic_index"`
	Notes            string          `json:"notes"`
	RecordedBy       string          `json:"recorded_by"`
	RecordedByRole   string          `json:"recorded_by_role"`
	IsActive         bool            `json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
}

// Raw returns the measured values in the shape accepted by Validate, so an
// update can be merged over the stored record and re-validated as a whole.
func (m *Measurement) Raw() map[string]any {
	return map[string]any{
		FieldWeight:           m.Weight,
		FieldHeight:           m.Height,
		FieldSittingHeight:    m.SittingHeight,
		FieldWingspan:         m.Wingspan,
		FieldRegistrationDate: m.RegistrationDate,
	}
}

// Merge overlays changes on the stored values. Keys outside the measured
// fields are ignored.
func (m *Measurement) Merge(changes map[string]any) map[string]any {
	merged := m.Raw()
	for _, key := range []string{FieldWeight, FieldHeight, FieldSittingHeight, FieldWingspan, FieldRegistrationDate} {
		if value, ok := changes[key]; ok {
			merged[key] = value
		}
	}
	return merged
}

// Columns converts validated values into the writable column set, including
// the derived indices.
func (v Values) Columns() shared.Fields {
	return shared.Fields{
		FieldWeight:           v.Weight,
		FieldHeight:           v.Height,
		FieldSittingHeight:    v.SittingHeight,
		FieldWingspan:         v.Wingspan,
		FieldRegistrationDate: v.RegistrationDate,
		ColumnBMI:             v.BMI(),
		ColumnCormicIndex:     v.CormicIndex(),
	}
}

// ChartPoint is one sample of an athlete's progress series.
type ChartPoint struct {
	Date        string          `json:"date"`
	Weight      decimal.Decimal `json:"weight"`
	Height      decimal.Decimal `json:"height"`
	BMI         decimal.Decimal `json:"bmi"`
	CormicIndex decimal.Decimal `json:"cormic_index"`
}

// ChartSeries builds the progress series ordered by registration date, then id.
func ChartSeries(records []*Measurement) []ChartPoint {
	sorted := append([]*Measurement(nil), records...)
	slices.SortFunc(sorted, compareByDate)

	points := make([]ChartPoint, 0, len(sorted))
	for _, m := range sorted {
		points = append(points, ChartPoint{
			Date:        m.RegistrationDate.Format(shared.DateLayout),
			Weight:      m.Weight,
			Height:      m.Height,
			BMI:         m.BMI,
			CormicIndex: m.CormicIndex,
		})
	}
	return points
}

func compareByDate(a, b *Measurement) int {
	if c := a.RegistrationDate.Compare(b.RegistrationDate); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
