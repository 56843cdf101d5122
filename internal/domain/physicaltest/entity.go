// Package physicaltest provides domain logic for physical performance tests.
package physicaltest

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

// Input keys and column names of the physical_tests table.
const (
	FieldAthleteID        = "athlete_id"
	FieldRegistrationDate = "registration_date"
	FieldTestType         = "test_type"
	FieldResult           = "result"
	FieldUnit             = "unit"
	FieldNotes            = "notes"
	FieldIsActive         = "is_active"
)

// RequiredFields must be present on creation.
var RequiredFields = []string{FieldAthleteID, FieldTestType, FieldResult, FieldUnit}

// UpdatableFields lists the fields a caller may change.
var UpdatableFields = []string{FieldRegistrationDate, FieldTestType, FieldResult, FieldUnit, FieldNotes}

// TestType is the capacity being measured.
type TestType string

// Test types.
const (
	TypeSpeed        TestType = "VELOCIDAD"
	TypeEndurance    TestType = "RESISTENCIA"
	TypeStrength     TestType = "FUERZA"
	TypeFlexibility  TestType = "FLEXIBILIDAD"
	TypeCoordination TestType = "COORDINACION"
	TypeAgility      TestType = "AGILIDAD"
)

var validTypes = map[TestType]bool{
	TypeSpeed:        true,
	TypeEndurance:    true,
	TypeStrength:     true,
	TypeFlexibility:  true,
	TypeCoordination: true,
	TypeAgility:      true,
}

// NewTestType parses a test type, case-insensitively.
func NewTestType(value string) (TestType, error) {
	t := TestType(strings.ToUpper(strings.TrimSpace(value)))
	if !validTypes[t] {
		return "", ErrInvalidType
	}
	return t, nil
}

// PhysicalTest is one recorded performance test.
type PhysicalTest struct {
	ID               int64           `json:"id"`
	AthleteID        int64           `json:"athlete_id"`
	RegistrationDate time.Time       `json:"registration_date"`
	TestType         TestType        `json:"test_type"`
	Result           decimal.Decimal `json:"result"`
	Unit             string          `json:"unit"`
	Notes            string          `json:"notes,omitempty"`
	IsActive         bool            `json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
}

// Normalize coerces every column present in fields. When creating, a missing
// registration date defaults to today.
func Normalize(fields shared.Fields, now time.Time, creating bool) []shared.FieldError {
	var errs []shared.FieldError

	if raw, ok := fields[FieldTestType]; ok {
		s, _ := raw.(string)
		t, err := NewTestType(s)
		if err != nil {
			errs = append(errs, shared.FieldError{Field: FieldTestType, Message: shared.Message(err)})
		} else {
			fields[FieldTestType] = string(t)
		}
	}

	if raw, ok := fields[FieldResult]; ok {
		d, err := shared.CoerceDecimal(raw)
		switch {
		case err != nil:
			errs = append(errs, shared.FieldError{Field: FieldResult, Message: "El resultado: " + err.Error()})
		case !d.IsPositive():
			errs = append(errs, shared.FieldError{Field: FieldResult, Message: shared.Message(ErrResultNotPositive)})
		default:
			fields[FieldResult] = d
		}
	}

	if raw, ok := fields[FieldUnit]; ok {
		s, _ := raw.(string)
		if s = strings.TrimSpace(s); s == "" {
			errs = append(errs, shared.FieldError{Field: FieldUnit, Message: "El campo 'unit' es requerido"})
		} else {
			fields[FieldUnit] = s
		}
	}

	if raw, ok := fields[FieldNotes]; ok {
		s, _ := raw.(string)
		fields[FieldNotes] = strings.TrimSpace(s)
	}

	raw, ok := fields[FieldRegistrationDate]
	switch {
	case (!ok || raw == nil || raw == "") && creating:
		fields[FieldRegistrationDate] = shared.DateOnly(now)
	case ok:
		date, err := shared.CoerceDate(raw)
		switch {
		case err != nil:
			errs = append(errs, shared.FieldError{Field: FieldRegistrationDate, Message: "La fecha de registro tiene un " + err.Error()})
		case date.After(shared.DateOnly(now)):
			errs = append(errs, shared.FieldError{Field: FieldRegistrationDate, Message: shared.Message(ErrFutureDate)})
		default:
			fields[FieldRegistrationDate] = date
		}
	}

	return errs
}
