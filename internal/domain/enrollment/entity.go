// Package enrollment provides domain logic for athlete enrollments.
package enrollment

import (
	"strings"
	"time"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

// Input keys and column names of the enrollments table.
const (
	FieldAthleteID      = "athlete_id"
	FieldEnrollmentDate = "enrollment_date"
	FieldType           = "type"
	FieldEnabled        = "enabled"
)

// RequiredFields must be present on creation.
var RequiredFields = []string{FieldAthleteID, FieldType}

// UpdatableFields lists the fields a caller may change.
var UpdatableFields = []string{FieldEnrollmentDate, FieldType}

// Type classifies an enrollment.
type Type string

// Enrollment types.
const (
	TypeFederated    Type = "FEDERADO"
	TypeNonFederated Type = "NO_FEDERADO"
	TypeGuest        Type = "INVITADO"
)

// NewType parses an enrollment type, case-insensitively.
func NewType(value string) (Type, error) {
	t := Type(strings.ToUpper(strings.TrimSpace(value)))
	switch t {
	case TypeFederated, TypeNonFederated, TypeGuest:
		return t, nil
	}
	return "", ErrInvalidType
}

// Enrollment registers an athlete in the program. Each athlete has at most one.
type Enrollment struct {
	ID             int64     `json:"id"`
	AthleteID      int64     `json:"athlete_id"`
	EnrollmentDate time.Time `json:"enrollment_date"`
	Type           Type      `json:"type"`
	Enabled        bool      `json:"enabled"`
	CreatedAt      time.Time `json:"created_at"`
}

// Normalize coerces the date and type columns present in fields. A missing
// enrollment date defaults to today when defaultDate is set.
func Normalize(fields shared.Fields, now time.Time, defaultDate bool) []shared.FieldError {
	var errs []shared.FieldError

	raw, ok := fields[FieldEnrollmentDate]
	if (!ok || raw == nil || raw == "") && defaultDate {
		fields[FieldEnrollmentDate] = shared.DateOnly(now)
	} else if ok {
		date, err := shared.CoerceDate(raw)
		switch {
		case err != nil:
			errs = append(errs, shared.FieldError{Field: FieldEnrollmentDate, Message: "La fecha de inscripción tiene un " + err.Error()})
		case date.After(shared.DateOnly(now)):
			errs = append(errs, shared.FieldError{Field: FieldEnrollmentDate, Message: shared.Message(ErrFutureDate)})
		default:
			fields[FieldEnrollmentDate] = date
		}
	}

	if raw, ok := fields[FieldType]; ok {
		s, _ := raw.(string)
		t, err := NewType(s)
		if err != nil {
			errs = append(errs, shared.FieldError{Field: FieldType, Message: shared.Message(err)})
		} else {
			fields[FieldType] = string(t)
		}
	}
	return errs
}
