// Package athlete provides domain logic for the athletes of the program.
package athlete

import (
	"net/mail"
	"strings"
	"time"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

// Input keys and column names of the athletes table.
const (
	FieldFirstName     = "first_name"
	FieldLastName      = "last_name"
	FieldDNI           = "dni"
	FieldBirthDate     = "birth_date"
	FieldSex           = "sex"
	FieldEmail         = "email"
	FieldPhone         = "phone"
	FieldBloodType     = "blood_type"
	FieldGuardianName  = "guardian_name"
	FieldGuardianPhone = "guardian_phone"
	FieldIsActive      = "is_active"
)

// RequiredFields must be present on creation.
var RequiredFields = []string{FieldFirstName, FieldLastName, FieldDNI, FieldBirthDate, FieldSex}

// UpdatableFields lists the fields a caller may change.
var UpdatableFields = []string{
	FieldFirstName, FieldLastName, FieldBirthDate, FieldSex, FieldEmail,
	FieldPhone, FieldBloodType, FieldGuardianName, FieldGuardianPhone,
}

// SearchFields are matched by free-text search.
var SearchFields = []string{FieldFirstName, FieldLastName, FieldDNI}

// Athlete is a player registered in the program.
type Athlete struct {
	ID            int64     `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	DNI           string    `json:"dni"`
	BirthDate     time.Time `json:"birth_date"`
	Age           int       `json:"age"`
	Sex           Sex       `json:"sex"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	BloodType     string    `json:"blood_type,omitempty"`
	GuardianName  string    `json:"guardian_name,omitempty"`
	GuardianPhone string    `json:"guardian_phone,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// FullName returns "first last".
func (a *Athlete) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// AgeOn returns the athlete's completed years on the given day.
func (a *Athlete) AgeOn(day time.Time) int {
	return shared.AgeOn(a.BirthDate, day)
}

// Sex is the athlete's declared sex.
type Sex string

// Accepted values.
const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
	SexOther  Sex = "O"
)

// NewSex parses a sex code, case-insensitively.
func NewSex(value string) (Sex, error) {
	s := Sex(strings.ToUpper(strings.TrimSpace(value)))
	switch s {
	case SexMale, SexFemale, SexOther:
		return s, nil
	}
	return "", ErrInvalidSex
}

// ValidateNew checks a creation payload and returns the normalized columns.
func ValidateNew(data map[string]any, now time.Time) (shared.Fields, []shared.FieldError) {
	errs := shared.RequiredFields(data, RequiredFields)
	missing := make(map[string]bool, len(errs))
	for _, e := range errs {
		missing[e.Field] = true
	}

	fields := shared.AllowedFields(data, append([]string{FieldDNI}, UpdatableFields...))
	if !missing[FieldDNI] {
		if fe := shared.ValidateDNI(stringValue(data[FieldDNI])); fe != nil {
			errs = append(errs, *fe)
		}
		fields[FieldDNI] = strings.TrimSpace(stringValue(data[FieldDNI]))
	}

	for key := range missing {
		delete(fields, key)
	}
	errs = append(errs, normalize(fields, now)...)
	return fields, errs
}

// ValidateChanges filters an update payload to UpdatableFields and checks it.
func ValidateChanges(changes map[string]any, now time.Time) (shared.Fields, []shared.FieldError) {
	fields := shared.AllowedFields(changes, UpdatableFields)
	var errs []shared.FieldError
	for _, key := range []string{FieldFirstName, FieldLastName, FieldBirthDate, FieldSex} {
		if _, ok := fields[key]; ok {
			errs = append(errs, shared.RequiredFields(fields, []string{key})...)
		}
	}
	if len(errs) > 0 {
		return fields, errs
	}
	return fields, normalize(fields, now)
}

// normalize coerces the typed columns in place.
func normalize(fields shared.Fields, now time.Time) []shared.FieldError {
	var errs []shared.FieldError

	for _, key := range []string{FieldFirstName, FieldLastName, FieldPhone, FieldBloodType, FieldGuardianName, FieldGuardianPhone} {
		if v, ok := fields[key]; ok {
			fields[key] = strings.TrimSpace(stringValue(v))
		}
	}

	if v, ok := fields[FieldBirthDate]; ok {
		birth, err := shared.CoerceDate(v)
		switch {
		case err != nil:
			errs = append(errs, shared.FieldError{Field: FieldBirthDate, Message: "La fecha de nacimiento tiene un " + err.Error()})
		case birth.After(shared.DateOnly(now)):
			errs = append(errs, shared.FieldError{Field: FieldBirthDate, Message: shared.Message(ErrBirthDateInFuture)})
		default:
			fields[FieldBirthDate] = birth
		}
	}

	if v, ok := fields[FieldSex]; ok {
		sex, err := NewSex(stringValue(v))
		if err != nil {
			errs = append(errs, shared.FieldError{Field: FieldSex, Message: shared.Message(err)})
		} else {
			fields[FieldSex] = string(sex)
		}
	}

	if v, ok := fields[FieldEmail]; ok {
		email := strings.ToLower(strings.TrimSpace(stringValue(v)))
		if email == "" {
			fields[FieldEmail] = nil
		} else if _, err := mail.ParseAddress(email); err != nil {
			errs = append(errs, shared.FieldError{Field: FieldEmail, Message: shared.Message(ErrInvalidEmail)})
		} else {
			fields[FieldEmail] = email
		}
	}

	return errs
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}
