// Package coach provides domain logic for coaches.
package coach

import (
	"fmt"
	"strings"
	"time"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

// Input keys and column names of the coaches table.
const (
	FieldFirstName       = "first_name"
	FieldLastName        = "last_name"
	FieldEmail           = "email"
	FieldDNI             = "dni"
	FieldSpecialty       = "specialty"
	FieldAssignedClub    = "assigned_club"
	FieldPhotoURL        = "photo_url"
	FieldPersonaExternal = "persona_external"
	FieldIsActive        = "is_active"
)

// DefaultEmailDomain is the institutional domain used when none is configured.
const DefaultEmailDomain = "unl.edu.ec"

// RequiredFields must be present on creation.
var RequiredFields = []string{FieldFirstName, FieldLastName, FieldEmail, FieldDNI, FieldSpecialty, FieldAssignedClub}

// UpdatableFields lists the fields a caller may change.
var UpdatableFields = []string{FieldFirstName, FieldLastName, FieldEmail, FieldSpecialty, FieldAssignedClub}

// Coach trains one or more athlete groups.
type Coach struct {
	ID              int64     `json:"id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Email           string    `json:"email"`
	DNI             string    `json:"dni"`
	Specialty       string    `json:"specialty"`
	AssignedClub    string    `json:"assigned_club"`
	PhotoURL        string    `json:"photo_url,omitempty"`
	PersonaExternal string    `json:"persona_external,omitempty"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

// FullName returns "first last".
func (c *Coach) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Rules holds the configurable coach rules.
type Rules struct {
	EmailDomain string
}

func (r Rules) domain() string {
	d := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(r.EmailDomain)), "@")
	if d == "" {
		return DefaultEmailDomain
	}
	return d
}

// CheckEmail verifies the address belongs to the institutional domain.
func (r Rules) CheckEmail(email string) *shared.FieldError {
	email = strings.ToLower(strings.TrimSpace(email))
	at := strings.LastIndex(email, "@")
	if at <= 0 || email[at+1:] != r.domain() {
		return &shared.FieldError{
			Field:   FieldEmail,
			Message: fmt.Sprintf("El correo debe pertenecer al dominio institucional @%s", r.domain()),
		}
	}
	return nil
}

// ValidateNew checks a creation payload and returns the normalized columns.
func (r Rules) ValidateNew(data map[string]any) (shared.Fields, []shared.FieldError) {
	errs := shared.RequiredFields(data, RequiredFields)
	missing := make(map[string]bool, len(errs))
	for _, e := range errs {
		missing[e.Field] = true
	}

	fields := shared.AllowedFields(data, append([]string{FieldDNI, FieldPersonaExternal}, UpdatableFields...))
	for key := range missing {
		delete(fields, key)
	}
	trim(fields)

	if dni, ok := fields[FieldDNI]; ok {
		if fe := shared.ValidateDNI(dni.(string)); fe != nil {
			errs = append(errs, *fe)
		}
	}
	if email, ok := fields[FieldEmail]; ok {
		if fe := r.CheckEmail(email.(string)); fe != nil {
			errs = append(errs, *fe)
		}
	}
	if ext, ok := fields[FieldPersonaExternal]; ok && ext == "" {
		delete(fields, FieldPersonaExternal)
	}
	return fields, errs
}

// ValidateChanges filters an update payload to UpdatableFields and checks it.
func (r Rules) ValidateChanges(changes map[string]any) (shared.Fields, []shared.FieldError) {
	fields := shared.AllowedFields(changes, UpdatableFields)
	var errs []shared.FieldError
	for _, key := range UpdatableFields {
		if _, ok := fields[key]; ok {
			errs = append(errs, shared.RequiredFields(fields, []string{key})...)
		}
	}
	if len(errs) > 0 {
		return fields, errs
	}
	trim(fields)
	if email, ok := fields[FieldEmail]; ok {
		if fe := r.CheckEmail(email.(string)); fe != nil {
			errs = append(errs, *fe)
		}
	}
	return fields, errs
}

// trim normalizes every string column; email is lower-cased.
func trim(fields shared.Fields) {
	for key, value := range fields {
		s, ok := value.(string)
		if !ok {
			fields[key] = fmt.Sprint(value)
			continue
		}
		s = strings.TrimSpace(s)
		if key == FieldEmail {
			s = strings.ToLower(s)
		}
		fields[key] = s
	}
}

// MaxPhotoSize is the largest accepted profile picture, in bytes.
const MaxPhotoSize = 5 << 20

var photoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// CheckPhoto validates an uploaded picture's content type and size.
func CheckPhoto(contentType string, size int64) error {
	if !photoTypes[strings.ToLower(contentType)] || size <= 0 || size > MaxPhotoSize {
		return ErrInvalidPhoto
	}
	return nil
}
