// Package group provides domain logic for athlete groups.
package group

import (
	"fmt"
	"strings"
	"time"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

// Input keys and column names of the athlete_groups table.
const (
	FieldName     = "name"
	FieldMinAge   = "min_age"
	FieldMaxAge   = "max_age"
	FieldCategory = "category"
	FieldCoachID  = "coach_id"
	FieldMembers  = "members"
	FieldIsActive = "is_active"
)

// Group limits.
const (
	MaxMembers = 100
	MaxAge     = 150
)

// RequiredFields must be present on creation.
var RequiredFields = []string{FieldName, FieldMinAge, FieldMaxAge, FieldCategory, FieldCoachID}

// UpdatableFields lists the fields a caller may change. Members are stored
// separately from the group row.
var UpdatableFields = []string{FieldName, FieldCategory, FieldMinAge, FieldMaxAge, FieldCoachID, FieldMembers}

// Group is a set of athletes of similar age trained by one coach.
type Group struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	MinAge    int       `json:"min_age"`
	MaxAge    int       `json:"max_age"`
	Category  string    `json:"category"`
	CoachID   int64     `json:"coach_id"`
	Members   []int64   `json:"members"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Accepts reports whether an athlete of the given age fits the group.
func (g *Group) Accepts(age int) bool {
	return age >= g.MinAge && age <= g.MaxAge
}

// HasMember reports whether the athlete already belongs to the group.
func (g *Group) HasMember(athleteID int64) bool {
	for _, id := range g.Members {
		if id == athleteID {
			return true
		}
	}
	return false
}

// ValidateAgeRange checks the age bounds of a group.
func ValidateAgeRange(minAge, maxAge int) error {
	switch {
	case minAge < 0:
		return ErrNegativeMinAge
	case maxAge > MaxAge:
		return ErrMaxAgeTooHigh
	case minAge > maxAge:
		return ErrMinAboveMax
	}
	return nil
}

// ValidateMemberIDs checks the shape of a member list before it is resolved.
func ValidateMemberIDs(ids []int64) error {
	if len(ids) > MaxMembers {
		return ErrTooManyMembers
	}
	for _, id := range ids {
		if id <= 0 {
			return ErrInvalidMemberID
		}
	}
	return nil
}

// MissingMembersError lists requested athlete ids that do not exist.
type MissingMembersError struct {
	IDs []int64
}

func (e *MissingMembersError) Error() string {
	return fmt.Sprintf("los siguientes IDs de atletas no existen: %v", e.IDs)
}

// AgeMismatchError reports an athlete outside the group's age range.
type AgeMismatchError struct {
	AthleteID int64
	Age       int
	MinAge    int
	MaxAge    int
}

func (e *AgeMismatchError) Error() string {
	return fmt.Sprintf("el atleta con ID %d (edad: %d) no cumple con el rango de edad del grupo (%d-%d)",
		e.AthleteID, e.Age, e.MinAge, e.MaxAge)
}

// Input is a decoded group payload.
type Input struct {
	Fields     shared.Fields
	Members    []int64
	HasMembers bool
}

// ParseInput extracts the group columns and member list from a payload.
// Only keys in allowed are considered.
func ParseInput(data map[string]any, allowed []string) (Input, []shared.FieldError) {
	in := Input{Fields: shared.AllowedFields(data, allowed)}
	var errs []shared.FieldError

	for _, key := range []string{FieldName, FieldCategory} {
		if v, ok := in.Fields[key]; ok {
			s, _ := v.(string)
			in.Fields[key] = strings.TrimSpace(s)
		}
	}
	for _, key := range []string{FieldMinAge, FieldMaxAge, FieldCoachID} {
		v, ok := in.Fields[key]
		if !ok || v == nil {
			continue
		}
		n, err := toInt64(v)
		if err != nil {
			errs = append(errs, shared.FieldError{Field: key, Message: fmt.Sprintf("El campo '%s' debe ser un número entero", key)})
			continue
		}
		if key == FieldCoachID {
			in.Fields[key] = n
		} else {
			in.Fields[key] = int(n)
		}
	}

	if raw, ok := in.Fields[FieldMembers]; ok {
		delete(in.Fields, FieldMembers)
		in.HasMembers = true
		ids, err := toIDs(raw)
		if err != nil {
			errs = append(errs, shared.FieldError{Field: FieldMembers, Message: shared.Message(ErrInvalidMemberID)})
		}
		in.Members = ids
	}
	return in, errs
}

func toIDs(raw any) ([]int64, error) {
	if raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case []int64:
		return v, nil
	case []any:
		ids := make([]int64, 0, len(v))
		for _, item := range v {
			n, err := toInt64(item)
			if err != nil {
				return nil, err
			}
			ids = append(ids, n)
		}
		return ids, nil
	}
	return nil, ErrInvalidMemberID
}

func toInt64(v any) (int64, error) {
	d, err := shared.CoerceDecimal(v)
	if err != nil || !d.IsInteger() {
		return 0, ErrNotInteger
	}
	return d.IntPart(), nil
}
