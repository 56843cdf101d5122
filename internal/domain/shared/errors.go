package shared

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Storage-level errors shared by all DAOs.
var (
	// ErrDuplicate is returned when a write violates a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate key")

	// ErrUnknownColumn is returned when a caller names a column the entity mapping does not expose.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrNoFields is returned when a write is attempted with an empty field set.
	ErrNoFields = errors.New("no fields to write")
)

// DuplicateError carries the name of the violated constraint.
type DuplicateError struct {
	Constraint string
}

func (e *DuplicateError) Error() string {
	if e.Constraint == "" {
		return ErrDuplicate.Error()
	}
	return fmt.Sprintf("%s: %s", ErrDuplicate.Error(), e.Constraint)
}

// Unwrap makes errors.Is(err, ErrDuplicate) hold.
func (e *DuplicateError) Unwrap() error { return ErrDuplicate }

// DuplicateConstraint returns the violated constraint name when err is a duplicate.
func DuplicateConstraint(err error) (string, bool) {
	var dupErr *DuplicateError
	if errors.As(err, &dupErr) {
		return dupErr.Constraint, true
	}
	if errors.Is(err, ErrDuplicate) {
		return "", true
	}
	return "", false
}

// Message turns a domain error into a user-facing sentence.
func Message(err error) string {
	if err == nil {
		return ""
	}
	r, size := utf8.DecodeRuneInString(err.Error())
	return string(unicode.ToUpper(r)) + err.Error()[size:]
}
