package shared

import (
	"fmt"
	"regexp"
	"strings"
)

// FieldError is a validation failure attached to a single input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Fields is a column → value map used for partial writes and filters.
type Fields map[string]any

var dniPattern = regexp.MustCompile(`^[0-9]{10}$`)

// RequiredFields reports every field that is absent, nil or an empty string.
func RequiredFields(data map[string]any, required []string) []FieldError {
	var errs []FieldError
	for _, field := range required {
		value, ok := data[field]
		if !ok || value == nil {
			errs = append(errs, requiredError(field))
			continue
		}
		if s, isString := value.(string); isString && strings.TrimSpace(s) == "" {
			errs = append(errs, requiredError(field))
		}
	}
	return errs
}

func requiredError(field string) FieldError {
	return FieldError{Field: field, Message: fmt.Sprintf("El campo '%s' es requerido", field)}
}

// ValidateDNI checks the national identity number format (exactly 10 digits).
func ValidateDNI(dni string) *FieldError {
	dni = strings.TrimSpace(dni)
	if dni == "" {
		return &FieldError{Field: "dni", Message: "El DNI es obligatorio"}
	}
	if !dniPattern.MatchString(dni) {
		return &FieldError{Field: "dni", Message: "El DNI debe tener 10 dígitos numéricos"}
	}
	return nil
}

// AllowedFields returns the subset of changes whose keys are in the allow-list.
func AllowedFields(changes map[string]any, allowed []string) Fields {
	out := make(Fields, len(allowed))
	for _, key := range allowed {
		if value, ok := changes[key]; ok {
			out[key] = value
		}
	}
	return out
}
